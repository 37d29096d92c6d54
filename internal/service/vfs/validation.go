package vfs

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cloudshare/internal/config"
	"cloudshare/internal/domain"
	vfsSvc "cloudshare/internal/domain/services/vfs"
)

var nameRules = []validation.Rule{
	validation.Required.Error("name is required"),
	validation.RuneLength(1, config.MaxEntryNameLength),
	validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("name cannot contain slashes"),
	validation.NotIn(".", "..").Error("name cannot be a relative path marker"),
}

var pathRules = []validation.Rule{
	validation.RuneLength(0, config.MaxPathLength),
	validation.Match(regexp.MustCompile(`^[^/]+(/[^/]+)*$`)).Error("path cannot contain empty segments"),
}

func validateName(name string) error {
	if err := validation.Validate(name, nameRules...); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("name: %v", err)}
	}
	return nil
}

func validatePath(path string) error {
	if err := validation.Validate(path, pathRules...); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("path: %v", err)}
	}
	return nil
}

func validateCreateFile(req *vfsSvc.CreateFileRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules...),
		validation.Field(&req.SizeBytes, validation.Min(int64(0))),
		validation.Field(&req.Path, pathRules...),
		validation.Field(&req.Payload, validation.By(func(value interface{}) error {
			payload, _ := value.([]byte)
			if payload != nil && int64(len(payload)) != req.SizeBytes {
				return errors.New("payload length must equal size_bytes")
			}
			return nil
		})),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

func validateCreateFolder(req *vfsSvc.CreateFolderRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules...),
		validation.Field(&req.Path, pathRules...),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
