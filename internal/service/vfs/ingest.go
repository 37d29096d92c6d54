package vfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cloudshare/internal/domain"
	models "cloudshare/internal/domain/models/vfs"
	vfsSvc "cloudshare/internal/domain/services/vfs"
	"cloudshare/internal/filetype"
)

var _ vfsSvc.Ingester = (*Ingester)(nil)

// FileCreator is the part of the filesystem ingestion writes to
type FileCreator interface {
	FolderExists(path string) bool
	CreateFile(ctx context.Context, req *vfsSvc.CreateFileRequest) (*models.File, error)
}

// Ingester turns upload batches into files. Content of files below the
// inline threshold is read concurrently; entries are then created one at a
// time in input order. A failed read is reported for that file alone.
type Ingester struct {
	files       FileCreator
	classifier  *filetype.Registry
	threshold   int64
	concurrency int
	logger      *slog.Logger
}

// NewIngester creates an ingester. Files with size >= threshold are stored
// as metadata only.
func NewIngester(files FileCreator, classifier *filetype.Registry, threshold int64, concurrency int, logger *slog.Logger) *Ingester {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Ingester{
		files:       files,
		classifier:  classifier,
		threshold:   threshold,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (in *Ingester) Ingest(ctx context.Context, path string, uploads []vfsSvc.Upload) []vfsSvc.IngestResult {
	path = models.NormalizePath(path)
	results := make([]vfsSvc.IngestResult, len(uploads))
	for i, up := range uploads {
		results[i].Name = up.Name
	}

	if !in.files.FolderExists(path) {
		err := domain.NewNotFound("folder", path)
		for i := range results {
			results[i].Err = err
		}
		return results
	}

	payloads := make([][]byte, len(uploads))
	readErrs := make([]error, len(uploads))

	var g errgroup.Group
	g.SetLimit(in.concurrency)
	for i, up := range uploads {
		if !in.Inline(up.SizeBytes) {
			continue
		}
		g.Go(func() error {
			data, err := in.read(ctx, up)
			if err != nil {
				readErrs[i] = &domain.ReadError{Name: up.Name, Err: err}
				return nil
			}
			payloads[i] = data
			return nil
		})
	}
	_ = g.Wait()

	created, failed := 0, 0
	for i, up := range uploads {
		if readErrs[i] != nil {
			results[i].Err = readErrs[i]
			failed++
			in.logger.Warn("upload read failed", "name", up.Name, "error", readErrs[i])
			continue
		}

		file, err := in.files.CreateFile(ctx, &vfsSvc.CreateFileRequest{
			Name:      up.Name,
			SizeBytes: up.SizeBytes,
			MediaType: string(in.classifier.ClassifyUpload(up.Name, up.ContentType)),
			Payload:   payloads[i],
			Path:      path,
		})
		results[i].File = file
		results[i].Err = err
		if file != nil {
			created++
		}
		if err != nil {
			failed++
		}
	}

	in.logger.Info("upload batch ingested",
		"path", path,
		"total", len(uploads),
		"created", created,
		"failed", failed,
	)
	return results
}

// Inline reports whether a file of this size keeps its content inline
func (in *Ingester) Inline(size int64) bool {
	return size < in.threshold
}

func (in *Ingester) read(ctx context.Context, up vfsSvc.Upload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if up.Open == nil {
		return nil, errors.New("no content source")
	}

	rc, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, up.SizeBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != up.SizeBytes {
		return nil, fmt.Errorf("read %d bytes, expected %d", len(data), up.SizeBytes)
	}
	return data, nil
}
