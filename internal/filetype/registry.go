package filetype

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry classifies file names and MIME types into categories and maps
// categories to display icons. It is immutable once built.
type Registry struct {
	byExtension map[string]Category
	byMIME      map[string]Category
	prefixes    []mimePrefix
	icons       map[Category]string
	defaultIcon string
	folderIcon  string
}

type mimePrefix struct {
	prefix   string
	category Category
}

// NewRegistry loads the embedded classification tables
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/categories.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read categories.yaml: %w", err)
	}
	return NewRegistryFromYAML(data)
}

// NewRegistryFromYAML builds a registry from a YAML table document
func NewRegistryFromYAML(data []byte) (*Registry, error) {
	var table tableFile
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	r := &Registry{
		byExtension: make(map[string]Category),
		byMIME:      make(map[string]Category),
		icons:       make(map[Category]string),
		defaultIcon: table.DefaultIcon,
		folderIcon:  table.FolderIcon,
	}

	for _, rule := range table.Categories {
		if !rule.Name.Known() || rule.Name == Default {
			return nil, fmt.Errorf("unknown category %q", rule.Name)
		}
		if _, dup := r.icons[rule.Name]; dup {
			return nil, fmt.Errorf("category %q declared twice", rule.Name)
		}
		r.icons[rule.Name] = rule.Icon

		for _, ext := range rule.Extensions {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if prev, dup := r.byExtension[ext]; dup {
				return nil, fmt.Errorf("extension %q mapped to both %s and %s", ext, prev, rule.Name)
			}
			r.byExtension[ext] = rule.Name
		}
		for _, mt := range rule.MIMETypes {
			r.byMIME[strings.ToLower(mt)] = rule.Name
		}
		for _, p := range rule.MIMEPrefixes {
			r.prefixes = append(r.prefixes, mimePrefix{prefix: strings.ToLower(p), category: rule.Name})
		}
	}

	return r, nil
}

// Classify maps a file name or MIME type to a category. The extension is
// tried first (a name without a dot is its own extension), then the exact
// MIME type, then MIME prefixes. Unrecognized input is Default.
func (r *Registry) Classify(nameOrMIME string) Category {
	s := strings.ToLower(strings.TrimSpace(nameOrMIME))
	if s == "" {
		return Default
	}

	if c, ok := r.byExtension[extension(s)]; ok {
		return c
	}

	if strings.Contains(s, "/") {
		mediaType, _, _ := strings.Cut(s, ";")
		mediaType = strings.TrimSpace(mediaType)
		if c, ok := r.byMIME[mediaType]; ok {
			return c
		}
		for _, p := range r.prefixes {
			if strings.HasPrefix(mediaType, p.prefix) {
				return p.category
			}
		}
	}

	return Default
}

// ClassifyUpload prefers the declared content type and falls back to the
// file name when the type is missing or generic.
func (r *Registry) ClassifyUpload(name, contentType string) Category {
	if ct := strings.TrimSpace(contentType); ct != "" && !strings.HasPrefix(ct, "application/octet-stream") {
		if c := r.Classify(ct); c != Default {
			return c
		}
	}
	return r.Classify(name)
}

// IconFor returns the glyph for a category, falling back to the default icon
func (r *Registry) IconFor(c Category) string {
	if icon, ok := r.icons[c]; ok && icon != "" {
		return icon
	}
	return r.defaultIcon
}

// FolderIcon returns the glyph used for folders
func (r *Registry) FolderIcon() string {
	return r.folderIcon
}

func extension(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
