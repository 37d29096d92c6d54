package vfs

import "strings"

// PathSegment is one breadcrumb step: the segment label and the full path
// up to and including it.
type PathSegment struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// JoinPath builds a child path from a parent path and a name.
//
// Examples:
//   - JoinPath("", "Docs") → "Docs"
//   - JoinPath("Docs", "2024") → "Docs/2024"
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// NormalizePath trims surrounding whitespace and slashes so "/Docs/" and
// "Docs" address the same folder. Root is "".
func NormalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// ResolvePathSegments splits a path into cumulative segments. Empty
// segments (from doubled slashes) are skipped.
//
// Example:
//   - ResolvePathSegments("Docs/2024") → [{Docs, Docs}, {2024, Docs/2024}]
func ResolvePathSegments(path string) []PathSegment {
	segments := []PathSegment{}
	current := ""
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		current = JoinPath(current, part)
		segments = append(segments, PathSegment{Label: part, Path: current})
	}
	return segments
}

// IsWithin reports whether path equals ancestor or lies below it.
func IsWithin(path, ancestor string) bool {
	if ancestor == "" {
		return true
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}

// Reparent swaps the oldPrefix portion of path for newPrefix. Callers must
// check IsWithin(path, oldPrefix) first.
func Reparent(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	return JoinPath(newPrefix, strings.TrimPrefix(path, oldPrefix+"/"))
}
