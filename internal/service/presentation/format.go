package presentation

import (
	"math"
	"strconv"
	"time"

	models "cloudshare/internal/domain/models/vfs"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count in binary (1024) steps with one decimal
// place above bytes. Sizes past the GB range stay in GB.
//
// Examples:
//   - FormatSize(0) → "0 B"
//   - FormatSize(1536) → "1.5 KB"
//   - FormatSize(1073741824) → "1.0 GB"
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	exp := 0
	for n := bytes; n >= 1024 && exp < len(sizeUnits)-1; n /= 1024 {
		exp++
	}
	if exp == 0 {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	value := float64(bytes) / math.Pow(1024, float64(exp))
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + sizeUnits[exp]
}

// FormatDate renders a timestamp in the short "Jan 2, 2006" form
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Crumb is one breadcrumb link
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// BreadcrumbFor returns Home followed by one crumb per path segment.
func BreadcrumbFor(path string) []Crumb {
	segments := models.ResolvePathSegments(path)
	crumbs := make([]Crumb, 0, len(segments)+1)
	crumbs = append(crumbs, Crumb{Label: "Home", Path: ""})
	for _, seg := range segments {
		crumbs = append(crumbs, Crumb{Label: seg.Label, Path: seg.Path})
	}
	return crumbs
}
