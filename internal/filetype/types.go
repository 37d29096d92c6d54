package filetype

// Category is the closed set of classification tokens used for icons and
// the "type" sort order.
type Category string

const (
	Image    Category = "image"
	Video    Category = "video"
	Audio    Category = "audio"
	Document Category = "document"
	PDF      Category = "pdf"
	Archive  Category = "archive"
	Code     Category = "code"
	Text     Category = "text"
	Default  Category = "default"
)

// Known reports whether c belongs to the closed category set.
func (c Category) Known() bool {
	switch c {
	case Image, Video, Audio, Document, PDF, Archive, Code, Text, Default:
		return true
	}
	return false
}

// CategoryRule is one category's matching table as declared in YAML
type CategoryRule struct {
	Name         Category `yaml:"name"`
	Icon         string   `yaml:"icon"`
	Extensions   []string `yaml:"extensions"`
	MIMETypes    []string `yaml:"mime_types"`
	MIMEPrefixes []string `yaml:"mime_prefixes"`
}

type tableFile struct {
	DefaultIcon string         `yaml:"default_icon"`
	FolderIcon  string         `yaml:"folder_icon"`
	Categories  []CategoryRule `yaml:"categories"`
}
