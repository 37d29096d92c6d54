package config

const (
	// MaxEntryNameLength is the maximum length for file and folder names.
	MaxEntryNameLength = 255

	// MaxPathLength is the maximum length for a folder's full path.
	MaxPathLength = 1024

	// DefaultInlinePayloadThreshold is the size below which uploaded content
	// is stored inline with the entry. Larger files are metadata-only.
	DefaultInlinePayloadThreshold = 100000

	// DefaultUploadConcurrency bounds concurrent reads within one upload batch.
	DefaultUploadConcurrency = 4

	// DefaultMaxUploadBytes caps one multipart upload request.
	DefaultMaxUploadBytes = 64 << 20
)
