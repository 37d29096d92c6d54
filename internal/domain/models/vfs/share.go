package vfs

import "time"

// ShareRecord is the at-most-one share issued for a file.
type ShareRecord struct {
	FileID      string    `json:"file_id"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	AccessCount int       `json:"access_count"`
}
