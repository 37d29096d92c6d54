package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"cloudshare/internal/domain/models/vfs"
)

// entryRecord is the persisted shape of an Entry. The explicit "type" field
// discriminates files from folders.
type entryRecord struct {
	Type      vfs.EntryKind `json:"type"`
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Path      string        `json:"path"`
	CreatedAt time.Time     `json:"created_at"`
	SizeBytes int64         `json:"size_bytes,omitempty"`
	MediaType string        `json:"media_type,omitempty"`
	Payload   *[]byte       `json:"payload,omitempty"` // pointer keeps empty payloads distinct from none
}

// EncodeEntries serializes the full collection as a JSON array.
func EncodeEntries(entries []vfs.Entry) ([]byte, error) {
	records := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		meta := e.Meta()
		rec := entryRecord{
			Type:      e.Kind(),
			ID:        meta.ID,
			Name:      meta.Name,
			Path:      meta.Path,
			CreatedAt: meta.CreatedAt,
		}
		switch v := e.(type) {
		case *vfs.File:
			rec.SizeBytes = v.SizeBytes
			rec.MediaType = v.MediaType
			if v.Payload != nil {
				rec.Payload = &v.Payload
			}
		case *vfs.Folder:
		default:
			return nil, fmt.Errorf("unsupported entry type %T", e)
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// DecodeEntries parses a snapshot written by EncodeEntries. Any malformed
// record fails the whole decode.
func DecodeEntries(data []byte) ([]vfs.Entry, error) {
	var records []entryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]vfs.Entry, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		meta := vfs.EntryMeta{
			ID:        rec.ID,
			Name:      rec.Name,
			Path:      rec.Path,
			CreatedAt: rec.CreatedAt,
		}
		switch rec.Type {
		case vfs.KindFile:
			if rec.SizeBytes < 0 {
				return nil, fmt.Errorf("entry %d: negative size", i)
			}
			file := &vfs.File{
				EntryMeta: meta,
				SizeBytes: rec.SizeBytes,
				MediaType: rec.MediaType,
			}
			if rec.Payload != nil {
				file.Payload = *rec.Payload
				if file.Payload == nil {
					file.Payload = []byte{}
				}
			}
			entries = append(entries, file)
		case vfs.KindFolder:
			entries = append(entries, &vfs.Folder{EntryMeta: meta})
		default:
			return nil, fmt.Errorf("entry %d: unknown type %q", i, rec.Type)
		}
	}
	return entries, nil
}

// EncodeShares serializes the share collection as a JSON array.
func EncodeShares(shares []vfs.ShareRecord) ([]byte, error) {
	if shares == nil {
		shares = []vfs.ShareRecord{}
	}
	return json.Marshal(shares)
}

// DecodeShares parses a snapshot written by EncodeShares.
func DecodeShares(data []byte) ([]vfs.ShareRecord, error) {
	var shares []vfs.ShareRecord
	if err := json.Unmarshal(data, &shares); err != nil {
		return nil, fmt.Errorf("decode shares: %w", err)
	}
	for i, s := range shares {
		if s.FileID == "" {
			return nil, fmt.Errorf("share %d: missing file_id", i)
		}
		if s.AccessCount < 0 {
			return nil, fmt.Errorf("share %d: negative access_count", i)
		}
	}
	if shares == nil {
		shares = []vfs.ShareRecord{}
	}
	return shares, nil
}
