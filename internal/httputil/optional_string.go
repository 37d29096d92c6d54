package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON PATCH semantics (RFC 7396):
//   - Present=false: field absent (leave unchanged)
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&s: field carries s, possibly ""
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only called when the field appears in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OrEmpty returns the value, treating null as ""
func (o OptionalString) OrEmpty() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}
