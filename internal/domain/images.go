package domain

import (
	"encoding/json"
	"fmt"
)

// ImageList holds one or more image URLs. The storefront frontend sends the
// field either as a single string or as an array of strings; both decode into
// the same list. It always marshals as an array.
type ImageList []string

// UnmarshalJSON accepts a string or an array of strings. Any other shape is
// rejected so malformed input surfaces as a validation failure instead of
// being silently coerced.
func (il *ImageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*il = ImageList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*il = ImageList(many)
		return nil
	}

	return fmt.Errorf("image must be a URL string or an array of URL strings")
}

// Valid reports whether the list is non-empty and free of empty entries.
func (il ImageList) Valid() bool {
	if len(il) == 0 {
		return false
	}
	for _, url := range il {
		if url == "" {
			return false
		}
	}
	return true
}
