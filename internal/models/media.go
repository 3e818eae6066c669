package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Media is an image reference. The API sends {url, alt} objects, but older
// records carry a bare URL string; both decode into Media.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

func (m *Media) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return fmt.Errorf("decode media url: %w", err)
		}
		*m = Media{URL: url}
		return nil
	}

	type plain Media
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode media object: %w", err)
	}
	*m = Media(p)
	return nil
}

// MediaURL returns the URL of m or "" for a nil pointer
func MediaURL(m *Media) string {
	if m == nil {
		return ""
	}
	return m.URL
}
