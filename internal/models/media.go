package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MediaList accepts either a JSON array of strings or a single
// comma-separated string.
type MediaList []string

func (m *MediaList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("media must be a string or an array of strings")
	}
	*m = strings.Split(joined, ",")
	return nil
}

// Clean trims every entry and drops the blank ones.
func (m MediaList) Clean() MediaList {
	out := make(MediaList, 0, len(m))
	for _, entry := range m {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
