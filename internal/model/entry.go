package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies an entry. The server assigns it and the client never
// interprets it beyond equality and use in a URL path.
type ID string

// UnmarshalJSON accepts both string and number literals, since backends
// differ in how they serialize ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: want string or number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Entry is one list item: a server-assigned id plus the user's text.
type Entry struct {
	ID   ID     `json:"id"`
	Text string `json:"text"`
}
