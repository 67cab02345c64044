package model

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "string", in: `{"id":"abc","text":"x"}`, want: "abc"},
		{name: "number", in: `{"id":42,"text":"x"}`, want: "42"},
		{name: "null", in: `{"id":null,"text":"x"}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entry
			if err := json.Unmarshal([]byte(tt.in), &e); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if e.ID != tt.want {
				t.Errorf("ID = %q, want %q", e.ID, tt.want)
			}
			if e.Text != "x" {
				t.Errorf("Text = %q, want %q", e.Text, "x")
			}
		})
	}
}

func TestID_UnmarshalJSON_RejectsObject(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"id":{"n":1}}`), &e); err == nil {
		t.Fatal("Unmarshal(object id) should return error")
	}
}

func TestID_MarshalsAsString(t *testing.T) {
	b, err := json.Marshal(Entry{ID: "7", Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"id":"7","text":"hi"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
