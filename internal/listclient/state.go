// Package listclient holds the list view's state and the transitions that
// requests apply to it. It knows nothing about how the state is rendered.
package listclient

import (
	"strings"

	"github.com/idilsaglam/stringlist/internal/model"
)

// User-facing error messages. Every failure of an operation collapses into
// its one message.
const (
	MsgEmptyInput   = "Please enter some text"
	MsgLoadFailed   = "Failed to load strings. Please try again."
	MsgAddFailed    = "Failed to add string. Please try again."
	MsgDeleteFailed = "Failed to delete string. Please try again."
)

// State is everything the view shows. The zero value is the initial state.
type State struct {
	Input   string
	Entries []model.Entry
	Loading bool
	Err     string
}

// Body says what goes where the list is drawn.
type Body int

const (
	BodyList Body = iota
	BodyLoading
	BodyEmpty
)

// BeginRefresh marks a list request as pending.
func (s State) BeginRefresh() State {
	s.Loading = true
	return s
}

// BeginSubmit validates text. On empty input it sets the validation message
// and returns ok=false; no request must be sent. Otherwise it marks the
// request pending and returns the trimmed text to send.
func (s State) BeginSubmit(text string) (next State, send string, ok bool) {
	send = strings.TrimSpace(text)
	if send == "" {
		s.Err = MsgEmptyInput
		return s, "", false
	}
	s.Loading = true
	return s, send, true
}

// SetInput replaces the text being typed.
func (s State) SetInput(v string) State {
	s.Input = v
	return s
}

// InputDisabled reports whether the text input should refuse edits.
func (s State) InputDisabled() bool { return s.Loading }

// SubmitDisabled reports whether the submit control is inactive.
func (s State) SubmitDisabled() bool {
	return s.Loading || strings.TrimSpace(s.Input) == ""
}

// SubmitLabel is the caption of the submit control.
func (s State) SubmitLabel() string {
	if s.Loading {
		return "Adding..."
	}
	return "Enter"
}

// Body picks the list area content.
func (s State) Body() Body {
	switch {
	case s.Loading && len(s.Entries) == 0:
		return BodyLoading
	case len(s.Entries) == 0:
		return BodyEmpty
	default:
		return BodyList
	}
}

// Index returns the position of id in Entries, or -1.
func (s State) Index(id model.ID) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
