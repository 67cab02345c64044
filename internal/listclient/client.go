package listclient

import (
	"context"
	"io"
	"log"

	"github.com/idilsaglam/stringlist/internal/model"
)

// Service is the remote collection. *api.Client satisfies it.
type Service interface {
	List(ctx context.Context) ([]model.Entry, error)
	Create(ctx context.Context, text string) (model.Entry, error)
	Delete(ctx context.Context, id model.ID) error
}

// RefreshResult is the outcome of a list request.
type RefreshResult struct {
	Entries []model.Entry
	Err     error
}

// Apply folds the result into s. A failure keeps the stale entries visible.
func (r RefreshResult) Apply(s State) State {
	s.Loading = false
	if r.Err != nil {
		s.Err = MsgLoadFailed
		return s
	}
	if r.Entries == nil {
		s.Entries = []model.Entry{}
	} else {
		s.Entries = append([]model.Entry(nil), r.Entries...)
	}
	s.Err = ""
	return s
}

// SubmitResult is the outcome of a create request.
type SubmitResult struct {
	Entry model.Entry
	Err   error
}

// Apply appends the created entry and clears the input, or reports failure
// leaving input and entries as they were.
func (r SubmitResult) Apply(s State) State {
	s.Loading = false
	if r.Err != nil {
		s.Err = MsgAddFailed
		return s
	}
	next := make([]model.Entry, 0, len(s.Entries)+1)
	next = append(next, s.Entries...)
	s.Entries = append(next, r.Entry)
	s.Input = ""
	s.Err = ""
	return s
}

// RemoveResult is the outcome of a delete request.
type RemoveResult struct {
	ID  model.ID
	Err error
}

// Apply filters the entry out on success. It never touches Loading and never
// clears an earlier error.
func (r RemoveResult) Apply(s State) State {
	if r.Err != nil {
		s.Err = MsgDeleteFailed
		return s
	}
	next := make([]model.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.ID != r.ID {
			next = append(next, e)
		}
	}
	s.Entries = next
	return s
}

// Client runs one request per call and turns the outcome into a result.
// Calls are independent; nothing is queued, retried or cancelled here.
type Client struct {
	svc Service
	log *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets where failure diagnostics go. Nil discards them.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		c.log = l
	}
}

// New returns a Client over svc. Diagnostics default to the standard logger.
func New(svc Service, opts ...Option) *Client {
	c := &Client{svc: svc, log: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches the whole collection.
func (c *Client) Refresh(ctx context.Context) RefreshResult {
	entries, err := c.svc.List(ctx)
	if err != nil {
		c.log.Printf("error fetching strings: %v", err)
	}
	return RefreshResult{Entries: entries, Err: err}
}

// Submit creates an entry with text, which must already be trimmed.
func (c *Client) Submit(ctx context.Context, text string) SubmitResult {
	e, err := c.svc.Create(ctx, text)
	if err != nil {
		c.log.Printf("error adding string: %v", err)
	}
	return SubmitResult{Entry: e, Err: err}
}

// Remove deletes the entry with id.
func (c *Client) Remove(ctx context.Context, id model.ID) RemoveResult {
	err := c.svc.Delete(ctx, id)
	if err != nil {
		c.log.Printf("error deleting string %s: %v", id, err)
	}
	return RemoveResult{ID: id, Err: err}
}
