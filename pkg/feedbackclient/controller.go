package feedbackclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/NomadCrew/feedback-service/types"
)

// MsgSubmitted is shown after a successful submit.
const MsgSubmitted = "Feedback submitted successfully!"

var (
	// ErrRequestInFlight is returned when a request for the same target is
	// still outstanding. No request is sent.
	ErrRequestInFlight = errors.New("request already in progress")
	// ErrNotConfirmed is returned when the user declines a delete.
	ErrNotConfirmed = errors.New("delete not confirmed")
)

// StatusKind classifies the outcome of the last submit.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

type SubmitStatus struct {
	Kind    StatusKind
	Message string
}

// State is a point-in-time copy of the controller's view.
type State struct {
	Items   []types.Feedback
	Loading bool
	// Error is set when the last refresh failed. Items keep their previous value.
	Error string
	// ActionError holds the message of the last failed edit or delete.
	ActionError  string
	SubmitStatus SubmitStatus
	// Pending lists targets with a request outstanding: item ids, or
	// NewItemKey for a submit.
	Pending map[string]bool
}

// NewItemKey is the pending key used while a submit is outstanding.
const NewItemKey = "new"

// Confirmer asks the user to approve deleting an entry.
type Confirmer interface {
	Confirm(ctx context.Context, fb types.Feedback) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, fb types.Feedback) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, fb types.Feedback) (bool, error) {
	return f(ctx, fb)
}

// Controller reconciles a local feedback list with the server. Mutations are
// applied locally only after the server confirms them.
type Controller struct {
	api ClientInterface

	mu      sync.Mutex
	state   State
	pending map[string]struct{}
}

func NewController(api ClientInterface) *Controller {
	return &Controller{
		api:     api,
		state:   State{Items: []types.Feedback{}},
		pending: make(map[string]struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Items = append([]types.Feedback(nil), c.state.Items...)
	s.Pending = make(map[string]bool, len(c.pending))
	for key := range c.pending {
		s.Pending[key] = true
	}
	return s
}

// Refresh replaces the list with the server's. On failure the previous
// items stay visible and Error is set.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	items, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	if err != nil {
		c.state.Error = refreshMessage(err)
		return err
	}
	c.state.Items = items
	c.state.Error = ""
	return nil
}

// Submit creates an entry and prepends it to the list.
func (c *Controller) Submit(ctx context.Context, name, message string) (*types.Feedback, error) {
	if !c.begin(NewItemKey) {
		return nil, ErrRequestInFlight
	}
	defer c.end(NewItemKey)

	c.mu.Lock()
	c.state.SubmitStatus = SubmitStatus{}
	c.mu.Unlock()

	fb, err := c.api.Create(ctx, strings.TrimSpace(name), strings.TrimSpace(message))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.SubmitStatus = SubmitStatus{Kind: StatusError, Message: Message(err)}
		return nil, err
	}
	c.state.Items = append([]types.Feedback{*fb}, c.state.Items...)
	c.state.SubmitStatus = SubmitStatus{Kind: StatusSuccess, Message: MsgSubmitted}
	return fb, nil
}

// Remove deletes an entry after confirm approves it, then filters it out
// of the list.
func (c *Controller) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if !c.begin(id) {
		return ErrRequestInFlight
	}
	defer c.end(id)

	target, ok := c.find(id)
	if !ok {
		target = types.Feedback{ID: id}
	}
	if confirm == nil {
		return ErrNotConfirmed
	}
	approved, err := confirm.Confirm(ctx, target)
	if err != nil {
		return err
	}
	if !approved {
		return ErrNotConfirmed
	}

	_, err = c.api.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.ActionError = Message(err)
		return err
	}
	kept := make([]types.Feedback, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.state.Items = kept
	c.state.ActionError = ""
	return nil
}

// Edit updates an entry and replaces it in place. On failure the cached
// item is left as it was.
func (c *Controller) Edit(ctx context.Context, id, name, message string) (*types.Feedback, error) {
	if !c.begin(id) {
		return nil, ErrRequestInFlight
	}
	defer c.end(id)

	fb, err := c.api.Update(ctx, id, strings.TrimSpace(name), strings.TrimSpace(message))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.ActionError = Message(err)
		return nil, err
	}
	for i := range c.state.Items {
		if c.state.Items[i].ID == id {
			c.state.Items[i] = *fb
			break
		}
	}
	c.state.ActionError = ""
	return fb, nil
}

func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[key]; busy {
		return false
	}
	c.pending[key] = struct{}{}
	return true
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
}

func (c *Controller) find(id string) (types.Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if item.ID == id {
			return item, true
		}
	}
	return types.Feedback{}, false
}

func refreshMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) && errors.Is(err, ErrServiceUnavailable) {
		return MsgUnavailableFetch
	}
	if msg := Message(err); msg != "" {
		return msg
	}
	return "Failed to fetch feedback"
}
