package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"campushub/internal/session"
)

// Entity is anything the API stores with a numeric id.
type Entity interface {
	EntityID() uint
}

// Result is what every store operation returns. Failures carry Message and
// never surface as Go errors.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Collection is the local copy of one API resource plus its CRUD calls.
// Local state only changes after the server confirms an operation.
//
// Fetches are not sequenced: when two overlap, whichever response arrives
// last replaces the items, even if it was requested first.
type Collection[T Entity] struct {
	resource string
	api      APIClient
	session  session.Provider

	mu       sync.RWMutex
	items    []T
	inflight int
	lastErr  string
}

// NewCollection binds a collection to resource, e.g. "/api/route".
func NewCollection[T Entity](resource string, api APIClient, sess session.Provider) *Collection[T] {
	return &Collection[T]{resource: resource, api: api, session: sess}
}

// Resource is the collection's base path.
func (c *Collection[T]) Resource() string {
	return c.resource
}

// Fetch loads the caller's view of the resource and replaces the local items.
func (c *Collection[T]) Fetch(ctx context.Context, filters url.Values) Result[[]T] {
	c.begin()
	defer c.end()

	path := BuildURL(c.session, c.resource, filters)
	var items []T
	if msg, ok := c.call(ctx, http.MethodGet, path, nil, &items); !ok {
		return Result[[]T]{Message: msg}
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	c.items = items
	c.lastErr = ""
	c.mu.Unlock()

	return Result[[]T]{Success: true, Data: clone(items)}
}

// Create posts data and appends the stored entity. Tenant-scoped callers have
// their school_id written into the payload.
func (c *Collection[T]) Create(ctx context.Context, data any) Result[T] {
	c.begin()
	defer c.end()

	payload := data
	if u, ok := c.session.CurrentUser(); ok && u.Role.TenantScoped() && u.SchoolID != 0 {
		tagged, err := withSchool(data, u.SchoolID)
		if err != nil {
			return Result[T]{Message: c.fail("create", err.Error())}
		}
		payload = tagged
	}

	var created T
	if msg, ok := c.call(ctx, http.MethodPost, c.resource, payload, &created); !ok {
		return Result[T]{Message: msg}
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.lastErr = ""
	c.mu.Unlock()

	return Result[T]{Success: true, Data: created}
}

// Update sends patch and swaps the local entity for the server's full copy.
func (c *Collection[T]) Update(ctx context.Context, id uint, patch any) Result[T] {
	c.begin()
	defer c.end()

	var updated T
	if msg, ok := c.call(ctx, http.MethodPut, c.itemPath(id), patch, &updated); !ok {
		return Result[T]{Message: msg}
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items[i] = updated
		}
	}
	c.lastErr = ""
	c.mu.Unlock()

	return Result[T]{Success: true, Data: updated}
}

// Delete removes the entity on the server, then locally.
func (c *Collection[T]) Delete(ctx context.Context, id uint) Result[struct{}] {
	c.begin()
	defer c.end()

	if msg, ok := c.call(ctx, http.MethodDelete, c.itemPath(id), nil, nil); !ok {
		return Result[struct{}]{Message: msg}
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.lastErr = ""
	c.mu.Unlock()

	return Result[struct{}]{Success: true}
}

// Items returns a copy of the local entities.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

// Get finds a local entity by id.
func (c *Collection[T]) Get(id uint) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Err is the message of the last failed operation, "" after a success.
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Loading reports whether any request is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// Reset forgets all local state.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.lastErr = ""
}

func (c *Collection[T]) itemPath(id uint) string {
	return c.resource + "/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Collection[T]) begin() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Collection[T]) end() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

// call performs the request and decodes envelope data into out (when non-nil).
// On failure it records and returns the user-facing message.
func (c *Collection[T]) call(ctx context.Context, method, path string, body, out any) (string, bool) {
	op := opName(method)
	env, err := c.api.Do(ctx, method, path, body)
	if err != nil {
		return c.fail(op, err.Error()), false
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("failed to %s %s", op, c.resource)
		}
		return c.fail(op, msg), false
	}
	if out == nil {
		return "", true
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		// A list may come back empty; a written entity may not.
		if method == http.MethodPost || method == http.MethodPut {
			return c.fail(op, "unexpected response: no data"), false
		}
		return "", true
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.fail(op, "unexpected response: "+err.Error()), false
	}
	return "", true
}

func (c *Collection[T]) fail(op, msg string) string {
	logrus.WithFields(logrus.Fields{
		"resource": c.resource,
		"op":       op,
	}).Warn(msg)

	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
	return msg
}

func opName(method string) string {
	switch method {
	case http.MethodGet:
		return "fetch"
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return method
}

// withSchool re-encodes data as a JSON object with school_id set.
func withSchool(data any, schoolID uint) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, errors.New("payload must be a JSON object")
	}
	m["school_id"] = schoolID
	return m, nil
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
