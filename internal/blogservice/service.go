// Package blogservice holds the category and post managers: the rules that keep
// categories and posts consistent on top of the store.
package blogservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/bloggerbox/internal/apperr"
)

// Change event kinds passed to a Notifier.
const (
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"
	EventPostCreated     = "post.created"
	EventPostUpdated     = "post.updated"
	EventPostDeleted     = "post.deleted"
)

// Notifier is told about every successful mutation.
type Notifier interface {
	Notify(kind string, id uuid.UUID)
}

// Option configures a service.
type Option func(*options)

type options struct {
	notifier Notifier
	now      func() time.Time
	newID    func() uuid.UUID
}

// WithNotifier sets the receiver of change events.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithClock overrides the time source used to stamp new posts.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how new ids are allocated.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) notify(kind string, id uuid.UUID) {
	if o.notifier != nil {
		o.notifier.Notify(kind, id)
	}
}

// writeErr turns a store write error into a StorageConflict when a constraint rejected it.
func writeErr(op string, err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return &apperr.StorageConflictError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
