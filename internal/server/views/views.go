// Package views carries the "view is stale" signal. Mutating operations call
// Invalidate with the view whose rendering they changed; implementations
// evict caches directly or broadcast the signal over NATS.
package views

import (
	"context"
	"errors"
)

type View string

const (
	// Feed is the post listing.
	Feed View = "/learn"
	// Notifications is the recipient's notification list.
	Notifications View = "/notifications"
)

type Invalidator interface {
	Invalidate(ctx context.Context, view View) error
}

// Func adapts a plain function to Invalidator.
type Func func(ctx context.Context, view View) error

func (f Func) Invalidate(ctx context.Context, view View) error {
	return f(ctx, view)
}

type Nop struct{}

func (Nop) Invalidate(context.Context, View) error { return nil }

// Multi fans the signal out to every member and joins their errors.
type Multi []Invalidator

func (m Multi) Invalidate(ctx context.Context, view View) error {
	var errs []error
	for _, inv := range m {
		if err := inv.Invalidate(ctx, view); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
