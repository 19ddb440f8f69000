package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ItemError ordnet einen Fehler dem Element zu, an dem er auftrat.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string { return fmt.Sprintf("%s: %v", e.Item, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// BatchError: mindestens ein Element ist fehlgeschlagen. Err enthält alle Einzelfehler.
type BatchError struct {
	Attempted int
	Failed    int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d items failed: %v", e.Failed, e.Attempted, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Errors liefert die Einzelfehler in Eingabereihenfolge.
func (e *BatchError) Errors() []error { return multierr.Errors(e.Err) }

// RunBatch führt fn für jedes Element aus, höchstens workers gleichzeitig. Fehler
// brechen den Lauf nicht ab; nach dem letzten Element wird ein *BatchError geliefert.
func RunBatch[T any](ctx context.Context, items []T, workers int, name func(T) string, fn func(context.Context, T) error) error {
	if workers < 1 {
		workers = 1
	}
	results := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := fn(ctx, item); err != nil {
				results[i] = &ItemError{Item: name(item), Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
			errs = multierr.Append(errs, err)
		}
	}
	if failed == 0 {
		return nil
	}
	return &BatchError{Attempted: len(items), Failed: failed, Err: errs}
}
