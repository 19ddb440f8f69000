// Package retry wiederholt Operationen mit begrenzter Versuchszahl und exponentiellem Backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy: Attempts ist die Gesamtzahl der Versuche (mindestens 1). Backoff ist die
// Wartezeit vor dem zweiten Versuch und verdoppelt sich danach; 0 wartet nicht.
type Policy struct {
	Attempts int
	Backoff  time.Duration
}

// Permanent markiert einen Fehler, der nicht wiederholt werden soll.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

func (p Policy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// backOff liefert die Wartezeiten zwischen den Versuchen, ohne Zufallsanteil.
func (p Policy) backOff() backoff.BackOff {
	if p.Backoff <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Backoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.Backoff * time.Duration(1<<uint(p.attempts()))
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do ruft fn auf, bis es nil liefert, ein permanenter Fehler auftritt oder die
// Versuche aufgebraucht sind. fn erhält die Nummer des Versuchs ab 1.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attempt := 0
	permanent := false
	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(p.attempts()-1)), ctx)
	err := backoff.Retry(func() error {
		attempt++
		err := fn(ctx, attempt)
		var perm *backoff.PermanentError
		permanent = errors.As(err, &perm)
		return err
	}, b)

	switch {
	case err == nil, permanent:
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("after %d attempts: %w", attempt, err)
}
