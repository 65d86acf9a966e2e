package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Waiter - один из возможных исходов действия.
type Waiter struct {
	Name string
	Wait func(ctx context.Context) error
}

// Outcome - какой из исходов наступил первым.
type Outcome struct {
	Index int
	Name  string
}

type abortError struct {
	err error
}

func (e *abortError) Error() string { return e.err.Error() }

func (e *abortError) Unwrap() error { return e.err }

// Abort помечает ошибку ожидающего как окончательную: гонка
// прекращается сразу, не дожидаясь остальных.
func Abort(err error) error {
	if err == nil {
		return nil
	}
	return &abortError{err: err}
}

type raceResult struct {
	index int
	err   error
}

// FirstOf запускает все ожидания параллельно под одним таймаутом и
// возвращает первое успешное. Остальные отменяются через контекст.
func FirstOf(ctx context.Context, timeout time.Duration, waiters ...Waiter) (Outcome, error) {
	if len(waiters) == 0 {
		return Outcome{}, fmt.Errorf("%w: нечего ждать", ErrNoOutcome)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan raceResult, len(waiters))
	for i, w := range waiters {
		go func() {
			results <- raceResult{index: i, err: w.Wait(ctx)}
		}()
	}

	errs := make([]error, 0, len(waiters))
	for range waiters {
		select {
		case r := <-results:
			if r.err == nil {
				return Outcome{Index: r.index, Name: waiters[r.index].Name}, nil
			}
			errs = append(errs, fmt.Errorf("%s: %w", waiters[r.index].Name, r.err))

			var abort *abortError
			if errors.As(r.err, &abort) {
				return Outcome{}, noOutcome(waiters, timeout, errs)
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return Outcome{}, noOutcome(waiters, timeout, errs)
		}
	}
	return Outcome{}, noOutcome(waiters, timeout, errs)
}

func noOutcome(waiters []Waiter, timeout time.Duration, errs []error) error {
	names := make([]string, len(waiters))
	for i, w := range waiters {
		names[i] = w.Name
	}
	return fmt.Errorf("%w (%s) за %s: %w", ErrNoOutcome, strings.Join(names, ", "), timeout, errors.Join(errs...))
}
