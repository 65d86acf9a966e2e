package navigation

import (
	"errors"
	"fmt"
)

var (
	ErrNotReady  = errors.New("страница не готова")
	ErrNoOutcome = errors.New("ни один исход не наступил")
)

// NotReadyError - навигация не пришла в ожидаемое состояние за все попытки.
type NotReadyError struct {
	Condition string
	Attempts  int
	Err       error
}

func (e *NotReadyError) Error() string {
	msg := fmt.Sprintf("ожидаемое условие %s не наступило после %d попыток", e.Condition, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotReadyError) Unwrap() error {
	return e.Err
}

func (e *NotReadyError) Is(target error) bool {
	return target == ErrNotReady
}

// conditionError связывает ошибку попытки с условием, на котором она случилась.
type conditionError struct {
	what string
	err  error
}

func (e *conditionError) Error() string {
	return e.what + ": " + e.err.Error()
}

func (e *conditionError) Unwrap() error {
	return e.err
}
