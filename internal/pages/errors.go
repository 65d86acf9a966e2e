package pages

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized - неизвестное имя отрасли, решения или языка.
	ErrNotRecognized = errors.New("не распознано")
	// ErrSkipped - проверку нельзя выполнить на текущей версии страницы.
	ErrSkipped = errors.New("пропущено")
)

// AssertionError - ожидание validate-метода не выполнилось.
type AssertionError struct {
	Page        string
	Expectation string
	Detail      string
	Err         error
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("%s: ожидалось %s", e.Page, e.Expectation)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// IsAssertion сообщает, что ошибка - проваленная проверка, а не сбой навигации.
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

func notRecognized(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrNotRecognized)
}
