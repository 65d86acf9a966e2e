package browsertest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"siteE2E/internal/browser"
)

// ErrStrict повторяет strict mode драйвера: действие над локатором,
// совпавшим с несколькими элементами.
var ErrStrict = errors.New("strict mode violation")

// Locator - ленивый локатор фейковой страницы. resolve вызывается под
// мьютексом страницы.
type Locator struct {
	page    *Page
	key     string
	resolve func() []*Element
}

var _ browser.Locator = (*Locator)(nil)

func (l *Locator) String() string {
	return l.key
}

func (l *Locator) derive(key string, resolve func() []*Element) browser.Locator {
	return &Locator{page: l.page, key: key, resolve: resolve}
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return len(l.resolve()), ctx.Err()
}

func (l *Locator) Nth(i int) browser.Locator {
	return l.derive(fmt.Sprintf("%s >> nth=%d", l.key, i), func() []*Element {
		els := l.resolve()
		if i < 0 || i >= len(els) {
			return nil
		}
		return els[i : i+1]
	})
}

func (l *Locator) First() browser.Locator {
	return l.Nth(0)
}

// Locator ищет потомков в Children найденных элементов и дополнительно
// среди элементов, зарегистрированных под ChildKey.
func (l *Locator) Locator(selector string) browser.Locator {
	flat := ChildKey(l.key, selector)
	return l.derive(flat, func() []*Element {
		var out []*Element
		for _, el := range l.resolve() {
			out = append(out, el.Children[selector]...)
		}
		return append(out, l.page.elements[flat]...)
	})
}

func (l *Locator) Filter(hasText *regexp.Regexp) browser.Locator {
	return l.derive(fmt.Sprintf("%s >> has-text=/%s/", l.key, hasText), func() []*Element {
		var out []*Element
		for _, el := range l.resolve() {
			if matchText(hasText, el.Text) {
				out = append(out, el)
			}
		}
		return out
	})
}

// one возвращает единственный элемент или ошибку как у драйвера.
func (l *Locator) one() (*Element, error) {
	els := l.resolve()
	switch len(els) {
	case 0:
		return nil, fmt.Errorf("%s: элемент не найден: %w", l.key, browser.ErrTimeout)
	case 1:
		return els[0], nil
	default:
		return nil, fmt.Errorf("%s: %d элементов: %w", l.key, len(els), ErrStrict)
	}
}

// with выполняет fn над единственным элементом под блокировкой страницы.
func (l *Locator) with(ctx context.Context, fn func(el *Element) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, err := l.one()
	if err != nil {
		return err
	}
	return fn(el)
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	els := l.resolve()
	switch len(els) {
	case 0:
		return false, nil
	case 1:
		return els[0].Visible, nil
	default:
		return false, fmt.Errorf("%s: %w", l.key, ErrStrict)
	}
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := l.with(ctx, func(el *Element) error {
		enabled = el.Enabled
		return nil
	})
	return enabled, err
}

func (l *Locator) IsChecked(ctx context.Context) (bool, error) {
	var checked bool
	err := l.with(ctx, func(el *Element) error {
		checked = el.Checked
		return nil
	})
	return checked, err
}

func (l *Locator) Click(ctx context.Context, opts browser.ClickOptions) error {
	var effect func(*Page)
	err := l.with(ctx, func(el *Element) error {
		if opts.Force {
			if el.ForceClickErr != nil {
				return el.ForceClickErr
			}
			el.ForceClicks++
		} else {
			if !el.Visible || !el.Enabled {
				return fmt.Errorf("клик %s: элемент недоступен: %w", l.key, browser.ErrTimeout)
			}
			if el.ClickErr != nil {
				return el.ClickErr
			}
			el.Clicks++
		}
		effect = el.OnClick
		return nil
	})
	if err != nil {
		return err
	}
	if effect != nil {
		effect(l.page)
	}
	return nil
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	return l.with(ctx, func(el *Element) error {
		if !el.Visible || !el.Enabled {
			return fmt.Errorf("заполнение %s: %w", l.key, browser.ErrTimeout)
		}
		el.Value = value
		el.Filled = append(el.Filled, value)
		return nil
	})
}

func (l *Locator) InputValue(ctx context.Context) (string, error) {
	var v string
	err := l.with(ctx, func(el *Element) error {
		v = el.Value
		return nil
	})
	return v, err
}

func (l *Locator) SelectOption(ctx context.Context, label string) error {
	return l.with(ctx, func(el *Element) error {
		el.Value = label
		el.Selected = append(el.Selected, label)
		return nil
	})
}

func (l *Locator) Check(ctx context.Context, force bool) error {
	return l.with(ctx, func(el *Element) error {
		if !force && !el.Visible {
			return fmt.Errorf("отметка %s: %w", l.key, browser.ErrTimeout)
		}
		el.Checked = true
		return nil
	})
}

func (l *Locator) Uncheck(ctx context.Context) error {
	return l.with(ctx, func(el *Element) error {
		el.Checked = false
		return nil
	})
}

func (l *Locator) WaitFor(ctx context.Context, state browser.State, timeout time.Duration) error {
	return poll(ctx, timeout, fmt.Sprintf("%s (%s)", l.key, state), func() (bool, error) {
		l.page.mu.Lock()
		defer l.page.mu.Unlock()
		els := l.resolve()
		if len(els) > 1 && (state == browser.StateVisible || state == browser.StateHidden) {
			return false, fmt.Errorf("%s: %w", l.key, ErrStrict)
		}
		switch state {
		case browser.StateHidden:
			return len(els) == 0 || !els[0].Visible, nil
		case browser.StateAttached:
			return len(els) > 0, nil
		case browser.StateDetached:
			return len(els) == 0, nil
		default:
			return len(els) == 1 && els[0].Visible, nil
		}
	})
}

func (l *Locator) Text(ctx context.Context) (string, error) {
	var text string
	err := l.with(ctx, func(el *Element) error {
		text = el.Text
		return nil
	})
	return text, err
}

func (l *Locator) Attribute(ctx context.Context, name string) (string, error) {
	var v string
	err := l.with(ctx, func(el *Element) error {
		v = el.Attrs[name]
		return nil
	})
	return v, err
}

// Evaluate передает в OnEvaluate страницы ключ локатора как аргумент.
func (l *Locator) Evaluate(ctx context.Context, script string) (any, error) {
	if err := l.with(ctx, func(*Element) error { return nil }); err != nil {
		return nil, err
	}
	return l.page.Evaluate(ctx, script, l.key)
}

func (l *Locator) ScrollIntoView(ctx context.Context) error {
	return l.with(ctx, func(el *Element) error {
		el.Scrolls++
		return nil
	})
}

func (l *Locator) Screenshot(ctx context.Context) ([]byte, error) {
	if err := l.with(ctx, func(el *Element) error {
		if !el.Visible {
			return fmt.Errorf("скриншот %s: %w", l.key, browser.ErrTimeout)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return append([]byte(nil), PNG...), nil
}
