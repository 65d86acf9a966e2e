package pages

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"siteE2E/internal/browser"
)

const pollInterval = 100 * time.Millisecond

const inViewportScript = `el => {
	const r = el.getBoundingClientRect();
	const h = window.innerHeight || document.documentElement.clientHeight;
	const w = window.innerWidth || document.documentElement.clientWidth;
	return r.bottom > 0 && r.right > 0 && r.top < h && r.left < w;
}`

// expect - проверки от имени одного фасада. Провал любой из них -
// AssertionError с названием ожидания.
type expect struct {
	page    string
	timeout time.Duration
}

func (s *Session) expect(page string) expect {
	return expect{page: page, timeout: s.timeouts.Expect}
}

func (e expect) fail(what, detail string, err error) error {
	return &AssertionError{Page: e.page, Expectation: what, Detail: detail, Err: err}
}

func (e expect) visible(ctx context.Context, what string, loc browser.Locator) error {
	return e.visibleWithin(ctx, what, loc, e.timeout)
}

func (e expect) visibleWithin(ctx context.Context, what string, loc browser.Locator, timeout time.Duration) error {
	if err := loc.WaitFor(ctx, browser.StateVisible, timeout); err != nil {
		return e.fail(what+" виден", loc.String(), err)
	}
	return nil
}

// atLeast проверяет число совпадений без ожидания, как count() драйвера.
func (e expect) atLeast(ctx context.Context, what string, loc browser.Locator, min int) error {
	n, err := loc.Count(ctx)
	if err != nil {
		return e.fail(fmt.Sprintf("не меньше %d: %s", min, what), loc.String(), err)
	}
	if n < min {
		return e.fail(fmt.Sprintf("не меньше %d: %s", min, what), fmt.Sprintf("найдено %d", n), nil)
	}
	return nil
}

// exactly ждет, пока число совпадений станет равно n.
func (e expect) exactly(ctx context.Context, what string, loc browser.Locator, n int) error {
	last := -1
	err := eventually(ctx, e.timeout, func() (bool, error) {
		c, err := loc.Count(ctx)
		if err != nil {
			return false, err
		}
		last = c
		return c == n, nil
	})
	if err != nil {
		return e.fail(fmt.Sprintf("ровно %d: %s", n, what), fmt.Sprintf("найдено %d", last), err)
	}
	return nil
}

func (e expect) anyVisible(ctx context.Context, what string, loc browser.Locator) error {
	if _, ok := firstVisible(ctx, loc); !ok {
		return e.fail(what+" виден хотя бы один", loc.String(), nil)
	}
	return nil
}

func (e expect) inViewport(ctx context.Context, what string, loc browser.Locator) error {
	err := eventually(ctx, e.timeout, func() (bool, error) {
		v, err := loc.Evaluate(ctx, inViewportScript)
		if err != nil {
			return false, err
		}
		in, _ := v.(bool)
		return in, nil
	})
	if err != nil {
		return e.fail(what+" в области просмотра", loc.String(), err)
	}
	return nil
}

// attribute ждет, пока атрибут совпадет с шаблоном.
func (e expect) attribute(ctx context.Context, what string, loc browser.Locator, name string, re *regexp.Regexp) error {
	var last string
	err := eventually(ctx, e.timeout, func() (bool, error) {
		v, err := loc.Attribute(ctx, name)
		if err != nil {
			return false, err
		}
		last = v
		return re.MatchString(v), nil
	})
	if err != nil {
		return e.fail(fmt.Sprintf("%s: %s ~ %s", what, name, re), fmt.Sprintf("%s=%q", name, last), err)
	}
	return nil
}

// firstVisible возвращает первое видимое совпадение локатора.
func firstVisible(ctx context.Context, loc browser.Locator) (browser.Locator, bool) {
	n, err := loc.Count(ctx)
	if err != nil {
		return nil, false
	}
	for i := 0; i < n; i++ {
		item := loc.Nth(i)
		if ok, err := item.IsVisible(ctx); err == nil && ok {
			return item, true
		}
	}
	return nil, false
}

// visible - мгновенная проверка без ошибок: отсутствие значит "не виден".
func visible(ctx context.Context, loc browser.Locator) bool {
	ok, err := loc.IsVisible(ctx)
	return err == nil && ok
}

// eventually повторяет проверку до успеха или таймаута. Последняя ошибка
// проверки возвращается вместе с таймаутом.
func eventually(ctx context.Context, timeout time.Duration, check func() (bool, error)) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		ok, err := check()
		if ok && err == nil {
			return nil
		}
		lastErr = err
		if !time.Now().Before(deadline) {
			if lastErr != nil {
				return fmt.Errorf("%w: %w", browser.ErrTimeout, lastErr)
			}
			return browser.ErrTimeout
		}
		wait := min(pollInterval, time.Until(deadline))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
