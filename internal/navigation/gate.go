package navigation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/overlay"
)

const (
	DefaultAttempts        = 3
	DefaultReadyTimeout    = 15 * time.Second
	DefaultRetryDelay      = 500 * time.Millisecond
	DefaultNavigateTimeout = 60 * time.Second
	forceClickTimeout      = 2 * time.Second
)

// Dismisser - то, что гейт вызывает после каждого действия.
type Dismisser interface {
	Dismiss(ctx context.Context, page browser.Page) []overlay.Result
	ForceHide(ctx context.Context, page browser.Page)
}

// Action - навигация или клик, после которого страница должна прийти
// в ожидаемое состояние.
type Action func(ctx context.Context, page browser.Page) error

type Option func(*Gate)

func WithAttempts(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.attempts = n
		}
	}
}

func WithReadyTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.readyTimeout = d
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(g *Gate) {
		if d >= 0 {
			g.retryDelay = d
		}
	}
}

func WithNavigateTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.navigateTimeout = d
		}
	}
}

type Gate struct {
	dismisser       Dismisser
	log             *zap.Logger
	attempts        int
	readyTimeout    time.Duration
	retryDelay      time.Duration
	navigateTimeout time.Duration
}

func New(dismisser Dismisser, log *zap.Logger, opts ...Option) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gate{
		dismisser:       dismisser,
		log:             log,
		attempts:        DefaultAttempts,
		readyTimeout:    DefaultReadyTimeout,
		retryDelay:      DefaultRetryDelay,
		navigateTimeout: DefaultNavigateTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) ReadyTimeout() time.Duration {
	return g.readyTimeout
}

// Do выполняет действие, убирает оверлеи и ждет условия готовности. При
// неудаче скрывает оверлеи принудительно и повторяет. Состояние страницы
// после провала - то, что оставила последняя попытка.
func (g *Gate) Do(ctx context.Context, page browser.Page, action Action, conds ...Condition) error {
	return g.retry(ctx, page, describe(conds), func(ctx context.Context) error {
		if action != nil {
			if err := action(ctx, page); err != nil {
				return err
			}
		}
		g.dismiss(ctx, page)
		return g.await(ctx, page, conds)
	})
}

// Goto открывает url и ждет условий готовности.
func (g *Gate) Goto(ctx context.Context, page browser.Page, url string, conds ...Condition) error {
	return g.Do(ctx, page, func(ctx context.Context, page browser.Page) error {
		return page.Goto(ctx, url, browser.WaitDOMContentLoaded, g.navigateTimeout)
	}, conds...)
}

// Click кликает по элементу, при перехвате клика кликает принудительно,
// и ждет условий готовности.
func (g *Gate) Click(ctx context.Context, page browser.Page, loc browser.Locator, conds ...Condition) error {
	return g.Do(ctx, page, func(ctx context.Context, _ browser.Page) error {
		return ClickWithFallback(ctx, loc)
	}, conds...)
}

// ClickWithFallback - обычный клик, а если он не прошел, принудительный.
func ClickWithFallback(ctx context.Context, loc browser.Locator) error {
	err := loc.Click(ctx, browser.ClickOptions{})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	if forceErr := loc.Click(ctx, browser.ClickOptions{Force: true, Timeout: forceClickTimeout}); forceErr != nil {
		return errors.Join(err, forceErr)
	}
	return nil
}

// Followed - страница, на которой оказалась цель ссылки.
type Followed struct {
	Page  browser.Page
	Popup bool
}

// Follow кликает по ссылке, которая может открыться как в новом окне,
// так и в текущем. Побеждает тот исход, что наступит раньше.
func (g *Gate) Follow(ctx context.Context, page browser.Page, link browser.Locator, target *regexp.Regexp) (Followed, error) {
	var followed Followed
	match := browser.MatchURL(target)
	what := "URL ~ " + target.String()

	err := g.retry(ctx, page, what, func(ctx context.Context) error {
		start := page.URL()
		slot := &popupSlot{}

		popup := Waiter{Name: "popup", Wait: func(ctx context.Context) error {
			clickFailed := make(chan error, 1)
			p, err := page.ExpectPopup(ctx, g.readyTimeout, func() error {
				if err := ClickWithFallback(ctx, link); err != nil {
					clickFailed <- err
					return err
				}
				return nil
			})
			if err != nil {
				select {
				case clickErr := <-clickFailed:
					return Abort(clickErr)
				default:
					return err
				}
			}
			if err := p.WaitForURL(ctx, match, g.readyTimeout); err != nil {
				_ = p.Close()
				return err
			}
			slot.put(p)
			return nil
		}}

		sameTab := Waiter{Name: "same-tab", Wait: func(ctx context.Context) error {
			return page.WaitForURL(ctx, func(u string) bool {
				return u != start && match(u)
			}, g.readyTimeout)
		}}

		outcome, err := FirstOf(ctx, g.readyTimeout, popup, sameTab)
		opened := slot.take()
		if err != nil {
			closePage(opened)
			return &conditionError{what: what, err: err}
		}

		followed = Followed{Page: page}
		if outcome.Name == popup.Name {
			followed = Followed{Page: opened, Popup: true}
			if err := followed.Page.WaitForLoadState(ctx, browser.WaitDOMContentLoaded, g.readyTimeout); err != nil {
				return err
			}
		} else {
			closePage(opened)
		}

		g.log.Debug("переход по ссылке",
			zap.String("link", link.String()),
			zap.String("outcome", outcome.Name),
			zap.String("url", followed.Page.URL()),
		)
		g.dismiss(ctx, followed.Page)
		return nil
	})
	return followed, err
}

// popupSlot передает окно из гонки в Follow. Окно, которое пришло после
// окончания гонки или проиграло ее, закрывается.
type popupSlot struct {
	mu    sync.Mutex
	page  browser.Page
	taken bool
}

func (s *popupSlot) put(p browser.Page) {
	s.mu.Lock()
	if !s.taken {
		s.page = p
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	closePage(p)
}

// take завершает гонку и отдает окно, если оно успело прийти.
func (s *popupSlot) take() browser.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taken = true
	p := s.page
	s.page = nil
	return p
}

func closePage(p browser.Page) {
	if p != nil {
		_ = p.Close()
	}
}

func (g *Gate) retry(ctx context.Context, page browser.Page, what string, attempt func(ctx context.Context) error) error {
	var lastErr error
	for n := 1; n <= g.attempts; n++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return g.notReady(what, n, lastErr)
		}

		g.log.Warn("страница не готова",
			zap.String("condition", what),
			zap.Int("attempt", n),
			zap.Int("attempts", g.attempts),
			zap.String("url", page.URL()),
			zap.Error(err),
		)

		if n < g.attempts {
			if g.dismisser != nil {
				g.dismisser.ForceHide(ctx, page)
			}
			if err := sleep(ctx, g.retryDelay); err != nil {
				return g.notReady(what, n, errors.Join(lastErr, err))
			}
		}
	}
	return g.notReady(what, g.attempts, lastErr)
}

func (g *Gate) notReady(what string, attempts int, err error) error {
	var ce *conditionError
	if errors.As(err, &ce) {
		what = ce.what
	}
	return &NotReadyError{Condition: what, Attempts: attempts, Err: err}
}

func (g *Gate) dismiss(ctx context.Context, page browser.Page) {
	if g.dismisser != nil {
		g.dismisser.Dismiss(ctx, page)
	}
}

func (g *Gate) await(ctx context.Context, page browser.Page, conds []Condition) error {
	for _, c := range conds {
		if err := c.Wait(ctx, page, g.readyTimeout); err != nil {
			return &conditionError{what: c.String(), err: err}
		}
	}
	return nil
}

func describe(conds []Condition) string {
	if len(conds) == 0 {
		return "действие выполнено"
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " и ")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("ожидание перед повтором: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
