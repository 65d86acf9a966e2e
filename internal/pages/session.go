// Package pages содержит фасады страниц сайта. Фасады не наследуют друг
// друга: все они держат один *Session, который отвечает за оверлеи и
// готовность страницы, и встраивают общий Layout.
package pages

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
	"siteE2E/internal/overlay"
)

const DefaultBaseURL = "https://www.ifs.com"

// Guard - общая способность фасадов: убрать оверлеи и дождаться готовности.
type Guard interface {
	Page() browser.Page
	DismissOverlays(ctx context.Context)
	WaitReady(ctx context.Context, conds ...navigation.Condition) error
	Goto(ctx context.Context, path string, conds ...navigation.Condition) error
	Click(ctx context.Context, loc browser.Locator, conds ...navigation.Condition) error
	Follow(ctx context.Context, link browser.Locator, target *regexp.Regexp) (navigation.Followed, error)
}

// Timeouts - ожидания проверок. Значения по умолчанию повторяют
// таймауты, под которые написаны проверки сайта.
type Timeouts struct {
	// Expect - ожидание видимости в validate-методах.
	Expect time.Duration
	// Element - ожидание элемента перед действием.
	Element time.Duration
	// Results - ожидание результатов поиска.
	Results time.Duration
	// Settle - пауза после анимаций (карусель, аккордеон).
	Settle time.Duration
}

var DefaultTimeouts = Timeouts{
	Expect:  5 * time.Second,
	Element: 10 * time.Second,
	Results: 30 * time.Second,
	Settle:  500 * time.Millisecond,
}

type SessionOption func(*Session)

func WithBaseURL(u string) SessionOption {
	return func(s *Session) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeouts(t Timeouts) SessionOption {
	return func(s *Session) {
		s.timeouts = t
	}
}

// Session - единственная реализация Guard поверх гейта и диспетчера оверлеев.
type Session struct {
	page      browser.Page
	dismisser *overlay.Dismisser
	gate      *navigation.Gate
	log       *zap.Logger
	baseURL   string
	timeouts  Timeouts
}

var _ Guard = (*Session)(nil)

func NewSession(page browser.Page, dismisser *overlay.Dismisser, gate *navigation.Gate, log *zap.Logger, opts ...SessionOption) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if dismisser == nil {
		dismisser = overlay.New(log)
	}
	if gate == nil {
		gate = navigation.New(dismisser, log)
	}
	s := &Session{
		page:      page,
		dismisser: dismisser,
		gate:      gate,
		log:       log,
		baseURL:   DefaultBaseURL,
		timeouts:  DefaultTimeouts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Page() browser.Page {
	return s.page
}

func (s *Session) Timeouts() Timeouts {
	return s.timeouts
}

func (s *Session) Log() *zap.Logger {
	return s.log
}

// URL - абсолютный адрес пути на сайте.
func (s *Session) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}

func (s *Session) DismissOverlays(ctx context.Context) {
	s.dismisser.Dismiss(ctx, s.page)
}

// ForceHide прячет корни оверлеев скриптом, не пытаясь их закрыть.
func (s *Session) ForceHide(ctx context.Context) {
	s.dismisser.ForceHide(ctx, s.page)
}

func (s *Session) WaitReady(ctx context.Context, conds ...navigation.Condition) error {
	return s.gate.Do(ctx, s.page, nil, conds...)
}

func (s *Session) Goto(ctx context.Context, path string, conds ...navigation.Condition) error {
	return s.gate.Goto(ctx, s.page, s.URL(path), conds...)
}

// Click убирает оверлеи, кликает и ждет условий готовности.
func (s *Session) Click(ctx context.Context, loc browser.Locator, conds ...navigation.Condition) error {
	s.DismissOverlays(ctx)
	return s.gate.Click(ctx, s.page, loc, conds...)
}

func (s *Session) Follow(ctx context.Context, link browser.Locator, target *regexp.Regexp) (navigation.Followed, error) {
	s.DismissOverlays(ctx)
	return s.gate.Follow(ctx, s.page, link, target)
}

// settle - пауза для анимаций, прерываемая контекстом.
func (s *Session) settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
