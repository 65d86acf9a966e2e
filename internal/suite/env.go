package suite

import (
	"context"
	"maps"
	"sync"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/pages"
	"siteE2E/internal/visual"
)

// Env - окружение одного сценария: своя страница и сессия поверх нее.
type Env struct {
	Page    browser.Page
	Session *pages.Session
	Log     *zap.Logger
	// Visual - хранилище скриншотов; nil, если визуальные проверки выключены.
	Visual  *visual.Store
	Options Options

	mu      sync.Mutex
	metrics map[string]float64
}

func (e *Env) Home() *pages.Home {
	return pages.NewHome(e.Session)
}

func (e *Env) Solutions() *pages.Solutions {
	return pages.NewSolutions(e.Session)
}

func (e *Env) Industries() *pages.Industries {
	return pages.NewIndustries(e.Session)
}

func (e *Env) Search() *pages.Search {
	return pages.NewSearch(e.Session)
}

func (e *Env) Contact() *pages.Contact {
	return pages.NewContact(e.Session)
}

func (e *Env) Language() *pages.LanguageSwitcher {
	return pages.NewLanguageSwitcher(e.Session)
}

// Engine - имя движка для имен скриншотов.
func (e *Env) Engine() string {
	if e.Options.Engine == "" {
		return "chromium"
	}
	return e.Options.Engine
}

// Open открывает путь без гейта: оверлеи остаются на месте.
func (e *Env) Open(ctx context.Context, path string) error {
	return e.Page.Goto(ctx, e.Session.URL(path), browser.WaitDOMContentLoaded, e.Options.NavigateTimeout)
}

// Measure запоминает измерение и пишет его в лог.
func (e *Env) Measure(name string, value float64) {
	e.mu.Lock()
	if e.metrics == nil {
		e.metrics = make(map[string]float64)
	}
	e.metrics[name] = value
	e.mu.Unlock()
	e.Log.Info("измерение", zap.String("metric", name), zap.Float64("value", value))
}

func (e *Env) Metrics() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.metrics) == 0 {
		return nil
	}
	return maps.Clone(e.metrics)
}
