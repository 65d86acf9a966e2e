package suite

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
	"siteE2E/internal/overlay"
	"siteE2E/internal/pages"
	"siteE2E/internal/visual"
)

const (
	DefaultWorkers         = 2
	DefaultScenarioTimeout = 90 * time.Second
	failureShotTimeout     = 10 * time.Second
)

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// PageOpener открывает изолированную страницу. Реализуется
// *browser.PlaywrightBrowser.
type PageOpener interface {
	NewPage(ctx context.Context, opts browser.PageOptions) (browser.Page, error)
}

type Options struct {
	Workers         int
	Visual          bool
	UpdateBaseline  bool
	BaseURL         string
	Engine          string
	ScenarioTimeout time.Duration
	NavigateTimeout time.Duration
	// Timeouts фасадов; нулевое значение - pages.DefaultTimeouts.
	Timeouts pages.Timeouts
	Gate     []navigation.Option
}

type RunnerOption func(*Runner)

func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

func WithDismisser(d *overlay.Dismisser) RunnerOption {
	return func(r *Runner) {
		if d != nil {
			r.dismisser = d
		}
	}
}

// WithStore включает скриншоты: визуальные сценарии и снимки при провале.
func WithStore(s *visual.Store) RunnerOption {
	return func(r *Runner) {
		r.store = s
	}
}

type Runner struct {
	opener    PageOpener
	dismisser *overlay.Dismisser
	store     *visual.Store
	recorder  Recorder
	log       *zap.Logger
	opts      Options
}

func NewRunner(opener PageOpener, log *zap.Logger, opts Options, ropts ...RunnerOption) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.ScenarioTimeout <= 0 {
		opts.ScenarioTimeout = DefaultScenarioTimeout
	}
	if opts.Timeouts == (pages.Timeouts{}) {
		opts.Timeouts = pages.DefaultTimeouts
	}
	r := &Runner{
		opener:   opener,
		recorder: NopRecorder{},
		log:      log,
		opts:     opts,
	}
	for _, o := range ropts {
		o(r)
	}
	if r.dismisser == nil {
		r.dismisser = overlay.New(log)
	}
	return r
}

func (r *Runner) Options() Options {
	return r.opts
}

// Run выполняет сценарии на opts.Workers страницах одновременно. Провал
// сценария - это результат, а не ошибка; ошибка возвращается только при
// отмене ctx. Результаты в Summary идут в порядке scenarios.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (Summary, error) {
	sum := Summary{RunID: uuid.New(), StartedAt: time.Now()}
	log := r.log.With(zap.String("run", sum.RunID.String()))
	journal := context.WithoutCancel(ctx)

	if err := r.recorder.StartRun(journal, sum.RunID, sum.StartedAt); err != nil {
		log.Warn("журнал: не удалось записать начало прогона", zap.Error(err))
	}
	log.Info("прогон начат", zap.Int("scenarios", len(scenarios)), zap.Int("workers", r.opts.Workers))

	results := make([]Result, len(scenarios))
	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.runOne(ctx, sc, log)
			if err := r.recorder.RecordResult(journal, sum.RunID, results[i]); err != nil {
				log.Warn("журнал: не удалось записать результат", zap.String("scenario", sc.Name), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		sum.add(res)
	}
	sum.FinishedAt = time.Now()

	if err := r.recorder.FinishRun(journal, sum); err != nil {
		log.Warn("журнал: не удалось записать итог прогона", zap.Error(err))
	}
	log.Info("прогон завершен",
		zap.String("status", string(sum.Status())),
		zap.Int("passed", sum.Passed),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Duration("duration", sum.Duration()))

	return sum, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, sc Scenario, log *zap.Logger) (res Result) {
	res = Result{Scenario: sc.Name, Group: sc.Group, StartedAt: time.Now()}
	log = log.With(zap.String("scenario", sc.Name), zap.String("group", string(sc.Group)))
	defer func() {
		res.Duration = time.Since(res.StartedAt)
		logResult(log, res)
	}()

	if err := ctx.Err(); err != nil {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("прогон прерван: %w", err)
		return res
	}
	if sc.Visual && (!r.opts.Visual || r.store == nil) {
		res.Status, res.Err = StatusSkipped, skip("визуальные проверки выключены")
		return res
	}

	timeout := sc.Timeout
	if timeout <= 0 {
		timeout = r.opts.ScenarioTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := r.opener.NewPage(sctx, browser.PageOptions{Viewport: sc.Viewport})
	if err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("открытие страницы: %w", err)
		return res
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("закрытие страницы", zap.Error(err))
		}
	}()

	if sc.FreshCookies {
		if err := page.ClearCookies(sctx); err != nil {
			res.Status, res.Err = StatusFailed, fmt.Errorf("очистка cookies: %w", err)
			return res
		}
	}

	env := r.newEnv(page, log)
	err = safeRun(sctx, sc, env)
	res.Metrics = env.Metrics()

	switch {
	case err == nil:
		res.Status = StatusPassed
	case errors.Is(err, ErrSkipped):
		res.Status, res.Err = StatusSkipped, err
	default:
		res.Status, res.Err = StatusFailed, err
		res.Screenshot = r.failureShot(ctx, page, sc, log)
	}
	return res
}

func (r *Runner) newEnv(page browser.Page, log *zap.Logger) *Env {
	gateOpts := append([]navigation.Option{navigation.WithNavigateTimeout(r.opts.NavigateTimeout)}, r.opts.Gate...)
	gate := navigation.New(r.dismisser, log, gateOpts...)
	session := pages.NewSession(page, r.dismisser, gate, log,
		pages.WithBaseURL(r.opts.BaseURL),
		pages.WithTimeouts(r.opts.Timeouts))
	return &Env{
		Page:    page,
		Session: session,
		Log:     log,
		Visual:  r.store,
		Options: r.opts,
	}
}

// failureShot снимает страницу после провала. Контекст сценария к этому
// моменту может быть отменен, поэтому у снимка свой таймаут.
func (r *Runner) failureShot(ctx context.Context, page browser.Page, sc Scenario, log *zap.Logger) string {
	if r.store == nil {
		return ""
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureShotTimeout)
	defer cancel()
	path, err := r.store.CaptureFullPage(sctx, page, "failure-"+SafeName(sc.Name))
	if err != nil {
		log.Warn("скриншот провала не сохранен", zap.Error(err))
		return ""
	}
	return path
}

func safeRun(ctx context.Context, sc Scenario, env *Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("паника в сценарии %q: %v", sc.Name, p)
		}
	}()
	return sc.Run(ctx, env)
}

func logResult(log *zap.Logger, res Result) {
	fields := []zap.Field{zap.String("status", string(res.Status)), zap.Duration("duration", res.Duration)}
	switch res.Status {
	case StatusFailed:
		fields = append(fields, zap.Error(res.Err))
		if res.Screenshot != "" {
			fields = append(fields, zap.String("screenshot", res.Screenshot))
		}
		log.Error("сценарий провален", fields...)
	case StatusSkipped:
		log.Info("сценарий пропущен", append(fields, zap.String("reason", res.ErrorText()))...)
	default:
		log.Info("сценарий пройден", fields...)
	}
}

// SafeName превращает имя сценария в имя файла.
func SafeName(name string) string {
	return strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
