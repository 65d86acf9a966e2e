package suite_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"siteE2E/internal/browser"
	"siteE2E/internal/browser/browsertest"
	"siteE2E/internal/navigation"
	"siteE2E/internal/pages"
	"siteE2E/internal/suite"
	"siteE2E/internal/visual"
)

// opener выдает фейковые страницы и запоминает их.
type opener struct {
	mu    sync.Mutex
	pages []*browsertest.Page
	opts  []browser.PageOptions
	setup func(p *browsertest.Page)
	err   error
}

func (o *opener) NewPage(ctx context.Context, opts browser.PageOptions) (browser.Page, error) {
	if o.err != nil {
		return nil, o.err
	}
	p := browsertest.New("about:blank")
	if opts.Viewport.Width > 0 {
		if err := p.SetViewportSize(ctx, opts.Viewport.Width, opts.Viewport.Height); err != nil {
			return nil, err
		}
	}
	if o.setup != nil {
		o.setup(p)
	}
	o.mu.Lock()
	o.pages = append(o.pages, p)
	o.opts = append(o.opts, opts)
	o.mu.Unlock()
	return p, nil
}

func (o *opener) all() []*browsertest.Page {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*browsertest.Page(nil), o.pages...)
}

type recorder struct {
	mu       sync.Mutex
	started  []uuid.UUID
	results  []suite.Result
	finished []suite.Summary
}

func (r *recorder) StartRun(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, id)
	return nil
}

func (r *recorder) RecordResult(_ context.Context, _ uuid.UUID, res suite.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func (r *recorder) FinishRun(_ context.Context, s suite.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, s)
	return nil
}

func fastOptions() suite.Options {
	return suite.Options{
		Workers: 2,
		BaseURL: "https://www.ifs.com",
		Timeouts: pages.Timeouts{
			Expect:  100 * time.Millisecond,
			Element: 100 * time.Millisecond,
			Results: 200 * time.Millisecond,
			Settle:  time.Millisecond,
		},
		Gate: []navigation.Option{
			navigation.WithReadyTimeout(200 * time.Millisecond),
			navigation.WithRetryDelay(5 * time.Millisecond),
		},
	}
}

func scenario(name string, run func(ctx context.Context, env *suite.Env) error) suite.Scenario {
	return suite.Scenario{Name: name, Group: suite.GroupHomepage, Run: run}
}

func TestRunner_Statuses(t *testing.T) {
	o := &opener{}
	rec := &recorder{}
	r := suite.NewRunner(o, zaptest.NewLogger(t), fastOptions(), suite.WithRecorder(rec))

	boom := errors.New("boom")
	sum, err := r.Run(context.Background(), []suite.Scenario{
		scenario("pass", func(context.Context, *suite.Env) error { return nil }),
		scenario("fail", func(context.Context, *suite.Env) error { return boom }),
		scenario("skip", func(context.Context, *suite.Env) error {
			return fmt.Errorf("нет карусели: %w", suite.ErrSkipped)
		}),
		scenario("panic", func(context.Context, *suite.Env) error { panic("oops") }),
		{Name: "visual", Group: suite.GroupVisual, Visual: true, Run: func(context.Context, *suite.Env) error { return nil }},
	})
	require.NoError(t, err)

	require.Len(t, sum.Results, 5)
	statuses := make([]suite.Status, len(sum.Results))
	for i, res := range sum.Results {
		statuses[i] = res.Status
	}
	assert.Equal(t, []suite.Status{
		suite.StatusPassed, suite.StatusFailed, suite.StatusSkipped, suite.StatusFailed, suite.StatusSkipped,
	}, statuses)
	assert.ErrorIs(t, sum.Results[1].Err, boom)
	assert.Contains(t, sum.Results[3].ErrorText(), "oops")
	assert.ErrorIs(t, sum.Results[4].Err, suite.ErrSkipped)

	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 2, sum.Failed)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, suite.StatusFailed, sum.Status())
	assert.NotEqual(t, uuid.Nil, sum.RunID)

	// визуальный сценарий страницу не открывает
	opened := o.all()
	require.Len(t, opened, 4)
	for _, p := range opened {
		assert.True(t, p.Closed())
	}

	assert.Equal(t, []uuid.UUID{sum.RunID}, rec.started)
	assert.Len(t, rec.results, 5)
	require.Len(t, rec.finished, 1)
	assert.Equal(t, 2, rec.finished[0].Failed)
}

func TestRunner_WorkerLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	var cur, peak atomic.Int32
	var scenarios []suite.Scenario
	for i := 0; i < 6; i++ {
		scenarios = append(scenarios, scenario(fmt.Sprintf("s%d", i), func(ctx context.Context, _ *suite.Env) error {
			n := cur.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			cur.Add(-1)
			return nil
		}))
	}

	opts := fastOptions()
	opts.Workers = 2
	sum, err := suite.NewRunner(&opener{}, zaptest.NewLogger(t), opts).Run(context.Background(), scenarios)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Passed)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, peak.Load())
}

func TestRunner_ResultsKeepOrder(t *testing.T) {
	var scenarios []suite.Scenario
	for i := 0; i < 5; i++ {
		delay := time.Duration(5-i) * 5 * time.Millisecond
		scenarios = append(scenarios, scenario(fmt.Sprintf("s%d", i), func(context.Context, *suite.Env) error {
			time.Sleep(delay)
			return nil
		}))
	}
	opts := fastOptions()
	opts.Workers = 5
	sum, err := suite.NewRunner(&opener{}, zaptest.NewLogger(t), opts).Run(context.Background(), scenarios)
	require.NoError(t, err)
	for i, res := range sum.Results {
		assert.Equal(t, fmt.Sprintf("s%d", i), res.Scenario)
	}
}

func TestRunner_ScenarioTimeout(t *testing.T) {
	sc := scenario("slow", func(ctx context.Context, _ *suite.Env) error {
		<-ctx.Done()
		return ctx.Err()
	})
	sc.Timeout = 20 * time.Millisecond

	sum, err := suite.NewRunner(&opener{}, zaptest.NewLogger(t), fastOptions()).Run(context.Background(), []suite.Scenario{sc})
	require.NoError(t, err)
	require.Len(t, sum.Results, 1)
	assert.Equal(t, suite.StatusFailed, sum.Results[0].Status)
	assert.ErrorIs(t, sum.Results[0].Err, context.DeadlineExceeded)
}

func TestRunner_CancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &opener{}
	sum, err := suite.NewRunner(o, zaptest.NewLogger(t), fastOptions()).Run(ctx, []suite.Scenario{
		scenario("a", func(context.Context, *suite.Env) error { return nil }),
		scenario("b", func(context.Context, *suite.Env) error { return nil }),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, sum.Skipped)
	assert.Empty(t, o.all())
}

func TestRunner_OpenPageFails(t *testing.T) {
	o := &opener{err: errors.New("браузер не запущен")}
	sum, err := suite.NewRunner(o, zaptest.NewLogger(t), fastOptions()).Run(context.Background(), []suite.Scenario{
		scenario("a", func(context.Context, *suite.Env) error { return nil }),
	})
	require.NoError(t, err)
	assert.Equal(t, suite.StatusFailed, sum.Results[0].Status)
	assert.Contains(t, sum.Results[0].ErrorText(), "открытие страницы")
}

func TestRunner_PageSetup(t *testing.T) {
	o := &opener{}
	var sawURL string
	sum, err := suite.NewRunner(o, zaptest.NewLogger(t), fastOptions()).Run(context.Background(), []suite.Scenario{{
		Name:         "mobile",
		Group:        suite.GroupResponsive,
		Viewport:     browser.ViewportIPhone,
		FreshCookies: true,
		Run: func(ctx context.Context, env *suite.Env) error {
			sawURL = env.Session.URL("/contact-us")
			env.Measure("answer", 42)
			return nil
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, suite.StatusPassed, sum.Results[0].Status)
	assert.Equal(t, map[string]float64{"answer": 42}, sum.Results[0].Metrics)
	assert.Equal(t, "https://www.ifs.com/contact-us", sawURL)

	require.Len(t, o.opts, 1)
	assert.Equal(t, browser.ViewportIPhone, o.opts[0].Viewport)
	assert.Equal(t, 1, o.all()[0].CookiesCleared())
}

func TestRunner_FailureScreenshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := visual.New(fs, "shots", zaptest.NewLogger(t))
	r := suite.NewRunner(&opener{}, zaptest.NewLogger(t), fastOptions(), suite.WithStore(store))

	sum, err := r.Run(context.Background(), []suite.Scenario{
		scenario("Hero: broken", func(context.Context, *suite.Env) error { return errors.New("нет заголовка") }),
		scenario("ok", func(context.Context, *suite.Env) error { return nil }),
	})
	require.NoError(t, err)

	assert.Equal(t, "shots/failure-hero-broken.png", sum.Results[0].Screenshot)
	exists, _ := afero.Exists(fs, sum.Results[0].Screenshot)
	assert.True(t, exists)
	assert.Empty(t, sum.Results[1].Screenshot)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "homepage-main-navigation", suite.SafeName("homepage/main navigation"))
	assert.Equal(t, "data-driven-industry-aerospace-defense", suite.SafeName("data-driven/industry Aerospace & Defense"))
}
