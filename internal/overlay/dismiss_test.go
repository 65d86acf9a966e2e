package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"siteE2E/internal/browser"
	"siteE2E/internal/browser/browsertest"
)

var (
	acceptKey = browsertest.RoleKey("button", "Accept All Cookies")
	rejectKey = browsertest.RoleKey("button", "Reject All")
	chatKey   = `button[aria-label="Dismiss chatbot poke message"]`
	errClick  = errors.New("element intercepts pointer events")
)

// fast укорачивает таймауты, чтобы тесты не ждали секундами.
func fast(d Descriptor) Descriptor {
	d.DetectTimeout = 200 * time.Millisecond
	d.ClickTimeout = 50 * time.Millisecond
	d.FallbackTimeout = 50 * time.Millisecond
	d.SettleTimeout = 100 * time.Millisecond
	return d
}

func fastDefaults() []Descriptor {
	return []Descriptor{fast(CookieConsent()), fast(Chatbot()), fast(GenericDialog())}
}

// hideOnEvaluate скрывает элементы по селекторам из скрипта и заодно
// перечисленные элементы управления, которые живут внутри корней.
func hideOnEvaluate(controls ...string) func(*browsertest.Page, string, any) (any, error) {
	return func(p *browsertest.Page, _ string, arg any) (any, error) {
		if sels, ok := arg.([]string); ok {
			for _, s := range append(sels, controls...) {
				p.Hide(s)
			}
		}
		return nil, nil
	}
}

// closes возвращает OnClick, который скрывает указанные элементы.
func closes(keys ...string) func(*browsertest.Page) {
	return func(p *browsertest.Page) {
		for _, k := range keys {
			p.Hide(k)
		}
	}
}

func cookiePage() (*browsertest.Page, *browsertest.Element) {
	page := browsertest.New("https://www.ifs.com/")
	accept := browsertest.NewElement().WithText("Accept All Cookies")
	accept.OnClick = closes(acceptKey, "#onetrust-consent-sdk", ".onetrust-pc-dark-filter")
	page.Add(acceptKey, accept)
	page.Add("#onetrust-consent-sdk", browsertest.NewElement())
	page.Add(".onetrust-pc-dark-filter", browsertest.NewElement())
	return page, accept
}

func TestDismiss_CookieBannerThenClickBeneath(t *testing.T) {
	ctx := context.Background()
	page, accept := cookiePage()

	cta := browsertest.NewElement().WithText("Book a demo")
	cta.ClickErr = errClick
	page.Add("#cta", cta)
	accept.OnClick = func(p *browsertest.Page) {
		closes(acceptKey, "#onetrust-consent-sdk", ".onetrust-pc-dark-filter")(p)
		p.Update(func() { cta.ClickErr = nil })
	}

	d := New(zaptest.NewLogger(t), fastDefaults()...)
	results := d.Dismiss(ctx, page)

	require.Len(t, results, 3)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Equal(t, "Accept All Cookies", results[0].Control)
	assert.Equal(t, NotPresent, results[1].Outcome)
	assert.Equal(t, NotPresent, results[2].Outcome)
	assert.Equal(t, 1, accept.Clicks)

	require.NoError(t, page.Locator("#onetrust-consent-sdk").WaitFor(ctx, browser.StateHidden, 10*time.Second))
	require.NoError(t, page.Locator("#cta").Click(ctx, browser.ClickOptions{}))
}

func TestDismiss_AbsentOverlaysAreFastNoop(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.Add("main h1", browsertest.NewElement().WithText("Home"))

	d := New(zaptest.NewLogger(t))
	start := time.Now()
	results := d.Dismiss(context.Background(), page)

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, Any(results))
	assert.Zero(t, page.Clicks())
	assert.Empty(t, page.Evaluations())
}

func TestDismiss_FallsBackToSecondaryControl(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	reject := browsertest.NewElement().WithText("Reject All")
	reject.OnClick = closes(rejectKey, "#onetrust-consent-sdk")
	page.Add(rejectKey, reject)
	page.Add("#onetrust-consent-sdk", browsertest.NewElement())

	d := New(zaptest.NewLogger(t), fast(CookieConsent()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Equal(t, "Reject All", results[0].Control)
	assert.Equal(t, 1, reject.Clicks)
}

func TestDismiss_ForcedClickFallback(t *testing.T) {
	page, accept := cookiePage()
	accept.ClickErr = errClick

	d := New(zaptest.NewLogger(t), fast(CookieConsent()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Zero(t, accept.Clicks)
	assert.Equal(t, 1, accept.ForceClicks)
}

func TestDismiss_BothClicksFailAreNotFatal(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	poke := browsertest.NewElement()
	poke.ClickErr = errClick
	poke.ForceClickErr = errClick
	page.Add(chatKey, poke)

	d := New(zaptest.NewLogger(t), fast(Chatbot()), fast(GenericDialog()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 2)
	assert.Equal(t, Failed, results[0].Outcome)
	assert.ErrorIs(t, results[0].Err, errClick)
	assert.Equal(t, NotPresent, results[1].Outcome)
}

func TestDismiss_ManyMatchesPicksFirstVisible(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	hidden := browsertest.NewElement().Hidden()
	visible := browsertest.NewElement()
	visible.OnClick = closes(chatKey)
	page.Add(chatKey, hidden, visible, browsertest.NewElement().Hidden())

	d := New(zaptest.NewLogger(t), fast(Chatbot()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Zero(t, hidden.Clicks)
	assert.Equal(t, 1, visible.Clicks)
}

func TestDismiss_VisibleButDisabledIsNotPresent(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	poke := browsertest.NewElement().Disabled()
	page.Add(chatKey, poke)

	d := New(zaptest.NewLogger(t), fast(Chatbot()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, NotPresent, results[0].Outcome)
	assert.Zero(t, poke.Clicks+poke.ForceClicks)
}

func TestDismiss_ForceHidesStuckRoots(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.Add(".onetrust-pc-dark-filter", browsertest.NewElement())
	page.OnEvaluate = hideOnEvaluate()

	d := New(zaptest.NewLogger(t), fast(CookieConsent()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Equal(t, "force-hide", results[0].Control)
	assert.Len(t, page.Evaluations(), 1)
}

func TestDismiss_SweepsGenericCloseButtons(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/search")
	first := browsertest.NewElement().WithText("Close")
	second := browsertest.NewElement().WithText(" close ")
	other := browsertest.NewElement().WithText("Search")
	page.Add(dialogButtons, first, other, second)
	page.Update(func() {
		first.OnClick = func(p *browsertest.Page) { p.Update(func() { first.Visible = false }) }
		second.OnClick = func(p *browsertest.Page) { p.Update(func() { second.Visible = false }) }
	})

	d := New(zaptest.NewLogger(t), fast(GenericDialog()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Dismissed, results[0].Outcome)
	assert.Equal(t, 2, results[0].Clicks)
	assert.Zero(t, other.Clicks)
}

func TestDismiss_SweepStopsOnStuckCloseButton(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	stuck := browsertest.NewElement().WithText("Close")
	page.Add(dialogButtons, stuck)

	d := New(zaptest.NewLogger(t), fast(GenericDialog()))
	start := time.Now()
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, Failed, results[0].Outcome)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 1, results[0].Clicks)
	assert.Equal(t, 1, page.Clicks())
	assert.Less(t, time.Since(start), time.Second)
}

func TestDismiss_CloseOutsideDialogIgnored(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.Add("button", browsertest.NewElement().WithText("Close"))

	d := New(zaptest.NewLogger(t), fast(GenericDialog()))
	results := d.Dismiss(context.Background(), page)

	require.Len(t, results, 1)
	assert.Equal(t, NotPresent, results[0].Outcome)
	assert.Zero(t, page.Clicks())
}

type panicPage struct {
	*browsertest.Page
}

func (panicPage) Locator(string) browser.Locator { panic("driver crashed") }

func TestDismiss_RecoversFromPanics(t *testing.T) {
	page := panicPage{browsertest.New("https://www.ifs.com/")}

	d := New(zaptest.NewLogger(t), fast(Chatbot()))
	var results []Result
	require.NotPanics(t, func() { results = d.Dismiss(context.Background(), page) })
	require.Len(t, results, 1)
	assert.Equal(t, Failed, results[0].Outcome)
	assert.Error(t, results[0].Err)
}

type stubDetector struct {
	desc *Descriptor
	err  error
}

func (s stubDetector) Detect(context.Context, browser.Page) (*Descriptor, error) {
	return s.desc, s.err
}

func TestDismiss_Detector(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	closeBtn := browsertest.NewElement()
	closeBtn.OnClick = closes(".newsletter button.x", ".newsletter")
	page.Add(".newsletter button.x", closeBtn)
	page.Add(".newsletter", browsertest.NewElement())

	desc := fast(Descriptor{
		Name:     "newsletter",
		Controls: []Control{{Selector: ".newsletter button.x"}},
		Roots:    []string{".newsletter"},
	})

	d := New(zaptest.NewLogger(t), fast(Chatbot())).WithDetector(stubDetector{desc: &desc})
	results := d.Dismiss(context.Background(), page)
	require.Len(t, results, 2)
	assert.Equal(t, "newsletter", results[1].Overlay)
	assert.Equal(t, Dismissed, results[1].Outcome)

	d = New(zaptest.NewLogger(t), fast(Chatbot())).WithDetector(stubDetector{err: errors.New("llm down")})
	assert.Len(t, d.Dismiss(context.Background(), page), 1)
}

// blockingDetector отвечает только после отмены контекста.
type blockingDetector struct{}

func (blockingDetector) Detect(ctx context.Context, _ browser.Page) (*Descriptor, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDismiss_DetectorIsBounded(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	d := New(zaptest.NewLogger(t), fast(Chatbot())).
		WithDetector(blockingDetector{}).
		WithDetectorTimeout(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	results := d.Dismiss(ctx, page)

	assert.Len(t, results, 1)
	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, ctx.Err())
}

func TestForceHide(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	var got any
	page.OnEvaluate = func(_ *browsertest.Page, _ string, arg any) (any, error) {
		got = arg
		return nil, nil
	}

	New(zaptest.NewLogger(t)).ForceHide(context.Background(), page)
	assert.Equal(t, []string{"#onetrust-consent-sdk", ".onetrust-pc-dark-filter"}, got)

	page2 := browsertest.New("https://www.ifs.com/")
	New(zaptest.NewLogger(t), fast(Chatbot())).ForceHide(context.Background(), page2)
	assert.Empty(t, page2.Evaluations())
}

func TestDecide(t *testing.T) {
	tests := []struct {
		probe Probe
		want  Outcome
	}{
		{Probe{}, NotPresent},
		{Probe{Visible: true}, NotPresent},
		{Probe{Visible: true, Enabled: true}, Failed},
		{Probe{Visible: true, Enabled: true, Clicked: true}, Dismissed},
		{Probe{Visible: true, Enabled: true, Forced: true}, Dismissed},
		{Probe{Visible: true, Enabled: true, Hidden: true}, Dismissed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decide(tt.probe), "%+v", tt.probe)
	}
	assert.Equal(t, "dismissed", Dismissed.String())
}

// Повторный вызов ничего не находит и ничего не делает, при любой
// комбинации присутствующих оверлеев.
func TestDismiss_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		page := browsertest.New("https://www.ifs.com/")
		page.OnEvaluate = hideOnEvaluate(acceptKey, rejectKey)

		if rapid.Bool().Draw(t, "cookie") {
			page.Add("#onetrust-consent-sdk", browsertest.NewElement())
			mode := rapid.IntRange(0, 3).Draw(t, "acceptMode")
			if mode < 3 {
				accept := browsertest.NewElement()
				accept.OnClick = closes(acceptKey, rejectKey, "#onetrust-consent-sdk")
				if mode >= 1 {
					accept.ClickErr = errClick
				}
				if mode == 2 {
					accept.ForceClickErr = errClick
				}
				page.Add(acceptKey, accept)
			}
			if rapid.Bool().Draw(t, "reject") {
				reject := browsertest.NewElement()
				reject.OnClick = closes(acceptKey, rejectKey, "#onetrust-consent-sdk")
				page.Add(rejectKey, reject)
			}
		}

		if rapid.Bool().Draw(t, "chatbot") {
			poke := browsertest.NewElement()
			poke.OnClick = closes(chatKey)
			if rapid.Bool().Draw(t, "chatbotForced") {
				poke.ClickErr = errClick
			}
			page.Add(chatKey, poke)
		}

		dialogs := rapid.IntRange(0, 3).Draw(t, "dialogs")
		for i := 0; i < dialogs; i++ {
			btn := browsertest.NewElement().WithText("Close")
			btn.OnClick = func(p *browsertest.Page) { p.Update(func() { btn.Visible = false }) }
			page.Add(dialogButtons, btn)
		}

		d := New(nil, fastDefaults()...)
		d.Dismiss(context.Background(), page)

		clicks, evals := page.Clicks(), len(page.Evaluations())
		second := d.Dismiss(context.Background(), page)

		if Any(second) {
			t.Fatalf("повторный вызов что-то нашел: %+v", second)
		}
		if page.Clicks() != clicks || len(page.Evaluations()) != evals {
			t.Fatalf("повторный вызов выполнил действия")
		}
	})
}
