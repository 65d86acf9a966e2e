package audit_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"siteE2E/internal/audit"
	"siteE2E/internal/browser/browsertest"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestHeadingLevels(t *testing.T) {
	d := doc(t, `<h2>b</h2><h1>a</h1><h2>c</h2><h4>d</h4><h3>e</h3>`)
	assert.Equal(t, []int{1, 2, 3, 4}, audit.HeadingLevels(d))
}

func TestCheckHeadingHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		ok     bool
	}{
		{"пусто", nil, true},
		{"один", []int{1}, true},
		{"подряд", []int{1, 2, 3}, true},
		{"пропуск h2", []int{1, 3}, false},
		{"начало с h2", []int{2, 3, 4}, true},
		{"пропуск в конце", []int{1, 2, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := audit.CheckHeadingHierarchy(tt.levels)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCheckHeadingHierarchy_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.IntRange(1, 6).Draw(t, "start")
		end := rapid.IntRange(start, 6).Draw(t, "end")
		var levels []int
		for l := start; l <= end; l++ {
			levels = append(levels, l)
		}
		if err := audit.CheckHeadingHierarchy(levels); err != nil {
			t.Fatalf("непрерывные уровни %v отклонены: %v", levels, err)
		}
		if end-start >= 2 {
			gap := rapid.IntRange(start+1, end-1).Draw(t, "gap")
			cut := append([]int(nil), levels[:gap-start]...)
			cut = append(cut, levels[gap-start+1:]...)
			if audit.CheckHeadingHierarchy(cut) == nil {
				t.Fatalf("пропуск h%d в %v не найден", gap, cut)
			}
		}
	})
}

func TestAltTextCoverage(t *testing.T) {
	d := doc(t, `
		<img src="a.png" alt="A">
		<img src="b.png" alt="">
		<img src="c.png">
		<img src="d.png" hidden>
		<div aria-hidden="true"><img src="e.png"></div>
		<div style="display: none"><img src="f.png"></div>`)
	withAlt, total := audit.AltTextCoverage(d)
	assert.Equal(t, 2, withAlt)
	assert.Equal(t, 3, total)
}

func TestOrphanLabels(t *testing.T) {
	d := doc(t, `
		<label for="email">Email</label><input id="email">
		<label for="phone">Phone</label>
		<label for="">Empty</label>
		<label>Wrapped <input></label>`)
	assert.Equal(t, []string{"phone"}, audit.OrphanLabels(d))
}

func TestSampleAccessible(t *testing.T) {
	d := doc(t, `
		<a href="/x">x</a>
		<div role="button" tabindex="-1">y</div>
		<span role="button">z</span>
		<button>b</button>`)
	assert.Equal(t, 4, audit.InteractiveCount(d))
	accessible, sampled := audit.SampleAccessible(d, 2)
	assert.Equal(t, 2, sampled)
	assert.Equal(t, 2, accessible)
}

const goodPage = `<html><body>
<h1>Industrial AI</h1><h2>Section</h2><h3>Sub</h3>
<img src="a.png" alt="A"><img src="b.png">
<label for="q">Search</label><input id="q">
<a href="/">Home</a>
</body></html>`

func TestAnalyze(t *testing.T) {
	r, err := audit.Analyze(goodPage)
	require.NoError(t, err)
	assert.True(t, r.OK(), "%v", r.Findings)
	assert.Equal(t, []int{1, 2, 3}, r.HeadingLevels)
	assert.InDelta(t, 0.5, r.AltCoverage(), 1e-9)
	assert.Equal(t, 1, r.Interactive)
}

func TestAnalyze_Findings(t *testing.T) {
	r, err := audit.Analyze(`<h2>x</h2><h4>y</h4><img src="a.png"><img src="b.png" alt="b"><img src="c.png"><label for="nope">n</label>`)
	require.NoError(t, err)
	assert.False(t, r.OK())
	assert.Len(t, r.Only(audit.CheckHeadings), 2)
	assert.Len(t, r.Only(audit.CheckAltText), 1)
	assert.Len(t, r.Only(audit.CheckLabels), 1)
	assert.Len(t, r.Only(audit.CheckInteractive), 1)
}

func TestInspect(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.SetContent("IFS", goodPage)
	r, err := audit.Inspect(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "https://www.ifs.com/", r.URL)
	assert.Equal(t, 1, r.H1Count)
}

func TestSampleStyles(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.OnEvaluate = func(_ *browsertest.Page, script string, arg any) (any, error) {
		assert.Equal(t, 5, arg)
		return `{"styled":4,"sampled":5}`, nil
	}
	s, err := audit.SampleStyles(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, audit.StyleSample{Styled: 4, Sampled: 5}, s)

	page.OnEvaluate = func(*browsertest.Page, string, any) (any, error) { return 42, nil }
	_, err = audit.SampleStyles(context.Background(), page)
	assert.Error(t, err)

	boom := errors.New("boom")
	page.OnEvaluate = func(*browsertest.Page, string, any) (any, error) { return nil, boom }
	_, err = audit.SampleStyles(context.Background(), page)
	assert.ErrorIs(t, err, boom)
}
