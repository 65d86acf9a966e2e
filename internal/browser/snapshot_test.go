package browser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteE2E/internal/browser"
	"siteE2E/internal/browser/browsertest"
)

func TestSnapshot(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.OnEvaluate = func(_ *browsertest.Page, _ string, arg any) (any, error) {
		assert.Equal(t, 150, arg)
		return `[
			{"tag":"button","text":"Accept All Cookies","id":"onetrust-accept-btn-handler","fixed":true,"z_index":2147483645},
			{"tag":"a","text":"Products","class":"nav-link"},
			{"tag":"div","role":"dialog","aria_label":"Newsletter"}
		]`, nil
	}

	elements, err := browser.Snapshot(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, "#onetrust-accept-btn-handler", elements[0].Selector)
	assert.Equal(t, "a.nav-link", elements[1].Selector)

	overlaying := browser.Overlaying(elements)
	require.Len(t, overlaying, 2)
	assert.Equal(t, "button", overlaying[0].Tag)
	assert.Equal(t, "dialog", overlaying[1].Role)
}

func TestSnapshot_BadPayload(t *testing.T) {
	page := browsertest.New("https://www.ifs.com/")
	page.OnEvaluate = func(*browsertest.Page, string, any) (any, error) {
		return 42, nil
	}

	_, err := browser.Snapshot(context.Background(), page)
	assert.Error(t, err)
}
