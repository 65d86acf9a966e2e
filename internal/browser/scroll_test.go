package browser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteE2E/internal/browser"
	"siteE2E/internal/browser/browsertest"
)

func TestScrollTo(t *testing.T) {
	ctx := context.Background()

	t.Run("visible element uses driver scroll", func(t *testing.T) {
		page := browsertest.New("https://www.ifs.com/")
		footer := browsertest.NewElement()
		page.Add("footer", footer)

		require.NoError(t, browser.ScrollTo(ctx, page.Locator("footer")))
		assert.Equal(t, 1, footer.Scrolls)
		assert.Empty(t, page.Evaluations())
	})

	t.Run("hidden element falls back to script", func(t *testing.T) {
		page := browsertest.New("https://www.ifs.com/")
		page.Add(".promo-card-next", browsertest.NewElement().Hidden())

		require.NoError(t, browser.ScrollTo(ctx, page.Locator(".promo-card-next")))
		assert.Len(t, page.Evaluations(), 1)
	})

	t.Run("missing element", func(t *testing.T) {
		page := browsertest.New("https://www.ifs.com/")
		assert.Error(t, browser.ScrollTo(ctx, page.Locator(".nope")))
	})
}
