package browser

import (
	"context"
	"fmt"
	"time"
)

const scrollIntoViewScript = `el => el.scrollIntoView({behavior: 'auto', block: 'center', inline: 'center'})`

// ScrollTo прокручивает страницу к элементу. Если штатная прокрутка
// драйвера не сработала, прокручивает скриптом.
func ScrollTo(ctx context.Context, loc Locator) error {
	if visible, err := loc.IsVisible(ctx); err == nil && visible {
		if err := loc.ScrollIntoView(ctx); err == nil {
			return nil
		}
	}

	if _, err := loc.Evaluate(ctx, scrollIntoViewScript); err != nil {
		return fmt.Errorf("ошибка прокрутки к %s: %w", loc, err)
	}

	// Даем время на завершение прокрутки
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}
	return nil
}

// ScrollToBottom прокручивает страницу до конца, чтобы подгрузились
// ленивые секции (футер, карусели).
func ScrollToBottom(ctx context.Context, page Page) error {
	_, err := page.Evaluate(ctx, `() => window.scrollTo(0, document.body.scrollHeight)`, nil)
	if err != nil {
		return fmt.Errorf("прокрутка вниз: %w", err)
	}
	return nil
}
