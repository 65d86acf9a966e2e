package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"siteE2E/internal/browser"
)

// stylesScript проверяет, что у первых текстовых элементов вычислены
// цвет и фон. Это не проверка контраста, а признак того, что стили есть.
const stylesScript = `(limit) => {
	const els = Array.from(document.querySelectorAll('h1, h2, p, a, button, label')).slice(0, limit);
	let styled = 0;
	for (const el of els) {
		const s = window.getComputedStyle(el);
		if (s.color !== '' && s.backgroundColor !== '') styled++;
	}
	return JSON.stringify({styled: styled, sampled: els.length});
}`

type StyleSample struct {
	Styled  int `json:"styled"`
	Sampled int `json:"sampled"`
}

// SampleStyles выполняет stylesScript на странице.
func SampleStyles(ctx context.Context, page browser.Page) (StyleSample, error) {
	raw, err := page.Evaluate(ctx, stylesScript, sampleSize)
	if err != nil {
		return StyleSample{}, fmt.Errorf("проверка стилей: %w", err)
	}
	data, ok := raw.(string)
	if !ok {
		return StyleSample{}, fmt.Errorf("неверный формат ответа проверки стилей: %T", raw)
	}
	var s StyleSample
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return StyleSample{}, fmt.Errorf("разбор ответа проверки стилей: %w", err)
	}
	return s, nil
}
