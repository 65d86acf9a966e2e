package browser

import (
	"context"
	"encoding/json"
	"fmt"
)

// Element - видимый элемент страницы в снапшоте.
type Element struct {
	Tag       string  `json:"tag"`
	Text      string  `json:"text"`
	ID        string  `json:"id,omitempty"`
	Class     string  `json:"class,omitempty"`
	Name      string  `json:"name,omitempty"`
	TestID    string  `json:"testid,omitempty"`
	Role      string  `json:"role,omitempty"`
	AriaLabel string  `json:"aria_label,omitempty"`
	ZIndex    int     `json:"z_index"`
	Fixed     bool    `json:"fixed"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Selector  string  `json:"selector"`
}

// snapshotScript собирает видимые кликабельные элементы и контейнеры с
// position:fixed, то есть кандидатов в оверлеи.
const snapshotScript = `(limit) => {
	const out = [];
	const nodes = document.querySelectorAll(
		'button, a, [role=button], [role=dialog], [aria-modal=true], [aria-label], [class*=close], [class*=modal], [class*=popup], [class*=cookie], [class*=consent]'
	);
	for (const el of nodes) {
		if (out.length >= limit) break;
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') continue;
		if (rect.width === 0 || rect.height === 0) continue;
		let fixed = false;
		for (let p = el; p && p !== document.body; p = p.parentElement) {
			const pos = window.getComputedStyle(p).position;
			if (pos === 'fixed' || pos === 'sticky') { fixed = true; break; }
		}
		out.push({
			tag: el.tagName.toLowerCase(),
			text: (el.innerText || el.textContent || '').trim().slice(0, 80),
			id: el.id || '',
			class: typeof el.className === 'string' ? el.className : '',
			name: el.getAttribute('name') || '',
			testid: el.getAttribute('data-testid') || '',
			role: el.getAttribute('role') || '',
			aria_label: el.getAttribute('aria-label') || '',
			z_index: parseInt(style.zIndex, 10) || 0,
			fixed: fixed,
			width: rect.width,
			height: rect.height,
		});
	}
	return JSON.stringify(out);
}`

const snapshotLimit = 150

// Snapshot возвращает видимые элементы страницы с готовыми селекторами.
func Snapshot(ctx context.Context, page Page) ([]Element, error) {
	raw, err := page.Evaluate(ctx, snapshotScript, snapshotLimit)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения snapshot: %w", err)
	}

	data, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("неверный формат snapshot: %T", raw)
	}

	var elements []Element
	if err := json.Unmarshal([]byte(data), &elements); err != nil {
		return nil, fmt.Errorf("разбор snapshot: %w", err)
	}

	for i := range elements {
		elements[i].Selector = BuildSelector(elements[i])
	}
	return elements, nil
}

// Overlaying оставляет элементы, которые могут перекрывать контент.
func Overlaying(elements []Element) []Element {
	var out []Element
	for _, el := range elements {
		if el.Fixed || el.ZIndex >= 100 || el.Role == "dialog" {
			out = append(out, el)
		}
	}
	return out
}
