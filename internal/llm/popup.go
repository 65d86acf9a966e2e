package llm

import (
	"context"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/overlay"
)

// Detector находит оверлеи, о которых встроенные дескрипторы не знают.
// Реализует overlay.Detector.
type Detector struct {
	client *Client
	log    *zap.Logger
}

func NewDetector(client *Client, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{client: client, log: log.Named("llm-detector")}
}

func (d *Detector) Detect(ctx context.Context, page browser.Page) (*overlay.Descriptor, error) {
	elements, err := browser.Snapshot(ctx, page)
	if err != nil {
		return nil, err
	}
	candidates := browser.Overlaying(elements)
	if len(candidates) == 0 {
		return nil, nil
	}

	answer, err := d.client.AnalyzeOverlay(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return d.descriptor(answer), nil
}

// descriptor превращает ответ модели в дескриптор. Селекторы, которые
// нельзя использовать, отбрасываются.
func (d *Detector) descriptor(a *OverlayAnswer) *overlay.Descriptor {
	if !a.HasPopup {
		return nil
	}

	closeSel, changed := browser.NormalizeSelector(a.CloseSelector)
	if err := browser.ValidateSelector(closeSel); err != nil {
		d.log.Debug("модель вернула негодный селектор", zap.String("selector", a.CloseSelector), zap.Error(err))
		return nil
	}
	if changed {
		d.log.Debug("селектор нормализован", zap.String("from", a.CloseSelector), zap.String("to", closeSel))
	}

	desc := &overlay.Descriptor{
		Name:     "llm",
		Controls: []overlay.Control{{Name: a.Description, Selector: closeSel}},
	}
	if root, _ := browser.NormalizeSelector(a.PopupSelector); browser.ValidateSelector(root) == nil {
		desc.Roots = []string{root}
	}
	if desc.Controls[0].Name == "" {
		desc.Controls[0].Name = closeSel
	}
	return desc
}
