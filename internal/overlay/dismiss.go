package overlay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
)

// maxMatches ограничивает перебор совпадений одного селектора.
const maxMatches = 10

// maxSweep ограничивает число кликов для оверлеев с All.
const maxSweep = 5

// hideScript скрывает все элементы по списку селекторов.
const hideScript = `(selectors) => {
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => el.style.setProperty('display', 'none', 'important'));
	}
}`

// Detector - дополнительный источник оверлеев, о которых встроенные
// дескрипторы не знают. nil без ошибки означает "ничего не найдено".
type Detector interface {
	Detect(ctx context.Context, page browser.Page) (*Descriptor, error)
}

type Dismisser struct {
	log             *zap.Logger
	descriptors     []Descriptor
	detector        Detector
	detectorTimeout time.Duration
}

// New создает Dismisser; без дескрипторов используются Defaults.
func New(log *zap.Logger, descriptors ...Descriptor) *Dismisser {
	if log == nil {
		log = zap.NewNop()
	}
	if len(descriptors) == 0 {
		descriptors = Defaults()
	}
	ds := make([]Descriptor, len(descriptors))
	for i, d := range descriptors {
		ds[i] = d.withDefaults()
	}
	return &Dismisser{log: log, descriptors: ds, detectorTimeout: DefaultDetectorTimeout}
}

func (d *Dismisser) WithDetector(det Detector) *Dismisser {
	d.detector = det
	return d
}

// WithDetectorTimeout задает предел ожидания ответа Detector.
func (d *Dismisser) WithDetectorTimeout(timeout time.Duration) *Dismisser {
	if timeout > 0 {
		d.detectorTimeout = timeout
	}
	return d
}

// Dismiss пытается убрать все известные оверлеи по порядку. Ошибок не
// возвращает: результат по каждому оверлею только для логов и тестов.
func (d *Dismisser) Dismiss(ctx context.Context, page browser.Page) []Result {
	results := make([]Result, 0, len(d.descriptors)+1)
	for _, desc := range d.descriptors {
		if ctx.Err() != nil {
			break
		}
		results = append(results, d.dismissOne(ctx, page, desc))
	}

	if d.detector != nil && ctx.Err() == nil {
		if res, ok := d.detect(ctx, page); ok {
			results = append(results, res)
		}
	}
	return results
}

func (d *Dismisser) detect(ctx context.Context, page browser.Page) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("паника в детекторе оверлеев", zap.Any("panic", r))
			ok = false
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, d.detectorTimeout)
	defer cancel()

	desc, err := d.detector.Detect(dctx, page)
	if err != nil {
		d.log.Debug("детектор оверлеев не ответил", zap.Error(err))
		return Result{}, false
	}
	if desc == nil || len(desc.Controls) == 0 {
		return Result{}, false
	}
	return d.dismissOne(ctx, page, desc.withDefaults()), true
}

func (d *Dismisser) dismissOne(ctx context.Context, page browser.Page, desc Descriptor) (res Result) {
	start := time.Now()
	res = Result{Overlay: desc.Name, Outcome: NotPresent}

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = Failed
			res.Err = fmt.Errorf("паника при закрытии %s: %v", desc.Name, r)
		}
		res.Elapsed = time.Since(start)
		d.logResult(res)
	}()

	if desc.All {
		return d.sweep(ctx, page, desc, res)
	}

	attempted := false
	for _, ctl := range desc.Controls {
		loc, probe := d.probe(ctx, page, desc, ctl)
		if loc == nil {
			continue
		}

		attempted = true
		res.Control = ctl.String()
		probe, res.Err = d.click(ctx, loc, desc, probe)
		if probe.Clicked || probe.Forced {
			res.Clicks++
		}
		res.Outcome = Decide(probe)
		if res.Outcome == Dismissed {
			break
		}
	}

	if attempted {
		d.settle(ctx, page, desc)
	}

	if desc.Hide && d.rootsVisible(ctx, page, desc) {
		res = d.forceHide(ctx, page, desc, res)
	}
	return res
}

// sweep кликает по всем видимым кнопкам закрытия, пока они находятся.
// Кнопка, которая после клика осталась видна, останавливает обход.
func (d *Dismisser) sweep(ctx context.Context, page browser.Page, desc Descriptor, res Result) Result {
	var lastErr error
	failed, stuck := false, false

controls:
	for _, ctl := range desc.Controls {
		for i := 0; i < maxSweep; i++ {
			loc, probe := d.probe(ctx, page, desc, ctl)
			if loc == nil {
				break
			}
			before := d.visibleCount(ctx, page, desc, ctl)
			probe, err := d.click(ctx, loc, desc, probe)
			if Decide(probe) != Dismissed {
				failed = true
				lastErr = err
				break
			}
			res.Clicks++
			res.Control = ctl.String()
			// после закрытия одного окна Nth может указывать уже на кнопку другого
			if !d.settleLocator(ctx, loc, desc.SettleTimeout) && d.visibleCount(ctx, page, desc, ctl) >= before {
				stuck = true
				lastErr = fmt.Errorf("%s виден после клика", ctl)
				break controls
			}
		}
	}

	switch {
	case stuck:
		res.Outcome = Failed
		res.Err = lastErr
	case res.Clicks > 0:
		res.Outcome = Dismissed
	case failed:
		res.Outcome = Failed
		res.Err = lastErr
	}
	return res
}

// visibleCount считает видимые совпадения элемента управления.
func (d *Dismisser) visibleCount(ctx context.Context, page browser.Page, desc Descriptor, ctl Control) int {
	pctx, cancel := context.WithTimeout(ctx, desc.DetectTimeout)
	defer cancel()

	loc := ctl.locate(page)
	n, err := loc.Count(pctx)
	if err != nil {
		return 0
	}
	if n > maxMatches {
		n = maxMatches
	}
	visible := 0
	for i := 0; i < n; i++ {
		if ok, err := loc.Nth(i).IsVisible(pctx); err == nil && ok {
			visible++
		}
	}
	return visible
}

// probe ищет первый видимый экземпляр элемента управления. Ошибки
// обнаружения означают "не виден".
func (d *Dismisser) probe(ctx context.Context, page browser.Page, desc Descriptor, ctl Control) (browser.Locator, Probe) {
	pctx, cancel := context.WithTimeout(ctx, desc.DetectTimeout)
	defer cancel()

	loc := ctl.locate(page)
	n, err := loc.Count(pctx)
	if err != nil || n == 0 {
		return nil, Probe{}
	}
	if n > maxMatches {
		n = maxMatches
	}

	for i := 0; i < n; i++ {
		item := loc.Nth(i)
		visible, err := item.IsVisible(pctx)
		if err != nil || !visible {
			continue
		}
		enabled, err := item.IsEnabled(pctx)
		probe := Probe{Visible: true, Enabled: err == nil && enabled}
		if Decide(probe) == NotPresent {
			d.log.Debug("элемент оверлея виден, но недоступен",
				zap.String("overlay", desc.Name),
				zap.String("control", ctl.String()),
			)
			continue
		}
		return item, probe
	}
	return nil, Probe{}
}

// click - основной клик, а при неудаче один принудительный.
func (d *Dismisser) click(ctx context.Context, loc browser.Locator, desc Descriptor, probe Probe) (Probe, error) {
	err := loc.Click(ctx, browser.ClickOptions{Timeout: desc.ClickTimeout})
	if err == nil {
		probe.Clicked = true
		return probe, nil
	}

	d.log.Debug("клик по оверлею не прошел, пробуем принудительно",
		zap.String("overlay", desc.Name),
		zap.String("control", loc.String()),
		zap.Error(err),
	)

	forceErr := loc.Click(ctx, browser.ClickOptions{Force: true, Timeout: desc.FallbackTimeout})
	if forceErr == nil {
		probe.Forced = true
		return probe, nil
	}
	return probe, errors.Join(err, forceErr)
}

// settle ждет, пока корни оверлея скроются. Таймаут не ошибка.
func (d *Dismisser) settle(ctx context.Context, page browser.Page, desc Descriptor) {
	sctx, cancel := context.WithTimeout(ctx, desc.SettleTimeout)
	defer cancel()

	for _, root := range desc.Roots {
		d.settleLocator(sctx, page.Locator(root), desc.SettleTimeout)
	}
}

// settleLocator ждет, пока совпадения loc скроются, и сообщает, удалось ли.
func (d *Dismisser) settleLocator(ctx context.Context, loc browser.Locator, timeout time.Duration) bool {
	n, err := loc.Count(ctx)
	if err != nil {
		return false
	}
	if n > maxMatches {
		n = maxMatches
	}
	for i := n - 1; i >= 0; i-- {
		if err := loc.Nth(i).WaitFor(ctx, browser.StateHidden, timeout); err != nil {
			d.log.Debug("оверлей не скрылся", zap.String("root", loc.String()), zap.Error(err))
			return false
		}
	}
	return true
}

func (d *Dismisser) rootsVisible(ctx context.Context, page browser.Page, desc Descriptor) bool {
	pctx, cancel := context.WithTimeout(ctx, desc.DetectTimeout)
	defer cancel()

	for _, root := range desc.Roots {
		loc := page.Locator(root)
		n, err := loc.Count(pctx)
		if err != nil {
			continue
		}
		if n > maxMatches {
			n = maxMatches
		}
		for i := 0; i < n; i++ {
			if visible, err := loc.Nth(i).IsVisible(pctx); err == nil && visible {
				return true
			}
		}
	}
	return false
}

func (d *Dismisser) forceHide(ctx context.Context, page browser.Page, desc Descriptor, res Result) Result {
	if _, err := page.Evaluate(ctx, hideScript, desc.Roots); err != nil {
		d.log.Debug("не удалось скрыть оверлей скриптом", zap.String("overlay", desc.Name), zap.Error(err))
		if res.Outcome == NotPresent {
			res.Outcome = Failed
		}
		res.Err = errors.Join(res.Err, err)
		return res
	}

	hidden := !d.rootsVisible(ctx, page, desc)
	if hidden {
		res.Outcome = Decide(Probe{Visible: true, Enabled: true, Hidden: true})
		res.Control = "force-hide"
		res.Err = nil
	} else if res.Outcome == NotPresent {
		res.Outcome = Failed
	}
	return res
}

// ForceHide скрывает корни всех оверлеев, которые это допускают. Нужен
// между повторами навигации, когда обычное закрытие не помогло.
func (d *Dismisser) ForceHide(ctx context.Context, page browser.Page) {
	var roots []string
	for _, desc := range d.descriptors {
		if desc.Hide {
			roots = append(roots, desc.Roots...)
		}
	}
	if len(roots) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("паника при скрытии оверлеев", zap.Any("panic", r))
		}
	}()

	if _, err := page.Evaluate(ctx, hideScript, roots); err != nil {
		d.log.Debug("не удалось скрыть оверлеи", zap.Error(err))
	}
}

func (d *Dismisser) logResult(res Result) {
	fields := []zap.Field{
		zap.String("overlay", res.Overlay),
		zap.Stringer("outcome", res.Outcome),
		zap.Duration("elapsed", res.Elapsed),
	}
	if res.Control != "" {
		fields = append(fields, zap.String("control", res.Control))
	}

	switch res.Outcome {
	case Dismissed:
		d.log.Info("оверлей закрыт", append(fields, zap.Int("clicks", res.Clicks))...)
	case Failed:
		d.log.Warn("оверлей закрыть не удалось", append(fields, zap.Error(res.Err))...)
	default:
		d.log.Debug("оверлея нет", fields...)
	}
}
