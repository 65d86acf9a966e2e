package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightLocator struct {
	loc  playwright.Locator
	desc string
	cfg  Config
}

func (l *playwrightLocator) derive(loc playwright.Locator, suffix string) Locator {
	return &playwrightLocator{loc: loc, desc: l.desc + suffix, cfg: l.cfg}
}

func (l *playwrightLocator) String() string {
	return l.desc
}

func (l *playwrightLocator) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.loc.Count()
}

func (l *playwrightLocator) Nth(i int) Locator {
	return l.derive(l.loc.Nth(i), fmt.Sprintf(" >> nth=%d", i))
}

func (l *playwrightLocator) First() Locator {
	return l.derive(l.loc.First(), " >> nth=0")
}

func (l *playwrightLocator) Locator(selector string) Locator {
	return l.derive(l.loc.Locator(selector), " >> "+selector)
}

func (l *playwrightLocator) Filter(hasText *regexp.Regexp) Locator {
	return l.derive(
		l.loc.Filter(playwright.LocatorFilterOptions{HasText: hasText}),
		fmt.Sprintf(" >> has-text=/%s/", hasText),
	)
}

func (l *playwrightLocator) actionTimeout(ctx context.Context, d time.Duration) (*float64, error) {
	if d == 0 {
		d = l.cfg.ActionTimeout
	}
	return boundTimeout(ctx, d)
}

// IsVisible не ждет: отвечает по текущему состоянию DOM.
func (l *playwrightLocator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return l.loc.IsVisible()
}

func (l *playwrightLocator) IsEnabled(ctx context.Context) (bool, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return false, err
	}
	return l.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: ms})
}

func (l *playwrightLocator) IsChecked(ctx context.Context) (bool, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return false, err
	}
	return l.loc.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: ms})
}

func (l *playwrightLocator) Click(ctx context.Context, opts ClickOptions) error {
	ms, err := l.actionTimeout(ctx, opts.Timeout)
	if err != nil {
		return err
	}
	err = l.loc.Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: ms,
	})
	return wrapTimeout("клик "+l.desc, err)
}

func (l *playwrightLocator) Fill(ctx context.Context, value string) error {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return err
	}
	return wrapTimeout("заполнение "+l.desc, l.loc.Fill(value, playwright.LocatorFillOptions{Timeout: ms}))
}

func (l *playwrightLocator) InputValue(ctx context.Context) (string, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return "", err
	}
	return l.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: ms})
}

func (l *playwrightLocator) SelectOption(ctx context.Context, label string) error {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return err
	}
	values := playwright.SelectOptionValues{Labels: &[]string{label}}
	if label == "" {
		// пустая метка - сброс на опцию-заглушку с value=""
		values = playwright.SelectOptionValues{Values: &[]string{""}}
	}
	_, err = l.loc.SelectOption(values, playwright.LocatorSelectOptionOptions{Timeout: ms})
	return wrapTimeout("выбор опции "+l.desc, err)
}

func (l *playwrightLocator) Check(ctx context.Context, force bool) error {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return err
	}
	err = l.loc.Check(playwright.LocatorCheckOptions{
		Force:   playwright.Bool(force),
		Timeout: ms,
	})
	return wrapTimeout("отметка "+l.desc, err)
}

func (l *playwrightLocator) Uncheck(ctx context.Context) error {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return err
	}
	return wrapTimeout("снятие отметки "+l.desc, l.loc.Uncheck(playwright.LocatorUncheckOptions{Timeout: ms}))
}

func (l *playwrightLocator) WaitFor(ctx context.Context, state State, timeout time.Duration) error {
	if timeout == 0 {
		timeout = l.cfg.Timeout
	}
	ms, err := boundTimeout(ctx, timeout)
	if err != nil {
		return err
	}
	err = l.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   selectorState(state),
		Timeout: ms,
	})
	return wrapTimeout(fmt.Sprintf("ожидание %s (%s)", l.desc, state), err)
}

func (l *playwrightLocator) Text(ctx context.Context) (string, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return "", err
	}
	return l.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: ms})
}

func (l *playwrightLocator) Attribute(ctx context.Context, name string) (string, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return "", err
	}
	return l.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: ms})
}

func (l *playwrightLocator) Evaluate(ctx context.Context, script string) (any, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return nil, err
	}
	return l.loc.Evaluate(script, nil, playwright.LocatorEvaluateOptions{Timeout: ms})
}

func (l *playwrightLocator) ScrollIntoView(ctx context.Context) error {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return err
	}
	return l.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: ms})
}

func (l *playwrightLocator) Screenshot(ctx context.Context) ([]byte, error) {
	ms, err := l.actionTimeout(ctx, 0)
	if err != nil {
		return nil, err
	}
	png, err := l.loc.Screenshot(playwright.LocatorScreenshotOptions{Timeout: ms})
	if err != nil {
		return nil, wrapTimeout("скриншот "+l.desc, err)
	}
	return png, nil
}
