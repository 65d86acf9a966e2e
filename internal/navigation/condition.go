package navigation

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"siteE2E/internal/browser"
)

// Condition - условие готовности страницы после навигации или клика.
type Condition interface {
	Wait(ctx context.Context, page browser.Page, timeout time.Duration) error
	String() string
}

type stateCondition struct {
	loc   browser.Locator
	state browser.State
}

// Visible ждет, пока элемент станет видимым.
func Visible(loc browser.Locator) Condition {
	return stateCondition{loc: loc, state: browser.StateVisible}
}

// Hidden ждет, пока элемент скроется или пропадет из DOM.
func Hidden(loc browser.Locator) Condition {
	return stateCondition{loc: loc, state: browser.StateHidden}
}

func (c stateCondition) Wait(ctx context.Context, _ browser.Page, timeout time.Duration) error {
	return c.loc.WaitFor(ctx, c.state, timeout)
}

func (c stateCondition) String() string {
	return fmt.Sprintf("%s (%s)", c.loc, c.state)
}

type urlCondition struct {
	re     *regexp.Regexp
	negate bool
}

// URLMatches ждет, пока URL страницы совпадет с шаблоном.
func URLMatches(re *regexp.Regexp) Condition {
	return urlCondition{re: re}
}

// URLPath - URLMatches для пути, который заканчивается на path.
func URLPath(path string) Condition {
	return urlCondition{re: regexp.MustCompile(regexp.QuoteMeta(path) + `/?(?:[?#].*)?$`)}
}

// URLNotMatches ждет, пока URL страницы перестанет совпадать с шаблоном.
func URLNotMatches(re *regexp.Regexp) Condition {
	return urlCondition{re: re, negate: true}
}

func (c urlCondition) Wait(ctx context.Context, page browser.Page, timeout time.Duration) error {
	return page.WaitForURL(ctx, func(u string) bool {
		return c.re.MatchString(u) != c.negate
	}, timeout)
}

func (c urlCondition) String() string {
	if c.negate {
		return "URL !~ " + c.re.String()
	}
	return "URL ~ " + c.re.String()
}
