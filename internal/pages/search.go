package pages

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
)

const resultSelector = ".card-searchstudio-js-custom .card-searchstudio-js-title a.stretched-link"

// Search - поиск по сайту. Открывается с главной через иконку в шапке.
type Search struct {
	Layout

	Icon        browser.Locator
	Title       browser.Locator
	Input       browser.Locator
	Button      browser.Locator
	ClearButton browser.Locator

	Results    browser.Locator
	Headings   browser.Locator
	Pagination browser.Locator
	NextPage   browser.Locator

	ProductsHeading    browser.Locator
	ProductsCards      browser.Locator
	LookingElseHeading browser.Locator
	LookingElseCards   browser.Locator
	CommunityHeading   browser.Locator
	FindAnswers        browser.Locator
}

func NewSearch(s *Session) *Search {
	p := s.page
	return &Search{
		Layout: newLayout(s),

		Icon:        p.Locator(".searchIcon > a").First(),
		Title:       p.Locator("main h1"),
		Input:       p.ByRole("textbox", "Search"),
		Button:      p.ByRole("button", "Search"),
		ClearButton: p.ByRole("button", "clear"),

		Results:    p.Locator(resultSelector),
		Headings:   p.Locator("main h2, main h3"),
		Pagination: p.Locator(`nav[aria-label*="pagination"], ul.pagination`).First(),
		NextPage:   p.ByRole("link", "next"),

		ProductsHeading:    p.Locator(`main h2:has-text("Products")`),
		ProductsCards:      p.Locator("main h4"),
		LookingElseHeading: p.Locator(`main h3:has-text("Looking for something else")`),
		LookingElseCards:   p.Locator(`main [class*="slick-slide"]`),
		CommunityHeading:   p.Locator(`main h3:has-text("Have more product-related queries")`),
		FindAnswers:        p.Locator(`main a:has-text("Find answers")`),
	}
}

func (p *Search) Goto(ctx context.Context) error {
	return p.s.Goto(ctx, "/", navigation.Visible(p.Heading))
}

func (p *Search) onSearchPage() bool {
	return strings.Contains(p.s.page.URL(), "/search")
}

func (p *Search) ValidatePageHeader(ctx context.Context) error {
	e := p.s.expect("search")
	if err := e.visible(ctx, "заголовок страницы", p.Title); err != nil {
		return err
	}
	if !p.onSearchPage() {
		return nil
	}
	if err := e.visible(ctx, "поле поиска", p.Input); err != nil {
		return err
	}
	return e.visible(ctx, "кнопка поиска", p.Button)
}

// PerformSearch открывает /search, если нужно, вводит запрос и, если
// ожидаются результаты, ждет либо карточек результатов, либо заголовка
// страницы результатов.
func (p *Search) PerformSearch(ctx context.Context, query string, expectResults bool) error {
	p.s.DismissOverlays(ctx)
	p.s.ForceHide(ctx)

	if !p.onSearchPage() {
		if err := browser.ScrollTo(ctx, p.Icon); err != nil {
			p.s.log.Debug("иконка поиска не прокручивается", zap.Error(err))
		}
		if err := p.s.Click(ctx, p.Icon, navigation.URLPath("/search")); err != nil {
			return fmt.Errorf("переход на страницу поиска: %w", err)
		}
	}

	e := p.s.expect("search")
	long := 2 * p.s.timeouts.Element
	if err := e.visibleWithin(ctx, "поле поиска", p.Input, long); err != nil {
		return err
	}
	p.s.DismissOverlays(ctx)
	if err := navigation.ClickWithFallback(ctx, p.Input); err != nil {
		return fmt.Errorf("фокус на поле поиска: %w", err)
	}
	if err := p.Input.Fill(ctx, query); err != nil {
		return fmt.Errorf("ввод запроса %q: %w", query, err)
	}
	if err := e.visibleWithin(ctx, "кнопка поиска", p.Button, long); err != nil {
		return err
	}
	if err := p.s.Click(ctx, p.Button); err != nil {
		return fmt.Errorf("запуск поиска %q: %w", query, err)
	}

	if !expectResults {
		return nil
	}
	outcome, err := navigation.FirstOf(ctx, p.s.timeouts.Results,
		navigation.Waiter{Name: "results", Wait: func(ctx context.Context) error {
			return p.Results.First().WaitFor(ctx, browser.StateAttached, p.s.timeouts.Results)
		}},
		navigation.Waiter{Name: "heading", Wait: func(ctx context.Context) error {
			return p.Headings.First().WaitFor(ctx, browser.StateVisible, p.s.timeouts.Results)
		}},
	)
	if err != nil {
		return fmt.Errorf("поиск %q: ни результатов, ни заголовка: %w", query, err)
	}
	p.s.log.Debug("поиск выполнен", zap.String("query", query), zap.String("outcome", outcome.Name))
	return nil
}

// ClearSearch сбрасывает запрос, если кнопка очистки доступна.
func (p *Search) ClearSearch(ctx context.Context) error {
	if !visible(ctx, p.ClearButton) {
		return nil
	}
	if enabled, err := p.ClearButton.IsEnabled(ctx); err != nil || !enabled {
		return nil
	}
	if err := p.ClearButton.Click(ctx, browser.ClickOptions{}); err != nil {
		return fmt.Errorf("очистка поиска: %w", err)
	}
	if err := p.s.page.WaitForLoadState(ctx, browser.WaitNetworkIdle, p.s.timeouts.Element); err != nil {
		p.s.log.Debug("сеть не успокоилась после очистки", zap.Error(err))
	}
	if err := p.Results.First().WaitFor(ctx, browser.StateDetached, p.s.timeouts.Element); err != nil {
		p.s.log.Debug("результаты не исчезли после очистки", zap.Error(err))
	}
	return nil
}

func (p *Search) ValidateSearchResults(ctx context.Context, expectResults bool) error {
	e := p.s.expect("search")
	if expectResults {
		if err := e.atLeast(ctx, "результатов поиска", p.Results, 1); err != nil {
			return err
		}
		if err := e.anyVisible(ctx, "результат поиска", p.Results); err != nil {
			return err
		}
	}
	return e.anyVisible(ctx, "заголовок результатов", p.Headings)
}

// ValidatePagination переходит на следующую страницу результатов, если
// она есть, и проверяет, что первый результат сменился.
func (p *Search) ValidatePagination(ctx context.Context) error {
	if !visible(ctx, p.Pagination) {
		p.s.log.Info("пагинации нет, проверка пропущена")
		return nil
	}
	next := p.NextPage.First()
	if !visible(ctx, next) {
		return nil
	}
	if enabled, err := next.IsEnabled(ctx); err != nil || !enabled {
		return nil
	}

	e := p.s.expect("search")
	before, err := p.Results.First().Text(ctx)
	if err != nil {
		return e.fail("текст первого результата", "", err)
	}
	if err := p.s.Click(ctx, next); err != nil {
		return fmt.Errorf("следующая страница результатов: %w", err)
	}
	if err := p.s.page.WaitForLoadState(ctx, browser.WaitNetworkIdle, p.s.timeouts.Element); err != nil {
		p.s.log.Debug("сеть не успокоилась после перехода", zap.Error(err))
	}
	after, err := p.Results.First().Text(ctx)
	if err != nil {
		return e.fail("текст первого результата", "", err)
	}
	if after == before {
		return e.fail("другие результаты на следующей странице", before, nil)
	}
	return nil
}

// optionalSection проверяет раздел, только если его заголовок виден.
func (p *Search) optionalSection(ctx context.Context, name string, heading browser.Locator, check func(e expect) error) error {
	if !visible(ctx, heading) {
		p.s.log.Info("раздел не найден, проверка пропущена", zap.String("section", name))
		return nil
	}
	if err := browser.ScrollTo(ctx, heading); err != nil {
		return err
	}
	return check(p.s.expect("search"))
}

func (p *Search) ValidateProductSolutionsSection(ctx context.Context) error {
	return p.optionalSection(ctx, "products", p.ProductsHeading, func(e expect) error {
		return e.atLeast(ctx, "карточек продуктов", p.ProductsCards, 1)
	})
}

func (p *Search) ValidateLookingElseSection(ctx context.Context) error {
	return p.optionalSection(ctx, "looking-else", p.LookingElseHeading, func(e expect) error {
		return e.atLeast(ctx, "карточек Looking for something else", p.LookingElseCards, 1)
	})
}

func (p *Search) ValidateCommunitySection(ctx context.Context) error {
	return p.optionalSection(ctx, "community", p.CommunityHeading, func(e expect) error {
		return e.visible(ctx, "ссылка Find answers", p.FindAnswers)
	})
}

func (p *Search) ClickSearchResult(ctx context.Context, index int) error {
	n, err := p.Results.Count(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= n {
		return p.s.expect("search").fail(fmt.Sprintf("результат #%d", index), fmt.Sprintf("найдено %d", n), nil)
	}
	return p.s.Click(ctx, p.Results.Nth(index))
}
