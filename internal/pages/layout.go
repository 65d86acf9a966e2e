package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
)

const (
	minFooterLinks   = 8
	menuLinkSelector = ".ma5menu__panel--active a:not(.ma5menu__btn--enter):visible"
)

var absoluteURL = regexp.MustCompile(`^https?://`)

// Layout - общие для всех страниц шапка, подвал и мобильное меню.
type Layout struct {
	s *Session

	Heading     browser.Locator
	Logo        browser.Locator
	SearchLink  browser.Locator
	FooterLinks browser.Locator
	SocialLinks browser.Locator
	MobileMenu  browser.Locator
	MenuLinks   browser.Locator

	// FooterIndustries - ссылки под заголовком Industries в подвале.
	FooterIndustries browser.Locator
}

func newLayout(s *Session) Layout {
	p := s.page
	return Layout{
		s:           s,
		Heading:     p.Locator("h1").First(),
		Logo:        p.Locator(`a[href="/"]`).First(),
		SearchLink:  p.Locator(`a[href="/search"]`).First(),
		FooterLinks: p.Locator("footer a:visible"),
		SocialLinks: p.Locator(`footer a[href*="facebook"], footer a[href*="twitter"], footer a[href*="linkedin"], footer a[href*="instagram"]`),
		MobileMenu:  p.Locator(`a:has-text("Menu")`),
		MenuLinks:   p.Locator(menuLinkSelector).First(),

		FooterIndustries: p.Locator(`footer h4:has-text("Industries")`).First().Locator("xpath=following-sibling::ul[1]//a"),
	}
}

func (l Layout) Session() *Session {
	return l.s
}

func (l Layout) DismissOverlays(ctx context.Context) {
	l.s.DismissOverlays(ctx)
}

// ValidateLogo - мягкая проверка: отсутствие логотипа только логируется.
func (l Layout) ValidateLogo(ctx context.Context) error {
	l.s.DismissOverlays(ctx)
	if err := l.Logo.WaitFor(ctx, browser.StateVisible, l.s.timeouts.Expect); err != nil {
		l.s.log.Warn("логотип не виден, проверка пропущена", zap.String("url", l.s.page.URL()), zap.Error(err))
	}
	return nil
}

func (l Layout) ValidateFooterLinks(ctx context.Context) error {
	return l.s.expect("layout").atLeast(ctx, "видимых ссылок в подвале", l.FooterLinks, minFooterLinks)
}

func (l Layout) ValidateSocialMediaLinks(ctx context.Context) error {
	return l.s.expect("layout").atLeast(ctx, "ссылок на соцсети в подвале", l.SocialLinks, 1)
}

// ValidateFooterHrefs проверяет, что у каждой ссылки подвала есть href.
func (l Layout) ValidateFooterHrefs(ctx context.Context) error {
	e := l.s.expect("layout")
	links := l.s.page.Locator("footer a")
	if err := e.atLeast(ctx, "ссылок в подвале", links, 1); err != nil {
		return err
	}
	hrefs, err := l.Hrefs(ctx, links)
	if err != nil {
		return e.fail("href у ссылок подвала", "", err)
	}
	for i, h := range hrefs {
		if h == "" {
			return e.fail("непустой href у ссылки подвала", fmt.Sprintf("ссылка %d", i), nil)
		}
	}
	return nil
}

// ValidateSocialHrefs проверяет, что ссылки на соцсети абсолютные.
func (l Layout) ValidateSocialHrefs(ctx context.Context) error {
	e := l.s.expect("layout")
	if err := e.atLeast(ctx, "ссылок на соцсети в подвале", l.SocialLinks, 1); err != nil {
		return err
	}
	hrefs, err := l.Hrefs(ctx, l.SocialLinks)
	if err != nil {
		return e.fail("href у ссылок на соцсети", "", err)
	}
	for _, h := range hrefs {
		if !absoluteURL.MatchString(h) {
			return e.fail("абсолютный адрес соцсети", h, nil)
		}
	}
	return nil
}

// ValidateHeadingContains ждет, пока первый h1 будет содержать text.
func (l Layout) ValidateHeadingContains(ctx context.Context, text string) error {
	e := l.s.expect("layout")
	if err := e.visible(ctx, "заголовок h1", l.Heading); err != nil {
		return err
	}
	var last string
	err := eventually(ctx, l.s.timeouts.Expect, func() (bool, error) {
		t, err := l.Heading.Text(ctx)
		if err != nil {
			return false, err
		}
		last = t
		return strings.Contains(t, text), nil
	})
	if err != nil {
		return e.fail(fmt.Sprintf("h1 содержит %q", text), fmt.Sprintf("h1=%q", last), err)
	}
	return nil
}

// ValidateFooterIndustries прокручивает к подвалу и ждет ссылку из
// колонки Industries.
func (l Layout) ValidateFooterIndustries(ctx context.Context) error {
	if err := browser.ScrollToBottom(ctx, l.s.page); err != nil {
		return err
	}
	return l.s.expect("layout").visibleWithin(ctx, "ссылка на отрасль в подвале", l.FooterIndustries.First(), l.s.timeouts.Element)
}

func (l Layout) NavigateToSearch(ctx context.Context) error {
	l.s.DismissOverlays(ctx)
	if err := l.s.expect("layout").visibleWithin(ctx, "ссылка на поиск", l.SearchLink, l.s.timeouts.Element); err != nil {
		return err
	}
	return l.s.Click(ctx, l.SearchLink, navigation.URLPath("/search"))
}

// OpenMobileMenu открывает меню, если ссылки меню еще не видны.
func (l Layout) OpenMobileMenu(ctx context.Context) error {
	if visible(ctx, l.MenuLinks) {
		return nil
	}
	if err := l.s.expect("layout").visibleWithin(ctx, "кнопка мобильного меню", l.MobileMenu, l.s.timeouts.Element); err != nil {
		return err
	}
	if err := navigation.ClickWithFallback(ctx, l.MobileMenu); err != nil {
		return fmt.Errorf("открытие мобильного меню: %w", err)
	}
	return l.s.expect("layout").visibleWithin(ctx, "ссылки мобильного меню", l.MenuLinks, l.s.timeouts.Element)
}

func (l Layout) CloseMobileMenu(ctx context.Context) error {
	if !visible(ctx, l.MenuLinks) {
		return nil
	}
	if err := navigation.ClickWithFallback(ctx, l.MobileMenu); err != nil {
		return fmt.Errorf("закрытие мобильного меню: %w", err)
	}
	if err := l.MenuLinks.WaitFor(ctx, browser.StateHidden, l.s.timeouts.Element); err != nil {
		return l.s.expect("layout").fail("мобильное меню закрыто", l.MenuLinks.String(), err)
	}
	return nil
}

// Hrefs возвращает href всех совпадений локатора.
func (l Layout) Hrefs(ctx context.Context, loc browser.Locator) ([]string, error) {
	n, err := loc.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		h, err := loc.Nth(i).Attribute(ctx, "href")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", loc.Nth(i), err)
		}
		out = append(out, h)
	}
	return out, nil
}
