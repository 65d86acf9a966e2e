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

// MainNavigation - пункты верхнего меню.
var MainNavigation = []string{"IFS.ai", "Industries", "Solutions", "Customer Success", "Partners", "About"}

var (
	carouselNext = regexp.MustCompile(`(?i)next|›|→|right|forward`)
	carouselPrev = regexp.MustCompile(`(?i)prev|‹|←|left|back`)
)

// Home - главная страница.
type Home struct {
	Layout

	NavItems browser.Locator

	HeroTitle    browser.Locator
	HeroSubtitle browser.Locator
	LearnHow     browser.Locator
	BookDemo     browser.Locator

	IndustriesSolutionsTab browser.Locator
	ResourcesTab           browser.Locator
	CustomersTab           browser.Locator
	AwardsTab              browser.Locator
	SustainabilityTab      browser.Locator

	ExploreIndustries browser.Locator
	ExploreSolutions  browser.Locator

	ResourcesHeading browser.Locator
	ResourcesSlide   browser.Locator
	ResourcesNext    browser.Locator
	ResourcesPrev    browser.Locator
	CarouselArea     browser.Locator

	CustomersHeading browser.Locator
	CustomerStories  browser.Locator
}

func NewHome(s *Session) *Home {
	p := s.page
	return &Home{
		Layout: newLayout(s),

		NavItems: p.Locator(".navLinks ul > li > a.nav-dd"),

		HeroTitle:    p.Locator(`h1:has-text("Industrial AI")`),
		HeroSubtitle: p.Locator(`h5:has-text("Industrial AI is revolutionizing")`),
		LearnHow:     p.Locator(`a[href*="/ai"]:has-text("Learn how")`).First(),
		BookDemo:     p.Locator(`a[href*="/book-a-demo"]:has-text("Book a demo")`).First(),

		IndustriesSolutionsTab: p.Locator(`a[href="#IndustriesSolutions"]`),
		ResourcesTab:           p.Locator(`a[href="#OrchestrateResources"]`),
		CustomersTab:           p.Locator(`a[href="#OurCustomers"]`),
		AwardsTab:              p.Locator(`a[href="#AwardsAccolades"]`),
		SustainabilityTab:      p.Locator(`a[href="#Sustainabilitycorner"]`),

		ExploreIndustries: p.Locator(`a:has-text("Explore industries")`),
		ExploreSolutions:  p.Locator(`a:has-text("Explore solutions")`),

		ResourcesHeading: p.Locator(`h2:has-text("Orchestrate your resources")`),
		ResourcesSlide:   p.Locator(`.carousel-item:visible, [class*="slide"]:visible, [data-carousel-item]:visible`).First(),
		ResourcesNext:    p.Locator(".promo-card-next").First(),
		ResourcesPrev:    p.Locator(".promo-card-prev").First(),
		CarouselArea:     p.Locator("#OrchestrateResources, main").First(),

		CustomersHeading: p.Locator(`h2:has-text("Hear from our customers")`),
		CustomerStories:  p.Locator(`main a[href*="/customer"]:visible, main a:has-text("customer story"):visible`),
	}
}

func (h *Home) Goto(ctx context.Context) error {
	return h.s.Goto(ctx, "/", navigation.Visible(h.Heading))
}

// ValidateHeroSection проверяет заголовок, подзаголовок и кнопки. Кнопка
// демо бывает скрыта в A/B-вариантах и не обязательна.
func (h *Home) ValidateHeroSection(ctx context.Context) error {
	h.s.DismissOverlays(ctx)
	e := h.s.expect("home")
	if err := e.visible(ctx, "заголовок hero", h.HeroTitle); err != nil {
		return err
	}
	if err := e.visible(ctx, "подзаголовок hero", h.HeroSubtitle); err != nil {
		return err
	}
	if err := e.visible(ctx, "кнопка Learn how", h.LearnHow); err != nil {
		return err
	}
	if !visible(ctx, h.BookDemo) {
		h.s.log.Info("кнопка Book a demo не видна, проверка пропущена")
	}
	return nil
}

// ValidateMainNavigation проверяет, что каждый пункт меню встречается ровно один раз.
func (h *Home) ValidateMainNavigation(ctx context.Context) error {
	e := h.s.expect("home")
	if err := e.visibleWithin(ctx, "пункт верхнего меню", h.NavItems.First(), h.s.timeouts.Element); err != nil {
		return err
	}
	for _, name := range MainNavigation {
		item := h.NavItems.Filter(regexp.MustCompile(regexp.QuoteMeta(name)))
		if err := e.exactly(ctx, "пункт меню "+name, item, 1); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHeroCTA требует хотя бы одну из кнопок Learn how и Book a demo.
func (h *Home) ValidateHeroCTA(ctx context.Context) error {
	if visible(ctx, h.LearnHow) || visible(ctx, h.BookDemo) {
		return nil
	}
	return h.s.expect("home").fail("кнопка Learn how или Book a demo видна", "", nil)
}

func (h *Home) ClickBookDemo(ctx context.Context) error {
	return h.clickVisible(ctx, h.BookDemo, navigation.URLMatches(regexp.MustCompile(`book-a-demo`)))
}

func (h *Home) ClickLearnHow(ctx context.Context) error {
	return h.clickVisible(ctx, h.LearnHow, navigation.URLMatches(regexp.MustCompile(`/ai`)))
}

func (h *Home) NavigateToIndustries(ctx context.Context) error {
	if err := h.s.Click(ctx, h.IndustriesSolutionsTab); err != nil {
		return err
	}
	return h.s.Click(ctx, h.ExploreIndustries, navigation.URLMatches(regexp.MustCompile(`/industries`)))
}

func (h *Home) NavigateToSolutions(ctx context.Context) error {
	if err := h.s.Click(ctx, h.IndustriesSolutionsTab); err != nil {
		return err
	}
	return h.s.Click(ctx, h.ExploreSolutions, navigation.URLMatches(regexp.MustCompile(`/solutions`)))
}

func (h *Home) clickVisible(ctx context.Context, loc browser.Locator, cond navigation.Condition) error {
	h.s.DismissOverlays(ctx)
	if err := loc.WaitFor(ctx, browser.StateVisible, h.s.timeouts.Element); err != nil {
		return h.s.expect("home").fail(loc.String()+" виден", "", err)
	}
	return h.s.Click(ctx, loc, cond)
}

func (h *Home) ValidateNavigationTabs(ctx context.Context) error {
	e := h.s.expect("home")
	tabs := []struct {
		name string
		loc  browser.Locator
	}{
		{"вкладка Industries & Solutions", h.IndustriesSolutionsTab},
		{"вкладка Orchestrate resources", h.ResourcesTab},
		{"вкладка Our customers", h.CustomersTab},
		{"вкладка Awards", h.AwardsTab},
		{"вкладка Sustainability", h.SustainabilityTab},
	}
	for _, t := range tabs {
		if err := e.visible(ctx, t.name, t.loc); err != nil {
			return err
		}
	}

	if err := h.openTab(ctx, h.ResourcesTab, h.ResourcesHeading, "раздел ресурсов"); err != nil {
		return err
	}
	return h.openTab(ctx, h.CustomersTab, h.CustomersHeading, "раздел клиентов")
}

// openTab кликает вкладку и проверяет, что заголовок раздела в области просмотра.
func (h *Home) openTab(ctx context.Context, tab, heading browser.Locator, what string) error {
	if err := h.s.Click(ctx, tab, navigation.Visible(heading)); err != nil {
		return err
	}
	return h.s.expect("home").inViewport(ctx, what, heading)
}

// ValidateResourcesCarousel листает карусель вперед и назад. Если на
// странице нет кнопок листания, возвращает ErrSkipped.
func (h *Home) ValidateResourcesCarousel(ctx context.Context) error {
	e := h.s.expect("home")
	if err := h.s.Click(ctx, h.ResourcesTab); err != nil {
		return err
	}
	if err := e.visibleWithin(ctx, "слайд карусели", h.ResourcesSlide, h.s.timeouts.Element); err != nil {
		return err
	}
	first, err := h.ResourcesSlide.Text(ctx)
	if err != nil {
		return e.fail("текст слайда", "", err)
	}

	next, prev, ok := h.carouselControls(ctx)
	if !ok {
		h.s.log.Info("в карусели нет кнопок листания", zap.String("area", h.CarouselArea.String()))
		return fmt.Errorf("карусель ресурсов: нет видимых кнопок листания: %w", ErrSkipped)
	}

	after, err := h.turn(ctx, next)
	if err != nil {
		return err
	}
	if after == first {
		return e.fail("смена слайда после next", first, nil)
	}

	back, err := h.turn(ctx, prev)
	if err != nil {
		return err
	}
	if !strings.Contains(back, first) {
		return e.fail("возврат к первому слайду после prev", back, nil)
	}
	return nil
}

func (h *Home) carouselControls(ctx context.Context) (next, prev browser.Locator, ok bool) {
	next, prev = h.ResourcesNext, h.ResourcesPrev
	if visible(ctx, next) || visible(ctx, prev) {
		return next, prev, true
	}
	buttons := h.CarouselArea.Locator(`button, a, [role="button"]`)
	next = buttons.Filter(carouselNext).First()
	prev = buttons.Filter(carouselPrev).First()
	return next, prev, visible(ctx, next) || visible(ctx, prev)
}

func (h *Home) turn(ctx context.Context, control browser.Locator) (string, error) {
	e := h.s.expect("home")
	if err := e.visibleWithin(ctx, "кнопка карусели", control, h.s.timeouts.Element); err != nil {
		return "", err
	}
	if err := navigation.ClickWithFallback(ctx, control); err != nil {
		return "", fmt.Errorf("листание карусели: %w", err)
	}
	if err := h.s.settle(ctx, h.s.timeouts.Settle); err != nil {
		return "", err
	}
	text, err := h.ResourcesSlide.Text(ctx)
	if err != nil {
		return "", e.fail("текст слайда", "", err)
	}
	return text, nil
}

func (h *Home) ValidateCustomerSection(ctx context.Context) error {
	if err := h.openTab(ctx, h.CustomersTab, h.CustomersHeading, "раздел клиентов"); err != nil {
		return err
	}
	e := h.s.expect("home")
	if err := e.visible(ctx, "история клиента", h.CustomerStories.First()); err != nil {
		return err
	}
	return e.atLeast(ctx, "историй клиентов", h.CustomerStories, 1)
}
