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

const carouselPages = 5

var (
	solutionCardNames = regexp.MustCompile(`Enterprise Resource Planning|Enterprise Asset Management|Service Management|Enterprise Service Management|Energy & Resources`)
	readMore          = regexp.MustCompile(`(?i)Read more`)
)

// solutionLink - карточка решения: href-фрагмент и имена, которыми ее зовут.
type solutionLink struct {
	section  string
	fragment string
	names    []string
}

var solutionLinks = []solutionLink{
	{"Enterprise Resource Planning", "enterprise-resource-planning", []string{"enterprise resource planning", "erp"}},
	{"Enterprise Asset Management", "enterprise-asset-management", []string{"enterprise asset management", "eam"}},
	{"Service Management", "field-service-management", []string{"service management", "sm", "field service management"}},
	{"Enterprise Service Management", "enterprise-service-management", []string{"enterprise service management", "esm"}},
	{"Energy & Resources", "energy-and-resources-software", []string{"energy & resources", "energy and resources", "energy & resources software"}},
}

func lookupSolution(name string) (solutionLink, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, l := range solutionLinks {
		for _, n := range l.names {
			if key == n {
				return l, nil
			}
		}
	}
	return solutionLink{}, notRecognized("решение", name)
}

// Solutions - страница /solutions/.
type Solutions struct {
	Layout

	Title    browser.Locator
	Subtitle browser.Locator
	BookDemo browser.Locator

	VideoHeader browser.Locator
	VideoEmbed  browser.Locator

	Cards browser.Locator

	FAQHeader browser.Locator
	FAQList   browser.Locator
	FAQItems  browser.Locator

	FormHeading browser.Locator
	Form        *ContactForm

	AdditionalHeader browser.Locator
	AdditionalCards  browser.Locator

	CarouselNext browser.Locator
}

func NewSolutions(s *Session) *Solutions {
	p := s.page
	faqList := p.Locator(`main h2:has-text("FAQ")`).
		Locator(`xpath=../../following-sibling::div[contains(@class,"accordion")][1]//ul[contains(@class,"items")]`)
	return &Solutions{
		Layout: newLayout(s),

		Title:    p.ByRole("heading", "Industrial AI and enterprise software solutions"),
		Subtitle: p.Locator(`text="For hardcore businesses that service, power, and protect our planet."`),
		BookDemo: p.Locator(`#content a:has-text("Book a demo")`).First(),

		VideoHeader: p.ByRole("heading", "Powering the world’s most demanding industries"),
		VideoEmbed:  p.Locator("main .wistia_embed").First(),

		Cards: p.Locator("main h4").Filter(solutionCardNames),

		FAQHeader: p.ByRole("heading", "FAQ"),
		FAQList:   faqList,
		FAQItems:  faqList.Locator("li.item"),

		FormHeading: p.ByRole("heading", "Get in touch"),
		Form:        newContactForm(p, "main iframe", "Book a Demo", withSolutionInterest()),

		AdditionalHeader: p.ByRole("heading", "Additional information"),
		AdditionalCards:  p.Locator("main a").Filter(readMore),

		CarouselNext: p.Locator(`button[aria-label*="Next"], button:has-text("next")`).First(),
	}
}

// Section - блок карточки решения: родитель родителя заголовка h4.
func (p *Solutions) Section(name string) browser.Locator {
	return p.s.page.Locator(fmt.Sprintf(`main h4:has-text(%q)`, name)).Locator("xpath=../..").First()
}

func (p *Solutions) Goto(ctx context.Context) error {
	return p.s.Goto(ctx, "/solutions/", navigation.Visible(p.Heading))
}

func (p *Solutions) ValidatePageHeader(ctx context.Context) error {
	e := p.s.expect("solutions")
	if err := e.visible(ctx, "заголовок страницы", p.Title); err != nil {
		return err
	}
	if err := e.visible(ctx, "подзаголовок страницы", p.Subtitle); err != nil {
		return err
	}
	return e.visible(ctx, "кнопка Book a demo", p.BookDemo)
}

func (p *Solutions) ValidateVideoSection(ctx context.Context) error {
	p.s.DismissOverlays(ctx)
	e := p.s.expect("solutions")
	if err := e.visible(ctx, "заголовок видео", p.VideoHeader); err != nil {
		return err
	}
	if err := browser.ScrollTo(ctx, p.VideoHeader); err != nil {
		return err
	}
	// плеер подгружается скриптом после прокрутки
	if err := p.s.settle(ctx, 2*p.s.timeouts.Settle); err != nil {
		return err
	}
	if err := e.atLeast(ctx, "встроенное видео", p.VideoEmbed, 1); err != nil {
		return err
	}
	return e.visible(ctx, "встроенное видео", p.VideoEmbed)
}

func (p *Solutions) ValidateSolutionCards(ctx context.Context) error {
	e := p.s.expect("solutions")
	if err := e.atLeast(ctx, "карточек решений", p.Cards, 3); err != nil {
		return err
	}
	for _, l := range solutionLinks {
		if err := e.visible(ctx, "блок "+l.section, p.Section(l.section)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFAQSection проверяет аккордеон и раскрывает первый вопрос.
// Неудачный клик по вопросу только логируется.
func (p *Solutions) ValidateFAQSection(ctx context.Context) error {
	e := p.s.expect("solutions")
	if err := browser.ScrollTo(ctx, p.FAQHeader); err != nil {
		return e.fail("заголовок FAQ", "", err)
	}
	if err := e.visible(ctx, "заголовок FAQ", p.FAQHeader); err != nil {
		return err
	}
	if err := p.s.settle(ctx, 2*p.s.timeouts.Settle); err != nil {
		return err
	}
	if err := e.visible(ctx, "список FAQ", p.FAQList); err != nil {
		return err
	}
	if err := e.atLeast(ctx, "вопросов FAQ", p.FAQItems, 1); err != nil {
		return err
	}

	p.s.DismissOverlays(ctx)
	if err := p.FAQItems.First().Click(ctx, browser.ClickOptions{Force: true}); err != nil {
		p.s.log.Info("не удалось раскрыть вопрос FAQ", zap.Error(err))
		return nil
	}
	return p.s.settle(ctx, p.s.timeouts.Settle)
}

func (p *Solutions) ValidateContactForm(ctx context.Context) error {
	p.s.DismissOverlays(ctx)
	e := p.s.expect("solutions")
	long := p.s.timeouts.Element + p.s.timeouts.Expect
	if err := p.s.page.Locator("iframe").First().WaitFor(ctx, browser.StateAttached, long); err != nil {
		return e.fail("iframe формы", "", err)
	}
	if err := e.visibleWithin(ctx, "поле Business Email", p.Form.Email, long); err != nil {
		return err
	}
	if err := e.visible(ctx, "заголовок формы", p.FormHeading); err != nil {
		return err
	}
	if err := browser.ScrollTo(ctx, p.FormHeading); err != nil {
		return err
	}
	if err := e.visibleWithin(ctx, "iframe формы", p.Form.Frame, p.s.timeouts.Element); err != nil {
		return err
	}
	return p.Form.expectFields(ctx, e)
}

func (p *Solutions) ValidateAdditionalInfo(ctx context.Context) error {
	e := p.s.expect("solutions")
	if err := browser.ScrollTo(ctx, p.AdditionalHeader); err != nil {
		return e.fail("заголовок дополнительной информации", "", err)
	}
	if err := e.visible(ctx, "заголовок дополнительной информации", p.AdditionalHeader); err != nil {
		return err
	}
	return e.atLeast(ctx, "карточек Read more", p.AdditionalCards, 1)
}

// NavigateToSolution переходит по карточке решения. Карточка может
// открыться в новом окне или в текущем; если она скрыта в карусели,
// карусель листается до carouselPages раз.
func (p *Solutions) NavigateToSolution(ctx context.Context, name string) (navigation.Followed, error) {
	link, err := lookupSolution(name)
	if err != nil {
		return navigation.Followed{}, err
	}
	p.s.DismissOverlays(ctx)

	cards := p.s.page.Locator(fmt.Sprintf(`a[href*=%q]`, link.fragment))
	card, ok := firstVisible(ctx, cards)
	for i := 0; !ok && i < carouselPages; i++ {
		if visible(ctx, p.CarouselNext) {
			if err := navigation.ClickWithFallback(ctx, p.CarouselNext); err != nil {
				p.s.log.Debug("карусель не листается", zap.Error(err))
			}
			if err := p.s.settle(ctx, p.s.timeouts.Settle); err != nil {
				return navigation.Followed{}, err
			}
		}
		card, ok = firstVisible(ctx, cards)
	}
	if !ok {
		return navigation.Followed{}, p.s.expect("solutions").fail("видимая карточка решения "+link.section, cards.String(), nil)
	}

	if err := browser.ScrollTo(ctx, card); err != nil {
		return navigation.Followed{}, err
	}
	return p.s.Follow(ctx, card, regexp.MustCompile(regexp.QuoteMeta(link.fragment)))
}

func (p *Solutions) FillContactForm(ctx context.Context, d FormData) error {
	p.s.DismissOverlays(ctx)
	if err := p.s.expect("solutions").visibleWithin(ctx, "iframe формы", p.Form.Frame, p.s.timeouts.Element); err != nil {
		return err
	}
	return p.Form.Fill(ctx, d)
}
