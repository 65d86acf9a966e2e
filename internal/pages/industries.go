package pages

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
	"siteE2E/internal/sitedata"
)

const industryCardCount = 6

var industryCardNames = regexp.MustCompile(`Aerospace|Energy|Construction|Manufacturing|Service Industries|Telecommunications`)

// Industries - страница /industries/.
type Industries struct {
	Layout

	Title    browser.Locator
	Subtitle browser.Locator
	Experts  browser.Locator
	Cards    browser.Locator

	FormHeading browser.Locator
	Form        *ContactForm
}

func NewIndustries(s *Session) *Industries {
	p := s.page
	return &Industries{
		Layout: newLayout(s),

		Title:    p.Locator(`main h1:has-text("Enhanced Industry Functionality")`),
		Subtitle: p.Locator(`main p:has-text("The best-of-breed functionality")`),
		Experts:  p.Locator(`main h4:has-text("We are industry experts")`),
		Cards:    p.Locator("main h4").Filter(industryCardNames),

		FormHeading: p.Locator(`h2:has-text("Get in touch")`),
		Form:        newContactForm(p, "#content iframe", "Contact Us", withRole()),
	}
}

// Section - блок отрасли: родитель родителя заголовка h4.
func (p *Industries) Section(name string) browser.Locator {
	return p.s.page.Locator(fmt.Sprintf(`main h4:has-text(%q)`, name)).Locator("xpath=../..").First()
}

func (p *Industries) Goto(ctx context.Context) error {
	return p.s.Goto(ctx, "/industries/", navigation.Visible(p.Heading))
}

func (p *Industries) ValidatePageHeader(ctx context.Context) error {
	e := p.s.expect("industries")
	if err := e.visible(ctx, "заголовок страницы", p.Title); err != nil {
		return err
	}
	return e.visible(ctx, "подзаголовок страницы", p.Subtitle)
}

func (p *Industries) ValidateIndustryExperts(ctx context.Context) error {
	return p.s.expect("industries").visible(ctx, "блок We are industry experts", p.Experts)
}

func (p *Industries) ValidateIndustryCards(ctx context.Context) error {
	e := p.s.expect("industries")
	if err := e.exactly(ctx, "карточек отраслей", p.Cards, industryCardCount); err != nil {
		return err
	}
	for _, ind := range sitedata.Industries {
		if err := e.visible(ctx, "блок "+ind.Name, p.Section(ind.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Industries) ValidateContactForm(ctx context.Context) error {
	e := p.s.expect("industries")
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

// NavigateToIndustry переходит по ссылке из блока отрасли и ждет URL
// страницы этой отрасли.
func (p *Industries) NavigateToIndustry(ctx context.Context, name string) error {
	ind, err := sitedata.IndustryByName(name)
	if errors.Is(err, sitedata.ErrNotFound) {
		return notRecognized("отрасль", name)
	}
	if err != nil {
		return err
	}

	link := p.Section(ind.Name).
		Locator(`a:has-text("Learn more"), a:has-text("Discover now"), a:has-text("Read more")`).
		First()
	return p.s.Click(ctx, link, navigation.URLMatches(regexp.MustCompile(regexp.QuoteMeta(ind.Path))))
}

func (p *Industries) FillContactForm(ctx context.Context, d FormData) error {
	p.s.DismissOverlays(ctx)
	long := 2 * p.s.timeouts.Element
	if err := p.s.expect("industries").visibleWithin(ctx, "iframe формы", p.Form.Frame, long); err != nil {
		return err
	}
	return p.Form.Fill(ctx, d)
}
