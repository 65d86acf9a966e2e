package pages

import (
	"context"
	"fmt"
	"regexp"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
)

const contactFrame = "#contact-tabs iframe"

var (
	activeClass     = regexp.MustCompile(`\bactive\b`)
	contactUsText   = regexp.MustCompile(`Contact us`)
	countryContacts = regexp.MustCompile(`Country contacts`)
)

// Contact - страница /contact-us с формой во вкладке.
type Contact struct {
	Layout

	Title        browser.Locator
	ContactUsTab browser.Locator
	CountryTab   browser.Locator
	Intro        browser.Locator
	Form         *ContactForm
	Awards       browser.Locator

	firstFrameInput browser.Locator
}

func NewContact(s *Session) *Contact {
	p := s.page
	tabs := p.Locator("#contact-tabs li")
	return &Contact{
		Layout: newLayout(s),

		Title:           p.Locator(`h1:has-text("Contact us")`),
		ContactUsTab:    tabs.Filter(contactUsText).First(),
		CountryTab:      tabs.Filter(countryContacts).First(),
		Intro:           p.Locator(`p:has-text("The easiest and fastest way to get in touch")`),
		Form:            newContactForm(p, contactFrame, "Contact Us", withRole()),
		Awards:          p.Locator(`img[src*="gartner"], img[src*="customer_choice"]`),
		firstFrameInput: p.Frame(contactFrame).Locator("input").First(),
	}
}

// Goto открывает страницу и ждет, пока в iframe формы появятся поля.
func (p *Contact) Goto(ctx context.Context) error {
	return p.s.Goto(ctx, "/contact-us", navigation.Visible(p.firstFrameInput))
}

func (p *Contact) ValidatePageHeader(ctx context.Context) error {
	e := p.s.expect("contact")
	if err := e.visible(ctx, "заголовок Contact us", p.Title); err != nil {
		return err
	}
	if err := e.visible(ctx, "вкладка Contact us", p.ContactUsTab); err != nil {
		return err
	}
	return e.visible(ctx, "вкладка Country contacts", p.CountryTab)
}

func (p *Contact) ValidateContactForm(ctx context.Context) error {
	e := p.s.expect("contact")
	if err := e.visible(ctx, "вступление к форме", p.Intro); err != nil {
		return err
	}
	return p.Form.expectFields(ctx, e)
}

// ValidateActiveTab проверяет, что вкладка Contact us выбрана.
func (p *Contact) ValidateActiveTab(ctx context.Context) error {
	return p.s.expect("contact").attribute(ctx, "вкладка Contact us активна", p.ContactUsTab, "class", activeClass)
}

func (p *Contact) SwitchToCountryContacts(ctx context.Context) error {
	if err := p.s.Click(ctx, p.CountryTab); err != nil {
		return fmt.Errorf("вкладка Country contacts: %w", err)
	}
	return p.s.expect("contact").attribute(ctx, "вкладка Country contacts активна", p.CountryTab, "class", activeClass)
}

func (p *Contact) FillContactForm(ctx context.Context, d FormData) error {
	return p.Form.Fill(ctx, d)
}

// ValidateFormValidation отправляет пустую форму и проверяет, что
// страница осталась на месте вместе с формой.
func (p *Contact) ValidateFormValidation(ctx context.Context) error {
	if err := p.Form.clear(ctx); err != nil {
		return fmt.Errorf("очистка формы: %w", err)
	}
	if err := navigation.ClickWithFallback(ctx, p.Form.Submit); err != nil {
		return fmt.Errorf("отправка пустой формы: %w", err)
	}
	e := p.s.expect("contact")
	if err := e.visible(ctx, "заголовок после отправки пустой формы", p.Title); err != nil {
		return err
	}
	return e.visible(ctx, "поле Business Email после отправки пустой формы", p.Form.Email)
}

// ValidateFormReachable - короткая проверка для узких экранов: заголовок и
// первое поле формы видны.
func (p *Contact) ValidateFormReachable(ctx context.Context) error {
	e := p.s.expect("contact")
	if err := e.visible(ctx, "заголовок Contact us", p.Title); err != nil {
		return err
	}
	return e.visible(ctx, "поле First Name", p.Form.Field("firstName"))
}

func (p *Contact) ValidateAwards(ctx context.Context) error {
	e := p.s.expect("contact")
	if err := e.visible(ctx, "изображение награды", p.Awards.First()); err != nil {
		return err
	}
	return e.atLeast(ctx, "изображений наград", p.Awards, 1)
}
