package overlay

import (
	"regexp"
	"time"

	"siteE2E/internal/browser"
)

const (
	DefaultDetectTimeout   = 2 * time.Second
	DefaultClickTimeout    = 2 * time.Second
	DefaultFallbackTimeout = time.Second
	DefaultSettleTimeout   = 10 * time.Second
	// DefaultDetectorTimeout ограничивает вызов внешнего Detector.
	DefaultDetectorTimeout = 3 * time.Second
)

// dialogButtons - кнопки внутри открытых модальных окон.
const dialogButtons = "[role='dialog'] button, [aria-modal='true'] button, .modal.show button"

// Control - элемент, клик по которому закрывает оверлей. Ищется по
// селектору, а если он пуст - по роли и имени.
type Control struct {
	Name     string
	Selector string
	Role     string
	// Text сужает найденные элементы по тексту.
	Text *regexp.Regexp
}

func (c Control) locate(page browser.Page) browser.Locator {
	var loc browser.Locator
	if c.Selector != "" {
		loc = page.Locator(c.Selector)
	} else {
		loc = page.ByRole(c.Role, c.Name)
	}
	if c.Text != nil {
		loc = loc.Filter(c.Text)
	}
	return loc
}

func (c Control) String() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Selector
}

// Descriptor описывает блокирующий оверлей: чем он закрывается, какие
// корневые элементы должны исчезнуть и сколько на все это ждать.
type Descriptor struct {
	Name string
	// Controls перебираются по приоритету: первый видимый и доступный побеждает.
	Controls []Control
	Roots    []string
	// All закрывает все видимые совпадения, а не только первое.
	All bool
	// Hide разрешает скрыть корни скриптом, если клики не помогли.
	Hide bool

	DetectTimeout   time.Duration
	ClickTimeout    time.Duration
	FallbackTimeout time.Duration
	SettleTimeout   time.Duration
}

func (d Descriptor) withDefaults() Descriptor {
	if d.DetectTimeout == 0 {
		d.DetectTimeout = DefaultDetectTimeout
	}
	if d.ClickTimeout == 0 {
		d.ClickTimeout = DefaultClickTimeout
	}
	if d.FallbackTimeout == 0 {
		d.FallbackTimeout = DefaultFallbackTimeout
	}
	if d.SettleTimeout == 0 {
		d.SettleTimeout = DefaultSettleTimeout
	}
	return d
}

// CookieConsent - баннер OneTrust: сначала "Accept All Cookies", затем "Reject All".
func CookieConsent() Descriptor {
	return Descriptor{
		Name: "cookie-consent",
		Controls: []Control{
			{Name: "Accept All Cookies", Role: "button"},
			{Name: "Reject All", Role: "button"},
		},
		Roots:         []string{"#onetrust-consent-sdk", ".onetrust-pc-dark-filter"},
		Hide:          true,
		DetectTimeout: 3 * time.Second,
	}
}

func Chatbot() Descriptor {
	const poke = `button[aria-label="Dismiss chatbot poke message"]`
	return Descriptor{
		Name:          "chatbot",
		Controls:      []Control{{Name: "Dismiss chatbot poke message", Selector: poke}},
		Roots:         []string{poke},
		DetectTimeout: 3 * time.Second,
	}
}

// GenericDialog закрывает модальные окна с кнопкой "Close" или крестиком.
func GenericDialog() Descriptor {
	return Descriptor{
		Name: "dialog",
		Controls: []Control{
			{Name: "Close", Selector: dialogButtons, Text: regexp.MustCompile(`(?i)^\s*close\s*$`)},
			{Selector: "[role='dialog'] button[aria-label*='close' i]"},
			{Selector: "[aria-modal='true'] button[aria-label*='close' i]"},
			{Selector: ".modal.show [data-dismiss='modal']"},
			{Selector: ".modal.show button.close"},
		},
		All:           true,
		SettleTimeout: 2 * time.Second,
	}
}

// Defaults - встроенные оверлеи в порядке приоритета.
func Defaults() []Descriptor {
	return []Descriptor{CookieConsent(), Chatbot(), GenericDialog()}
}
