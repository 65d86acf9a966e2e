package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"siteE2E/internal/browser"
	"siteE2E/internal/navigation"
)

const defaultLanguage = "English"

// languagePaths - префикс пути каждой поддерживаемой локали.
var languagePaths = map[string]string{
	"English":  "",
	"Français": "/fr",
	"Deutsch":  "/de",
	"Español":  "/es",
}

var localizedPath = regexp.MustCompile(`/(fr|de|es)(/|$)`)

// Languages - проверяемые языки в порядке переключения.
var Languages = []string{"English", "Français", "Deutsch", "Español"}

// LanguagePath возвращает префикс пути языка; для английского он пустой.
func LanguagePath(lang string) (string, error) {
	p, ok := languagePaths[lang]
	if !ok {
		return "", notRecognized("язык", lang)
	}
	return p, nil
}

// LanguageSwitcher - выпадающий список языков в шапке.
type LanguageSwitcher struct {
	Layout

	Button  browser.Locator
	Options browser.Locator
}

func NewLanguageSwitcher(s *Session) *LanguageSwitcher {
	p := s.page
	return &LanguageSwitcher{
		Layout:  newLayout(s),
		Button:  p.ByRole("button", defaultLanguage),
		Options: p.Locator(`a[role="menuitem"], a[role="option"], a`),
	}
}

func (p *LanguageSwitcher) Goto(ctx context.Context) error {
	return p.s.Goto(ctx, "/", navigation.Visible(p.Heading))
}

func (p *LanguageSwitcher) OpenDropdown(ctx context.Context) error {
	p.s.DismissOverlays(ctx)
	if err := p.s.expect("language").visible(ctx, "кнопка выбора языка", p.Button); err != nil {
		return err
	}
	if err := navigation.ClickWithFallback(ctx, p.Button); err != nil {
		return fmt.Errorf("открытие списка языков: %w", err)
	}
	return nil
}

// SelectLanguage выбирает язык и ждет адреса с префиксом его локали.
func (p *LanguageSwitcher) SelectLanguage(ctx context.Context, lang string) error {
	path, err := LanguagePath(lang)
	if err != nil {
		return err
	}
	option := p.s.page.ByRole("link", lang).First()
	if err := p.s.expect("language").visible(ctx, "пункт "+lang, option); err != nil {
		return err
	}

	var cond navigation.Condition
	if path == "" {
		cond = navigation.URLNotMatches(localizedPath)
	} else {
		cond = navigation.URLMatches(regexp.MustCompile(regexp.QuoteMeta(path) + `(/|$|\?|#)`))
	}
	return p.s.Click(ctx, option, cond)
}

func (p *LanguageSwitcher) IsLanguageButtonVisible(ctx context.Context, lang string) bool {
	if lang == "" {
		lang = defaultLanguage
	}
	return visible(ctx, p.s.page.ByRole("button", lang).First())
}

// VisibleLanguages открывает список и возвращает тексты видимых пунктов.
func (p *LanguageSwitcher) VisibleLanguages(ctx context.Context) ([]string, error) {
	if err := p.OpenDropdown(ctx); err != nil {
		return nil, err
	}
	n, err := p.Options.Count(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for i := 0; i < n; i++ {
		opt := p.Options.Nth(i)
		if !visible(ctx, opt) {
			continue
		}
		text, err := opt.Text(ctx)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}
