// Package suite описывает сценарии проверки сайта и запускает их на
// нескольких страницах браузера параллельно.
package suite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"siteE2E/internal/browser"
	"siteE2E/internal/pages"
)

// ErrSkipped - сценарий не применим к текущей версии сайта или отключен.
var ErrSkipped = pages.ErrSkipped

type Group string

const (
	GroupHomepage      Group = "homepage"
	GroupSolutions     Group = "solutions"
	GroupIndustries    Group = "industries"
	GroupSearch        Group = "search"
	GroupContact       Group = "contact"
	GroupLanguage      Group = "language"
	GroupPrivacy       Group = "privacy"
	GroupAccessibility Group = "accessibility"
	GroupResponsive    Group = "responsive"
	GroupDataDriven    Group = "data-driven"
	GroupPerformance   Group = "performance"
	GroupVisual        Group = "visual"
)

// Groups - все группы в порядке запуска.
var Groups = []Group{
	GroupHomepage, GroupSolutions, GroupIndustries, GroupSearch, GroupContact, GroupLanguage,
	GroupPrivacy, GroupAccessibility, GroupResponsive, GroupDataDriven, GroupPerformance, GroupVisual,
}

func ParseGroup(s string) (Group, error) {
	g := Group(s)
	if !slices.Contains(Groups, g) {
		return "", fmt.Errorf("неизвестная группа сценариев %q", s)
	}
	return g, nil
}

type Scenario struct {
	Name  string
	Group Group
	// Viewport страницы; нулевой - десктоп.
	Viewport browser.Viewport
	// Visual - сценарий снимает скриншоты и выполняется только с Options.Visual.
	Visual bool
	// FreshCookies очищает куки перед запуском. Нужен, когда страницы
	// делят один контекст (UserDataDir).
	FreshCookies bool
	// Timeout переопределяет Options.ScenarioTimeout.
	Timeout time.Duration
	Run     func(ctx context.Context, env *Env) error
}

// Registry хранит сценарии в порядке регистрации.
type Registry struct {
	scenarios []Scenario
	names     map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

func (r *Registry) Add(scenarios ...Scenario) error {
	for _, s := range scenarios {
		switch {
		case s.Name == "":
			return errors.New("сценарий без имени")
		case s.Run == nil:
			return fmt.Errorf("сценарий %q без Run", s.Name)
		case !slices.Contains(Groups, s.Group):
			return fmt.Errorf("сценарий %q: неизвестная группа %q", s.Name, s.Group)
		}
		if _, ok := r.names[s.Name]; ok {
			return fmt.Errorf("сценарий %q зарегистрирован дважды", s.Name)
		}
		r.names[s.Name] = struct{}{}
		r.scenarios = append(r.scenarios, s)
	}
	return nil
}

func (r *Registry) MustAdd(scenarios ...Scenario) *Registry {
	if err := r.Add(scenarios...); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) All() []Scenario {
	return slices.Clone(r.scenarios)
}

func (r *Registry) Len() int {
	return len(r.scenarios)
}

// Select возвращает сценарии перечисленных групп; без групп - все.
func (r *Registry) Select(groups ...Group) []Scenario {
	if len(groups) == 0 {
		return r.All()
	}
	var out []Scenario
	for _, s := range r.scenarios {
		if slices.Contains(groups, s.Group) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup ищет сценарий по точному имени.
func (r *Registry) Lookup(name string) (Scenario, bool) {
	for _, s := range r.scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Default - все сценарии сайта.
func Default() *Registry {
	r := NewRegistry()
	r.MustAdd(homepageScenarios()...)
	r.MustAdd(solutionsScenarios()...)
	r.MustAdd(industriesScenarios()...)
	r.MustAdd(searchScenarios()...)
	r.MustAdd(contactScenarios()...)
	r.MustAdd(languageScenarios()...)
	r.MustAdd(privacyScenarios()...)
	r.MustAdd(accessibilityScenarios()...)
	r.MustAdd(responsiveScenarios()...)
	r.MustAdd(dataDrivenScenarios()...)
	r.MustAdd(performanceScenarios()...)
	r.MustAdd(visualScenarios()...)
	return r
}

// skip помечает сценарий пропущенным.
func skip(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSkipped)
}
