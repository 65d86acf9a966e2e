package suite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"siteE2E/internal/pages"
	"siteE2E/internal/sitedata"
)

// step - одна проверка фасада; сценарий - их последовательность.
type step func(ctx context.Context) error

func sequence(ctx context.Context, steps ...step) error {
	for _, s := range steps {
		if err := s(ctx); err != nil {
			return err
		}
	}
	return nil
}

// layoutSteps - общие проверки шапки и подвала.
func layoutSteps(l pages.Layout) []step {
	return []step{l.ValidateLogo, l.ValidateFooterLinks, l.ValidateSocialMediaLinks}
}

func homepageScenarios() []Scenario {
	on := func(name string, steps func(h *pages.Home) []step) Scenario {
		return Scenario{Name: "homepage/" + name, Group: GroupHomepage, Run: func(ctx context.Context, env *Env) error {
			h := env.Home()
			return sequence(ctx, append([]step{h.Goto}, steps(h)...)...)
		}}
	}
	return []Scenario{
		on("main navigation", func(h *pages.Home) []step {
			return []step{h.ValidateMainNavigation, h.ValidateHeroCTA}
		}),
		on("hero section", func(h *pages.Home) []step {
			return []step{h.ValidateHeroSection}
		}),
		on("header and footer", func(h *pages.Home) []step {
			return layoutSteps(h.Layout)
		}),
		on("navigation tabs", func(h *pages.Home) []step {
			return []step{h.ValidateNavigationTabs}
		}),
		on("resources carousel", func(h *pages.Home) []step {
			return []step{h.ValidateResourcesCarousel}
		}),
		on("customer stories", func(h *pages.Home) []step {
			return []step{h.ValidateCustomerSection}
		}),
		on("learn how", func(h *pages.Home) []step {
			return []step{h.ClickLearnHow}
		}),
		on("book a demo", func(h *pages.Home) []step {
			return []step{func(ctx context.Context) error {
				if ok, err := h.BookDemo.IsVisible(ctx); err != nil || !ok {
					return skip("кнопка Book a demo не показана")
				}
				return h.ClickBookDemo(ctx)
			}}
		}),
		on("explore industries", func(h *pages.Home) []step {
			return []step{h.NavigateToIndustries}
		}),
		on("explore solutions", func(h *pages.Home) []step {
			return []step{h.NavigateToSolutions}
		}),
		on("search link", func(h *pages.Home) []step {
			return []step{h.NavigateToSearch}
		}),
	}
}

// solutionsForm - данные формы на странице решений.
var solutionsForm = pages.FormData{
	Email:     sitedata.ValidContact.Email,
	FirstName: sitedata.ValidContact.FirstName,
	LastName:  sitedata.ValidContact.LastName,
	Company:   sitedata.ValidContact.Company,
	Phone:     sitedata.ValidContact.Phone,
	Country:   sitedata.ValidContact.Country,
	Role:      "Just researching",
	Message:   sitedata.ValidContact.Message,
}

func solutionsScenarios() []Scenario {
	on := func(name string, steps func(p *pages.Solutions) []step) Scenario {
		return Scenario{Name: "solutions/" + name, Group: GroupSolutions, Run: func(ctx context.Context, env *Env) error {
			p := env.Solutions()
			return sequence(ctx, append([]step{p.Goto}, steps(p)...)...)
		}}
	}
	return []Scenario{
		on("page header", func(p *pages.Solutions) []step {
			return append([]step{p.ValidatePageHeader}, layoutSteps(p.Layout)...)
		}),
		on("video", func(p *pages.Solutions) []step {
			return []step{p.ValidateVideoSection}
		}),
		on("solution cards", func(p *pages.Solutions) []step {
			return []step{p.ValidateSolutionCards}
		}),
		on("faq", func(p *pages.Solutions) []step {
			return []step{p.ValidateFAQSection}
		}),
		on("contact form", func(p *pages.Solutions) []step {
			return []step{p.ValidateContactForm}
		}),
		on("additional info", func(p *pages.Solutions) []step {
			return []step{p.ValidateAdditionalInfo}
		}),
		on("fill contact form", func(p *pages.Solutions) []step {
			return []step{
				func(ctx context.Context) error { return p.FillContactForm(ctx, solutionsForm) },
				func(ctx context.Context) error { return p.Form.Verify(ctx, solutionsForm) },
			}
		}),
		on("open solution card", func(p *pages.Solutions) []step {
			return []step{func(ctx context.Context) error {
				followed, err := p.NavigateToSolution(ctx, "ERP")
				if err != nil {
					return err
				}
				if followed.Popup {
					defer followed.Page.Close()
				}
				return nil
			}}
		}),
	}
}

func industriesScenarios() []Scenario {
	on := func(name string, steps func(p *pages.Industries) []step) Scenario {
		return Scenario{Name: "industries/" + name, Group: GroupIndustries, Run: func(ctx context.Context, env *Env) error {
			p := env.Industries()
			return sequence(ctx, append([]step{p.Goto}, steps(p)...)...)
		}}
	}
	form := pages.FormDataFrom(sitedata.ValidContact)
	form.Role = "Just researching"

	scenarios := []Scenario{
		on("page header", func(p *pages.Industries) []step {
			return append([]step{p.ValidatePageHeader}, layoutSteps(p.Layout)...)
		}),
		on("industry experts", func(p *pages.Industries) []step {
			return []step{p.ValidateIndustryExperts}
		}),
		on("industry cards", func(p *pages.Industries) []step {
			return []step{p.ValidateIndustryCards}
		}),
		on("contact form", func(p *pages.Industries) []step {
			return []step{p.ValidateContactForm}
		}),
		on("fill contact form", func(p *pages.Industries) []step {
			return []step{
				func(ctx context.Context) error { return p.FillContactForm(ctx, form) },
				func(ctx context.Context) error { return p.Form.Verify(ctx, form) },
			}
		}),
	}
	for _, name := range []string{"Aerospace & Defense", "Energy Utilities and Resources"} {
		scenarios = append(scenarios, on("open "+name, func(p *pages.Industries) []step {
			return []step{func(ctx context.Context) error { return p.NavigateToIndustry(ctx, name) }}
		}))
	}
	return scenarios
}

func searchScenarios() []Scenario {
	on := func(name string, steps func(p *pages.Search) []step) Scenario {
		return Scenario{Name: "search/" + name, Group: GroupSearch, Run: func(ctx context.Context, env *Env) error {
			p := env.Search()
			return sequence(ctx, append([]step{p.Goto}, steps(p)...)...)
		}}
	}
	query := sitedata.SearchQueries[0]
	return []Scenario{
		on("page header", func(p *pages.Search) []step {
			return append([]step{p.NavigateToSearch, p.ValidatePageHeader}, layoutSteps(p.Layout)...)
		}),
		on("product sections", func(p *pages.Search) []step {
			return []step{p.NavigateToSearch, p.ValidateProductSolutionsSection, p.ValidateLookingElseSection, p.ValidateCommunitySection}
		}),
		on("results", func(p *pages.Search) []step {
			return []step{
				func(ctx context.Context) error { return p.PerformSearch(ctx, query.Query, true) },
				func(ctx context.Context) error { return p.ValidateSearchResults(ctx, true) },
			}
		}),
		{
			Name:  "search/pagination",
			Group: GroupSearch,
			Run: func(ctx context.Context, env *Env) error {
				p := env.Search()
				if err := sequence(ctx, p.Goto, func(ctx context.Context) error {
					return p.PerformSearch(ctx, query.Query, true)
				}); err != nil {
					return err
				}
				// пагинация на сайте нестабильна: ее сбой только логируется
				if err := p.ValidatePagination(ctx); err != nil {
					env.Log.Warn("пагинация поиска", zap.Error(err))
				}
				return nil
			},
		},
		on("clear", func(p *pages.Search) []step {
			return []step{
				func(ctx context.Context) error { return p.PerformSearch(ctx, query.Query, true) },
				p.ClearSearch,
			}
		}),
	}
}

func contactScenarios() []Scenario {
	on := func(name string, steps func(p *pages.Contact) []step) Scenario {
		return Scenario{Name: "contact/" + name, Group: GroupContact, Run: func(ctx context.Context, env *Env) error {
			p := env.Contact()
			return sequence(ctx, append([]step{p.Goto}, steps(p)...)...)
		}}
	}
	form := pages.FormDataFrom(sitedata.ValidContact)
	form.Country = "Sri Lanka"
	form.Role = "Just researching"

	return []Scenario{
		on("page header", func(p *pages.Contact) []step {
			return append([]step{p.ValidatePageHeader, p.ValidateActiveTab}, layoutSteps(p.Layout)...)
		}),
		on("footer hrefs", func(p *pages.Contact) []step {
			return []step{p.ValidateFooterHrefs, p.ValidateSocialHrefs}
		}),
		on("contact form", func(p *pages.Contact) []step {
			return []step{p.ValidateContactForm}
		}),
		on("fill contact form", func(p *pages.Contact) []step {
			return []step{
				func(ctx context.Context) error { return p.FillContactForm(ctx, form) },
				func(ctx context.Context) error { return p.Form.Verify(ctx, form) },
			}
		}),
		on("form validation", func(p *pages.Contact) []step {
			return []step{p.ValidateFormValidation}
		}),
		on("country contacts tab", func(p *pages.Contact) []step {
			return []step{p.SwitchToCountryContacts}
		}),
		on("awards", func(p *pages.Contact) []step {
			return []step{p.ValidateAwards}
		}),
	}
}

const minLanguages = 4

func languageScenarios() []Scenario {
	scenarios := []Scenario{{
		Name:  "language/options",
		Group: GroupLanguage,
		Run: func(ctx context.Context, env *Env) error {
			p := env.Language()
			if err := p.Goto(ctx); err != nil {
				return err
			}
			langs, err := p.VisibleLanguages(ctx)
			if err != nil {
				return err
			}
			if len(langs) < minLanguages {
				return &pages.AssertionError{
					Page:        "language",
					Expectation: fmt.Sprintf("не меньше %d языков в списке", minLanguages),
					Detail:      fmt.Sprintf("найдено %d: %v", len(langs), langs),
				}
			}
			return nil
		},
	}}

	// Каждый язык - отдельный сценарий со свежей страницей: после
	// переключения кнопка называется по-новому.
	for _, lang := range pages.Languages {
		scenarios = append(scenarios, Scenario{
			Name:  "language/switch to " + lang,
			Group: GroupLanguage,
			Run: func(ctx context.Context, env *Env) error {
				p := env.Language()
				if err := sequence(ctx, p.Goto, p.OpenDropdown); err != nil {
					return err
				}
				if err := p.SelectLanguage(ctx, lang); err != nil {
					return err
				}
				if !p.IsLanguageButtonVisible(ctx, lang) {
					return &pages.AssertionError{Page: "language", Expectation: "кнопка языка " + lang + " видна"}
				}
				return nil
			},
		})
	}
	return scenarios
}
