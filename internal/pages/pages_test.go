package pages_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"siteE2E/internal/browser/browsertest"
	"siteE2E/internal/navigation"
	"siteE2E/internal/overlay"
	"siteE2E/internal/pages"
)

const base = "https://www.ifs.com"

func fastSession(t testing.TB, page *browsertest.Page) *pages.Session {
	log := zaptest.NewLogger(t)
	d := overlay.New(log)
	g := navigation.New(d, log,
		navigation.WithReadyTimeout(200*time.Millisecond),
		navigation.WithRetryDelay(5*time.Millisecond),
	)
	return pages.NewSession(page, d, g, log, pages.WithTimeouts(pages.Timeouts{
		Expect:  100 * time.Millisecond,
		Element: 100 * time.Millisecond,
		Results: 200 * time.Millisecond,
		Settle:  time.Millisecond,
	}))
}

func elements(n int) []*browsertest.Element {
	out := make([]*browsertest.Element, n)
	for i := range out {
		out[i] = browsertest.NewElement().WithAttr("href", fmt.Sprintf("https://www.ifs.com/l%d", i))
	}
	return out
}

func sectionKey(name string) string {
	return browsertest.ChildKey(fmt.Sprintf(`main h4:has-text(%q)`, name), "xpath=../..")
}

// inViewport отвечает true на проверку области просмотра.
func inViewport(_ *browsertest.Page, script string, _ any) (any, error) {
	if strings.Contains(script, "getBoundingClientRect") {
		return true, nil
	}
	return nil, nil
}

func TestSession_URL(t *testing.T) {
	s := pages.NewSession(browsertest.New("about:blank"), nil, nil, nil, pages.WithBaseURL("https://staging.ifs.com/"))
	assert.Equal(t, "https://staging.ifs.com/search", s.URL("/search"))
	assert.Equal(t, "https://staging.ifs.com/fr", s.URL("fr"))
	assert.Equal(t, "https://other.example/x", s.URL("https://other.example/x"))
}

func TestSession_ClickDismissesFirst(t *testing.T) {
	page := browsertest.New(base + "/")
	accept := browsertest.NewElement()
	accept.OnClick = func(p *browsertest.Page) { p.Hide(browsertest.RoleKey("button", "Accept All Cookies")) }
	page.Add(browsertest.RoleKey("button", "Accept All Cookies"), accept)
	link := browsertest.NewElement()
	page.Add("a.target", link)

	s := fastSession(t, page)
	require.NoError(t, s.Click(context.Background(), page.Locator("a.target")))
	assert.Equal(t, 1, accept.Clicks)
	assert.Equal(t, 1, link.Clicks)
}

func TestLayout_FooterLinks(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add("footer a:visible", elements(8)...)
	home := pages.NewHome(fastSession(t, page))
	require.NoError(t, home.ValidateFooterLinks(context.Background()))

	page.Remove("footer a:visible")
	page.Add("footer a:visible", elements(7)...)
	err := home.ValidateFooterLinks(context.Background())
	require.Error(t, err)
	assert.True(t, pages.IsAssertion(err))
	assert.Contains(t, err.Error(), "найдено 7")
}

func TestLayout_LogoIsSoft(t *testing.T) {
	page := browsertest.New(base + "/")
	home := pages.NewHome(fastSession(t, page))
	assert.NoError(t, home.ValidateLogo(context.Background()))
}

func TestLayout_SocialHrefs(t *testing.T) {
	page := browsertest.New(base + "/contact-us")
	contact := pages.NewContact(fastSession(t, page))
	social := `footer a[href*="facebook"], footer a[href*="twitter"], footer a[href*="linkedin"], footer a[href*="instagram"]`
	page.Add(social,
		browsertest.NewElement().WithAttr("href", "https://www.linkedin.com/company/ifs"),
		browsertest.NewElement().WithAttr("href", "/twitter"),
	)

	err := contact.ValidateSocialHrefs(context.Background())
	require.Error(t, err)
	var ae *pages.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "/twitter", ae.Detail)
}

func TestLayout_FooterHrefs(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add("footer a", elements(3)...)
	layout := pages.NewHome(fastSession(t, page))
	require.NoError(t, layout.ValidateFooterHrefs(context.Background()))

	page.Add("footer a", browsertest.NewElement())
	assert.True(t, pages.IsAssertion(layout.ValidateFooterHrefs(context.Background())))
}

func TestLayout_MobileMenu(t *testing.T) {
	page := browsertest.New(base + "/")
	const links = ".ma5menu__panel--active a:not(.ma5menu__btn--enter):visible"
	page.Add(links, browsertest.NewElement().Hidden())
	menu := browsertest.NewElement()
	open := false
	menu.OnClick = func(p *browsertest.Page) {
		open = !open
		if open {
			p.Show(links)
		} else {
			p.Hide(links)
		}
	}
	page.Add(`a:has-text("Menu")`, menu)

	home := pages.NewHome(fastSession(t, page))
	ctx := context.Background()
	require.NoError(t, home.OpenMobileMenu(ctx))
	require.NoError(t, home.OpenMobileMenu(ctx))
	assert.Equal(t, 1, menu.Clicks)

	require.NoError(t, home.CloseMobileMenu(ctx))
	assert.Equal(t, 2, menu.Clicks)
}

func heroPage() *browsertest.Page {
	page := browsertest.New(base + "/")
	page.Add(`h1:has-text("Industrial AI")`, browsertest.NewElement())
	page.Add(`h5:has-text("Industrial AI is revolutionizing")`, browsertest.NewElement())
	page.Add(`a[href*="/ai"]:has-text("Learn how")`, browsertest.NewElement())
	return page
}

func TestHome_HeroSectionBookDemoOptional(t *testing.T) {
	home := pages.NewHome(fastSession(t, heroPage()))
	assert.NoError(t, home.ValidateHeroSection(context.Background()))
}

func TestHome_HeroSectionMissingSubtitle(t *testing.T) {
	page := heroPage()
	page.Remove(`h5:has-text("Industrial AI is revolutionizing")`)
	home := pages.NewHome(fastSession(t, page))

	err := home.ValidateHeroSection(context.Background())
	var ae *pages.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "home", ae.Page)
	assert.Contains(t, ae.Expectation, "подзаголовок")
}

func TestHome_NavigationTabs(t *testing.T) {
	page := browsertest.New(base + "/")
	page.OnEvaluate = inViewport
	for _, id := range []string{"IndustriesSolutions", "AwardsAccolades", "Sustainabilitycorner"} {
		page.Add(fmt.Sprintf(`a[href="#%s"]`, id), browsertest.NewElement())
	}
	resources := browsertest.NewElement()
	resources.OnClick = func(p *browsertest.Page) {
		p.Add(`h2:has-text("Orchestrate your resources")`, browsertest.NewElement())
	}
	page.Add(`a[href="#OrchestrateResources"]`, resources)
	customers := browsertest.NewElement()
	customers.OnClick = func(p *browsertest.Page) {
		p.Add(`h2:has-text("Hear from our customers")`, browsertest.NewElement())
	}
	page.Add(`a[href="#OurCustomers"]`, customers)

	home := pages.NewHome(fastSession(t, page))
	require.NoError(t, home.ValidateNavigationTabs(context.Background()))
	assert.Equal(t, 1, resources.Clicks)
	assert.Equal(t, 1, customers.Clicks)
}

func TestHome_CarouselWithoutControlsIsSkipped(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add(`a[href="#OrchestrateResources"]`, browsertest.NewElement())
	page.Add(`.carousel-item:visible, [class*="slide"]:visible, [data-carousel-item]:visible`,
		browsertest.NewElement().WithText("Slide 1"))

	home := pages.NewHome(fastSession(t, page))
	err := home.ValidateResourcesCarousel(context.Background())
	assert.ErrorIs(t, err, pages.ErrSkipped)
	assert.False(t, pages.IsAssertion(err))
}

func TestHome_CarouselTurns(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add(`a[href="#OrchestrateResources"]`, browsertest.NewElement())
	slide := browsertest.NewElement().WithText("Slide 1")
	page.Add(`.carousel-item:visible, [class*="slide"]:visible, [data-carousel-item]:visible`, slide)

	next := browsertest.NewElement()
	next.OnClick = func(p *browsertest.Page) { p.Update(func() { slide.Text = "Slide 2" }) }
	prev := browsertest.NewElement()
	prev.OnClick = func(p *browsertest.Page) { p.Update(func() { slide.Text = "Slide 1" }) }
	page.Add(".promo-card-next", next)
	page.Add(".promo-card-prev", prev)

	home := pages.NewHome(fastSession(t, page))
	require.NoError(t, home.ValidateResourcesCarousel(context.Background()))
	assert.Equal(t, 1, next.Clicks)
	assert.Equal(t, 1, prev.Clicks)
}

func TestHome_CarouselStuck(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add(`a[href="#OrchestrateResources"]`, browsertest.NewElement())
	page.Add(`.carousel-item:visible, [class*="slide"]:visible, [data-carousel-item]:visible`,
		browsertest.NewElement().WithText("Slide 1"))
	page.Add(".promo-card-next", browsertest.NewElement())
	page.Add(".promo-card-prev", browsertest.NewElement())

	home := pages.NewHome(fastSession(t, page))
	err := home.ValidateResourcesCarousel(context.Background())
	assert.True(t, pages.IsAssertion(err))
}

func TestHome_ClickLearnHowWaitsForURL(t *testing.T) {
	page := heroPage()
	link := browsertest.NewElement()
	link.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/ai") }
	page.Remove(`a[href*="/ai"]:has-text("Learn how")`)
	page.Add(`a[href*="/ai"]:has-text("Learn how")`, link)

	home := pages.NewHome(fastSession(t, page))
	require.NoError(t, home.ClickLearnHow(context.Background()))
	assert.Equal(t, base+"/ai", page.URL())
}

func TestSolutions_NavigateUnknown(t *testing.T) {
	solutions := pages.NewSolutions(fastSession(t, browsertest.New(base+"/solutions/")))
	_, err := solutions.NavigateToSolution(context.Background(), "CRM")
	assert.ErrorIs(t, err, pages.ErrNotRecognized)
}

func TestSolutions_NavigateScrollsCarousel(t *testing.T) {
	page := browsertest.New(base + "/solutions/")
	cardKey := `a[href*="enterprise-asset-management"]`
	card := browsertest.NewElement().Hidden()
	card.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/solutions/enterprise-asset-management") }
	page.Add(cardKey, card)

	next := browsertest.NewElement()
	turns := 0
	next.OnClick = func(p *browsertest.Page) {
		turns++
		if turns == 2 {
			p.Show(cardKey)
		}
	}
	page.Add(`button[aria-label*="Next"], button:has-text("next")`, next)

	solutions := pages.NewSolutions(fastSession(t, page))
	got, err := solutions.NavigateToSolution(context.Background(), "EAM")
	require.NoError(t, err)
	assert.False(t, got.Popup)
	assert.Equal(t, 2, next.Clicks)
	assert.Equal(t, 1, card.Scrolls)
}

func TestSolutions_NavigateCardNeverVisible(t *testing.T) {
	page := browsertest.New(base + "/solutions/")
	page.Add(`a[href*="enterprise-resource-planning"]`, browsertest.NewElement().Hidden())
	next := browsertest.NewElement()
	page.Add(`button[aria-label*="Next"], button:has-text("next")`, next)

	solutions := pages.NewSolutions(fastSession(t, page))
	_, err := solutions.NavigateToSolution(context.Background(), "erp")
	assert.True(t, pages.IsAssertion(err))
	assert.Equal(t, 5, next.Clicks)
}

func TestSolutions_NavigatePopup(t *testing.T) {
	page := browsertest.New(base + "/solutions/")
	child := browsertest.New(base + "/solutions/field-service-management")
	card := browsertest.NewElement().WithAttr("target", "_blank")
	card.OnClick = func(p *browsertest.Page) { p.OpenPopup(child) }
	page.Add(`a[href*="field-service-management"]`, card)

	solutions := pages.NewSolutions(fastSession(t, page))
	got, err := solutions.NavigateToSolution(context.Background(), "Service Management")
	require.NoError(t, err)
	assert.True(t, got.Popup)
	assert.Same(t, child, got.Page)
}

func industryCards(page *browsertest.Page, n int) {
	names := []string{"Aerospace & Defense", "Energy Utilities and Resources", "Construction and Engineering",
		"Manufacturing", "Service Industries", "Telecommunications"}
	for i := 0; i < n; i++ {
		page.Add("main h4", browsertest.NewElement().WithText(names[i]))
		page.Add(sectionKey(names[i]), browsertest.NewElement())
	}
}

func TestIndustries_Cards(t *testing.T) {
	page := browsertest.New(base + "/industries/")
	industryCards(page, 6)
	page.Add("main h4", browsertest.NewElement().WithText("We are industry experts"))

	industries := pages.NewIndustries(fastSession(t, page))
	require.NoError(t, industries.ValidateIndustryCards(context.Background()))
}

func TestIndustries_CardsMissing(t *testing.T) {
	page := browsertest.New(base + "/industries/")
	industryCards(page, 5)

	industries := pages.NewIndustries(fastSession(t, page))
	err := industries.ValidateIndustryCards(context.Background())
	var ae *pages.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Expectation, "ровно 6")
	assert.Equal(t, "найдено 5", ae.Detail)
}

func TestIndustries_NavigateToIndustry(t *testing.T) {
	page := browsertest.New(base + "/industries/")
	link := browsertest.NewElement()
	link.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/industries/aerospace-and-defense") }
	section := browsertest.NewElement().
		Child(`a:has-text("Learn more"), a:has-text("Discover now"), a:has-text("Read more")`, link)
	page.Add(sectionKey("Aerospace & Defense"), section)

	industries := pages.NewIndustries(fastSession(t, page))
	require.NoError(t, industries.NavigateToIndustry(context.Background(), "aerospace and defense"))
	assert.Equal(t, 1, link.Clicks)

	err := industries.NavigateToIndustry(context.Background(), "Retail")
	assert.ErrorIs(t, err, pages.ErrNotRecognized)
}

func TestIndustries_BrokenLinkFailsWithPattern(t *testing.T) {
	page := browsertest.New(base + "/industries/")
	link := browsertest.NewElement()
	link.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/404") }
	section := browsertest.NewElement().
		Child(`a:has-text("Learn more"), a:has-text("Discover now"), a:has-text("Read more")`, link)
	page.Add(sectionKey("Telecommunications"), section)

	industries := pages.NewIndustries(fastSession(t, page))
	err := industries.NavigateToIndustry(context.Background(), "Telecommunications")
	require.ErrorIs(t, err, navigation.ErrNotReady)
	assert.Contains(t, err.Error(), "/industries/telecommunications")
	assert.False(t, pages.IsAssertion(err))
	assert.Equal(t, 3, link.Clicks)
}

func searchPage(withResults bool) *browsertest.Page {
	page := browsertest.New(base + "/")
	icon := browsertest.NewElement()
	icon.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/search") }
	page.Add(".searchIcon > a", icon)
	page.Add(browsertest.RoleKey("textbox", "Search"), browsertest.NewElement())
	button := browsertest.NewElement()
	button.OnClick = func(p *browsertest.Page) {
		if withResults {
			p.Add(".card-searchstudio-js-custom .card-searchstudio-js-title a.stretched-link",
				browsertest.NewElement().WithText("IFS Cloud"))
		}
	}
	page.Add(browsertest.RoleKey("button", "Search"), button)
	return page
}

func TestSearch_PerformSearch(t *testing.T) {
	page := searchPage(true)
	search := pages.NewSearch(fastSession(t, page))

	require.NoError(t, search.PerformSearch(context.Background(), "cloud", true))
	assert.Equal(t, base+"/search", page.URL())

	input, err := search.Input.InputValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cloud", input)

	page.Add("main h2, main h3", browsertest.NewElement())
	assert.NoError(t, search.ValidateSearchResults(context.Background(), true))
}

func TestSearch_NeitherResultsNorHeading(t *testing.T) {
	search := pages.NewSearch(fastSession(t, searchPage(false)))
	err := search.PerformSearch(context.Background(), "zzzz", true)
	assert.ErrorIs(t, err, navigation.ErrNoOutcome)
	assert.Contains(t, err.Error(), "zzzz")
}

func TestSearch_OptionalSectionsAbsent(t *testing.T) {
	search := pages.NewSearch(fastSession(t, browsertest.New(base+"/search")))
	ctx := context.Background()
	assert.NoError(t, search.ValidateProductSolutionsSection(ctx))
	assert.NoError(t, search.ValidateLookingElseSection(ctx))
	assert.NoError(t, search.ValidateCommunitySection(ctx))
	assert.NoError(t, search.ValidatePagination(ctx))
}

func TestSearch_OptionalSectionPresentButEmpty(t *testing.T) {
	page := browsertest.New(base + "/search")
	page.Add(`main h2:has-text("Products")`, browsertest.NewElement())
	search := pages.NewSearch(fastSession(t, page))
	assert.True(t, pages.IsAssertion(search.ValidateProductSolutionsSection(context.Background())))
}

const contactFrame = "#contact-tabs iframe"

func contactPage() (*browsertest.Page, map[string]*browsertest.Element) {
	page := browsertest.New(base + "/contact-us")
	page.Add(`h1:has-text("Contact us")`, browsertest.NewElement())
	fields := map[string]*browsertest.Element{}
	for _, label := range []string{"Business Email", "First Name", "Last Name", "Company", "Phone Number",
		"I am...", "Country", "Message", "Please tick if you would"} {
		el := browsertest.NewElement()
		fields[label] = el
		page.Add(browsertest.FrameKey(contactFrame, browsertest.LabelKey(label)), el)
	}
	page.Add(browsertest.FrameKey(contactFrame, browsertest.RoleKey("button", "Contact Us")), browsertest.NewElement())
	page.Add(browsertest.FrameKey(contactFrame, "input"), browsertest.NewElement())
	page.Add(contactFrame, browsertest.NewElement())
	return page, fields
}

func TestContact_GotoWaitsForFrameInput(t *testing.T) {
	page, _ := contactPage()
	contact := pages.NewContact(fastSession(t, page))
	require.NoError(t, contact.Goto(context.Background()))
	assert.Equal(t, []string{base + "/contact-us"}, page.Gotos())
}

func TestContact_FillForm(t *testing.T) {
	page, fields := contactPage()
	contact := pages.NewContact(fastSession(t, page))
	data := pages.FormData{
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
		Country:   "Sri Lanka",
		Role:      "Just researching",
		Consent:   true,
	}

	require.NoError(t, contact.FillContactForm(context.Background(), data))
	assert.Equal(t, []string{"test@example.com"}, fields["Business Email"].Filled)
	assert.Equal(t, []string{"Sri Lanka"}, fields["Country"].Selected)
	assert.Equal(t, []string{"Just researching"}, fields["I am..."].Selected)
	assert.True(t, fields["Please tick if you would"].Checked)
	assert.Empty(t, fields["Company"].Filled)

	values, err := contact.Form.Values(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Test", values["firstName"])
}

func TestContact_FormValidation(t *testing.T) {
	page, fields := contactPage()
	fields["Please tick if you would"].Checked = true
	contact := pages.NewContact(fastSession(t, page))

	require.NoError(t, contact.ValidateFormValidation(context.Background()))
	assert.False(t, fields["Please tick if you would"].Checked)
	assert.Equal(t, []string{""}, fields["Business Email"].Filled)
	assert.Equal(t, []string{""}, fields["Country"].Selected)
}

func TestContact_SwitchTabs(t *testing.T) {
	page, _ := contactPage()
	contactUs := browsertest.NewElement().WithText("Contact us").WithAttr("class", "tab active")
	country := browsertest.NewElement().WithText("Country contacts").WithAttr("class", "tab")
	country.OnClick = func(p *browsertest.Page) {
		p.Update(func() {
			contactUs.Attrs["class"] = "tab"
			country.Attrs["class"] = "tab active"
		})
	}
	page.Add("#contact-tabs li", contactUs, country)

	contact := pages.NewContact(fastSession(t, page))
	ctx := context.Background()
	require.NoError(t, contact.ValidateActiveTab(ctx))
	require.NoError(t, contact.SwitchToCountryContacts(ctx))
	assert.True(t, pages.IsAssertion(contact.ValidateActiveTab(ctx)))
}

func TestLanguagePath(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"English", ""},
		{"Français", "/fr"},
		{"Deutsch", "/de"},
		{"Español", "/es"},
	}
	for _, tt := range tests {
		got, err := pages.LanguagePath(tt.lang)
		require.NoError(t, err, tt.lang)
		assert.Equal(t, tt.want, got)
	}
	_, err := pages.LanguagePath("Klingon")
	assert.ErrorIs(t, err, pages.ErrNotRecognized)
}

func TestLanguageSwitcher_Select(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add(browsertest.RoleKey("button", "English"), browsertest.NewElement())
	fr := browsertest.NewElement()
	fr.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/fr/") }
	page.Add(browsertest.RoleKey("link", "Français"), fr)
	en := browsertest.NewElement()
	en.OnClick = func(p *browsertest.Page) { p.SetURL(base + "/") }
	page.Add(browsertest.RoleKey("link", "English"), en)

	lang := pages.NewLanguageSwitcher(fastSession(t, page))
	ctx := context.Background()
	require.NoError(t, lang.OpenDropdown(ctx))
	require.NoError(t, lang.SelectLanguage(ctx, "Français"))
	assert.Equal(t, base+"/fr/", page.URL())

	require.NoError(t, lang.SelectLanguage(ctx, "English"))
	assert.Equal(t, base+"/", page.URL())

	assert.ErrorIs(t, lang.SelectLanguage(ctx, "Klingon"), pages.ErrNotRecognized)
	assert.True(t, lang.IsLanguageButtonVisible(ctx, ""))
}

func TestLanguageSwitcher_VisibleLanguages(t *testing.T) {
	page := browsertest.New(base + "/")
	page.Add(browsertest.RoleKey("button", "English"), browsertest.NewElement())
	page.Add(`a[role="menuitem"], a[role="option"], a`,
		browsertest.NewElement().WithText(" English "),
		browsertest.NewElement().WithText("Français"),
		browsertest.NewElement().WithText("Deutsch").Hidden(),
		browsertest.NewElement().WithText("  "),
		browsertest.NewElement().WithText("Español"),
	)

	lang := pages.NewLanguageSwitcher(fastSession(t, page))
	got, err := lang.VisibleLanguages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"English", "Français", "Español"}, got)
}

func TestAssertionError(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("сценарий: %w", &pages.AssertionError{Page: "home", Expectation: "логотип виден", Err: cause})
	assert.True(t, pages.IsAssertion(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "сценарий: home: ожидалось логотип виден: timeout", err.Error())
	assert.False(t, pages.IsAssertion(cause))
}

func TestHome_MainNavigation(t *testing.T) {
	const items = ".navLinks ul > li > a.nav-dd"
	page := browsertest.New(base + "/")
	for _, name := range pages.MainNavigation {
		page.Add(items, browsertest.NewElement().WithText(name))
	}
	home := pages.NewHome(fastSession(t, page))
	require.NoError(t, home.ValidateMainNavigation(context.Background()))

	page.Add(items, browsertest.NewElement().WithText("Partners"))
	err := home.ValidateMainNavigation(context.Background())
	require.True(t, pages.IsAssertion(err), err)
	assert.Contains(t, err.Error(), "Partners")
}

func TestHome_HeroCTA(t *testing.T) {
	home := pages.NewHome(fastSession(t, heroPage()))
	assert.NoError(t, home.ValidateHeroCTA(context.Background()))

	home = pages.NewHome(fastSession(t, browsertest.New(base+"/")))
	assert.True(t, pages.IsAssertion(home.ValidateHeroCTA(context.Background())))
}

func TestLayout_HeadingContains(t *testing.T) {
	page := browsertest.New(base + "/industries/aerospace-and-defense")
	page.Add("h1", browsertest.NewElement().WithText("Aerospace and Defense Software | IFS"))
	home := pages.NewHome(fastSession(t, page))

	require.NoError(t, home.ValidateHeadingContains(context.Background(), "Aerospace and Defense"))

	err := home.ValidateHeadingContains(context.Background(), "Construction")
	var ae *pages.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Detail, "Aerospace and Defense Software")
}

func TestContact_VerifyForm(t *testing.T) {
	page, fields := contactPage()
	contact := pages.NewContact(fastSession(t, page))
	data := pages.FormData{Email: "test@example.com", FirstName: "Test", LastName: "User"}
	ctx := context.Background()

	require.NoError(t, contact.FillContactForm(ctx, data))
	require.NoError(t, contact.Form.Verify(ctx, data))

	fields["Last Name"].Value = "Someone"
	err := contact.Form.Verify(ctx, data)
	var ae *pages.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Expectation, `"User"`)
	assert.Contains(t, ae.Detail, "Someone")
}

func TestContact_FormReachable(t *testing.T) {
	page, _ := contactPage()
	contact := pages.NewContact(fastSession(t, page))
	require.NoError(t, contact.ValidateFormReachable(context.Background()))

	page.Hide(`h1:has-text("Contact us")`)
	assert.True(t, pages.IsAssertion(contact.ValidateFormReachable(context.Background())))
}
