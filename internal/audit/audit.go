// Package audit - статические проверки доступности по HTML страницы.
package audit

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"siteE2E/internal/browser"
)

const (
	// MinAltCoverage - минимальная доля изображений с атрибутом alt.
	MinAltCoverage = 0.5

	interactiveSelector = `a[href], button, [role="button"]`
	sampleSize          = 5
)

// Finding - одно найденное нарушение.
type Finding struct {
	Check   string
	Message string
}

func (f Finding) String() string {
	return f.Check + ": " + f.Message
}

// Report - результат разбора одной страницы.
type Report struct {
	URL string

	HeadingLevels []int
	H1Count       int

	Images        int
	ImagesWithAlt int

	Labels       int
	OrphanLabels []string

	Interactive int
	// Accessible - сколько из первых элементов выборки имеют role,
	// aria-label или tabindex >= 0.
	Accessible int
	Sampled    int

	Findings []Finding
}

// AltCoverage - доля изображений с alt; без изображений 0.
func (r *Report) AltCoverage() float64 {
	if r.Images == 0 {
		return 0
	}
	return float64(r.ImagesWithAlt) / float64(r.Images)
}

func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// Only возвращает нарушения одной проверки.
func (r *Report) Only(check string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Check == check {
			out = append(out, f)
		}
	}
	return out
}

const (
	CheckHeadings    = "headings"
	CheckAltText     = "alt-text"
	CheckLabels      = "labels"
	CheckInteractive = "interactive"
)

// Inspect берет HTML текущей страницы и прогоняет все проверки.
func Inspect(ctx context.Context, page browser.Page) (*Report, error) {
	html, err := page.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение HTML: %w", err)
	}
	r, err := Analyze(html)
	if err != nil {
		return nil, err
	}
	r.URL = page.URL()
	return r, nil
}

// Analyze разбирает HTML и заполняет отчет.
func Analyze(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("разбор HTML: %w", err)
	}

	r := &Report{}
	r.HeadingLevels = HeadingLevels(doc)
	r.H1Count = doc.Find("h1").Length()
	if r.H1Count == 0 {
		r.Findings = append(r.Findings, Finding{CheckHeadings, "на странице нет h1"})
	}
	if err := CheckHeadingHierarchy(r.HeadingLevels); err != nil {
		r.Findings = append(r.Findings, Finding{CheckHeadings, err.Error()})
	}

	r.ImagesWithAlt, r.Images = AltTextCoverage(doc)
	switch {
	case r.Images == 0:
		r.Findings = append(r.Findings, Finding{CheckAltText, "на странице нет изображений"})
	case r.AltCoverage() < MinAltCoverage:
		r.Findings = append(r.Findings, Finding{CheckAltText,
			fmt.Sprintf("alt есть у %d из %d изображений (%.2f%%)", r.ImagesWithAlt, r.Images, r.AltCoverage()*100)})
	}

	r.Labels = doc.Find("label[for]").Length()
	r.OrphanLabels = OrphanLabels(doc)
	for _, id := range r.OrphanLabels {
		r.Findings = append(r.Findings, Finding{CheckLabels, fmt.Sprintf("label[for=%q] без элемента с таким id", id)})
	}

	r.Interactive = InteractiveCount(doc)
	if r.Interactive == 0 {
		r.Findings = append(r.Findings, Finding{CheckInteractive, "нет фокусируемых элементов"})
	}
	r.Accessible, r.Sampled = SampleAccessible(doc, sampleSize)
	return r, nil
}

// HeadingLevels возвращает уникальные уровни заголовков по возрастанию.
func HeadingLevels(doc *goquery.Document) []int {
	var levels []int
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		if err == nil {
			levels = append(levels, n)
		}
	})
	slices.Sort(levels)
	return slices.Compact(levels)
}

// CheckHeadingHierarchy требует, чтобы между соседними уникальными
// уровнями не было пропусков: h1, h3 без h2 - ошибка.
func CheckHeadingHierarchy(levels []int) error {
	for i := 1; i < len(levels); i++ {
		if levels[i] > levels[i-1]+1 {
			return fmt.Errorf("пропущен уровень заголовка: h%d после h%d", levels[i], levels[i-1])
		}
	}
	return nil
}

// AltTextCoverage считает изображения и те из них, у которых есть alt.
// Скрытые атрибутом hidden или aria-hidden изображения не учитываются.
func AltTextCoverage(doc *goquery.Document) (withAlt, total int) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if hidden(s) {
			return
		}
		total++
		if _, ok := s.Attr("alt"); ok {
			withAlt++
		}
	})
	return withAlt, total
}

func hidden(s *goquery.Selection) bool {
	for n := s; n.Length() > 0; n = n.Parent() {
		if _, ok := n.Attr("hidden"); ok {
			return true
		}
		if v, _ := n.Attr("aria-hidden"); v == "true" {
			return true
		}
		if style, _ := n.Attr("style"); strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
			return true
		}
	}
	return false
}

// OrphanLabels возвращает значения label[for], для которых нет элемента с таким id.
func OrphanLabels(doc *goquery.Document) []string {
	ids := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids[id] = true
	})

	var orphans []string
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("for")
		if id == "" {
			return
		}
		if !ids[id] {
			orphans = append(orphans, id)
		}
	})
	return orphans
}

func InteractiveCount(doc *goquery.Document) int {
	return doc.Find(interactiveSelector).Length()
}

// SampleAccessible проверяет первые n фокусируемых элементов. Результат
// информационный и в нарушения не попадает.
func SampleAccessible(doc *goquery.Document, n int) (accessible, sampled int) {
	doc.Find(interactiveSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= n {
			return false
		}
		sampled++
		if focusable(s) {
			accessible++
		}
		return true
	})
	return accessible, sampled
}

func focusable(s *goquery.Selection) bool {
	if _, ok := s.Attr("role"); ok {
		return true
	}
	if _, ok := s.Attr("aria-label"); ok {
		return true
	}
	if v, ok := s.Attr("tabindex"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return err == nil && n >= 0
	}
	switch goquery.NodeName(s) {
	case "a", "button":
		return true
	}
	return false
}
