package browser

import (
	"fmt"
	"regexp"
	"strings"
)

type selectorCandidate struct {
	selector string
	score    int
}

// BuildSelector подбирает самый устойчивый селектор для элемента снапшота:
// id, data-testid, name, role+aria-label, класс, текст, тег.
func BuildSelector(el Element) string {
	var candidates []selectorCandidate

	if el.ID != "" && !isCommonID(el.ID) {
		candidates = append(candidates, selectorCandidate{"#" + cssIdent(el.ID), 100})
	}
	if el.TestID != "" {
		candidates = append(candidates, selectorCandidate{fmt.Sprintf("[data-testid=%q]", el.TestID), 95})
	}
	if el.Name != "" {
		candidates = append(candidates, selectorCandidate{fmt.Sprintf("%s[name=%q]", el.Tag, el.Name), 90})
	}
	if el.AriaLabel != "" {
		if el.Role != "" {
			candidates = append(candidates, selectorCandidate{fmt.Sprintf("[role=%q][aria-label=%q]", el.Role, el.AriaLabel), 85})
		} else {
			candidates = append(candidates, selectorCandidate{fmt.Sprintf("%s[aria-label=%q]", el.Tag, el.AriaLabel), 80})
		}
	}
	if el.Tag != "" {
		for _, class := range strings.Fields(el.Class) {
			if !isCommonClass(class) {
				candidates = append(candidates, selectorCandidate{el.Tag + "." + cssIdent(class), 70})
				break
			}
		}
	}
	if text := strings.TrimSpace(el.Text); el.Tag != "" && text != "" && len(text) < 50 {
		candidates = append(candidates, selectorCandidate{fmt.Sprintf("%s:has-text(%q)", el.Tag, text), 60})
	}
	if el.Tag != "" {
		candidates = append(candidates, selectorCandidate{el.Tag, 30})
	}

	if len(candidates) == 0 {
		return "body"
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.selector
}

var cssSpecial = regexp.MustCompile(`([^a-zA-Z0-9_-])`)

func cssIdent(s string) string {
	return cssSpecial.ReplaceAllString(s, `\$1`)
}

func isCommonID(id string) bool {
	switch strings.ToLower(id) {
	case "content", "main", "header", "footer", "nav", "menu":
		return true
	}
	return false
}

func isCommonClass(class string) bool {
	commonClasses := []string{
		"container", "wrapper", "row", "col", "btn", "button",
		"active", "disabled", "hidden", "visible", "flex", "grid",
	}
	classLower := strings.ToLower(class)
	for _, common := range commonClasses {
		if strings.Contains(classLower, common) {
			return true
		}
	}
	return false
}

var (
	colonSpacePattern    = regexp.MustCompile(`^([^:]+):\s+(.+)$`)
	containsDoubleQuoted = regexp.MustCompile(`:contains\("([^"]*)"\)`)
	containsSingleQuoted = regexp.MustCompile(`:contains\('([^']*)'\)`)
	containsBare         = regexp.MustCompile(`:contains\(([^)"']+)\)`)
)

// NormalizeSelector чинит типичные ошибки в селекторах, пришедших извне:
// jQuery :contains() превращается в :has-text(), "button: Текст" в
// button:has-text("Текст"). Второе значение сообщает, был ли селектор изменен.
func NormalizeSelector(selector string) (string, bool) {
	if selector == "" {
		return selector, false
	}

	normalized := strings.TrimSpace(selector)
	changed := normalized != selector

	if m := colonSpacePattern.FindStringSubmatch(normalized); m != nil && !strings.Contains(normalized, "(") {
		tag, text := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if tag != "" && text != "" {
			normalized = tag + ":has-text(" + quote(text) + ")"
			changed = true
		}
	}

	for _, re := range []*regexp.Regexp{containsDoubleQuoted, containsSingleQuoted, containsBare} {
		normalized = re.ReplaceAllStringFunc(normalized, func(match string) string {
			changed = true
			text := strings.TrimSpace(re.FindStringSubmatch(match)[1])
			return ":has-text(" + quote(text) + ")"
		})
	}

	return normalized, changed
}

func quote(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	return `"` + text + `"`
}

// ValidateSelector отсекает то, что селектором быть не может: пустую строку и URL.
func ValidateSelector(selector string) error {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return fmt.Errorf("селектор не может быть пустым")
	}
	if strings.Contains(trimmed, "://") {
		return fmt.Errorf("селектор не может быть URL: %s", selector)
	}
	return nil
}
