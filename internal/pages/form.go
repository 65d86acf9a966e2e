package pages

import (
	"context"
	"fmt"
	"strings"

	"siteE2E/internal/browser"
	"siteE2E/internal/sitedata"
)

// FormData - значения контактной формы. Пустые поля не заполняются.
type FormData struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	Country   string
	Solution  string
	Role      string
	Message   string
	Consent   bool
}

// FormDataFrom переносит табличные данные в FormData.
func FormDataFrom(c sitedata.ContactForm) FormData {
	return FormData{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Company:   c.Company,
		Phone:     c.Phone,
		Country:   c.Country,
		Message:   c.Message,
	}
}

type formControl struct {
	name  string
	kind  browser.FieldKind
	loc   browser.Locator
	value func(FormData) string
}

// ContactForm - форма в iframe. Набор полей зависит от страницы.
type ContactForm struct {
	Frame   browser.Locator
	Email   browser.Locator
	Country browser.Locator
	Consent browser.Locator
	Submit  browser.Locator

	controls []formControl
}

type formOption func(scope browser.Scope, f *ContactForm)

// withSolutionInterest добавляет список "Solution Interest".
func withSolutionInterest() formOption {
	return func(scope browser.Scope, f *ContactForm) {
		f.controls = append(f.controls, formControl{
			name: "solution", kind: browser.FieldSelect,
			loc:   scope.ByLabel("Solution Interest"),
			value: func(d FormData) string { return d.Solution },
		})
	}
}

// withRole добавляет список "I am...".
func withRole() formOption {
	return func(scope browser.Scope, f *ContactForm) {
		f.controls = append(f.controls, formControl{
			name: "role", kind: browser.FieldSelect,
			loc:   scope.ByLabel("I am..."),
			value: func(d FormData) string { return d.Role },
		})
	}
}

func newContactForm(page browser.Page, frame, submit string, opts ...formOption) *ContactForm {
	scope := page.Frame(frame)
	f := &ContactForm{
		Frame:   page.Locator(frame).First(),
		Email:   scope.ByLabel("Business Email"),
		Country: scope.ByLabel("Country"),
		Consent: scope.ByLabel("Please tick if you would"),
		Submit:  scope.ByRole("button", submit),
	}
	text := func(name, label string, value func(FormData) string) formControl {
		return formControl{name: name, kind: browser.FieldText, loc: scope.ByLabel(label), value: value}
	}
	f.controls = []formControl{
		{name: "email", kind: browser.FieldText, loc: f.Email, value: func(d FormData) string { return d.Email }},
		text("firstName", "First Name", func(d FormData) string { return d.FirstName }),
		text("lastName", "Last Name", func(d FormData) string { return d.LastName }),
		text("company", "Company", func(d FormData) string { return d.Company }),
		text("phone", "Phone Number", func(d FormData) string { return d.Phone }),
	}
	for _, opt := range opts {
		opt(scope, f)
	}
	f.controls = append(f.controls,
		formControl{name: "country", kind: browser.FieldSelect, loc: f.Country, value: func(d FormData) string { return d.Country }},
		text("message", "Message", func(d FormData) string { return d.Message }),
		formControl{name: "consent", kind: browser.FieldCheck, loc: f.Consent, value: func(d FormData) string {
			if d.Consent {
				return "yes"
			}
			return ""
		}},
	)
	return f
}

// Field возвращает локатор поля по имени; nil, если на форме его нет.
func (f *ContactForm) Field(name string) browser.Locator {
	for _, c := range f.controls {
		if c.name == name {
			return c.loc
		}
	}
	return nil
}

func (f *ContactForm) fields(d FormData) []browser.Field {
	out := make([]browser.Field, 0, len(f.controls))
	for _, c := range f.controls {
		out = append(out, browser.Field{Name: c.name, Kind: c.kind, Locator: c.loc, Value: c.value(d)})
	}
	return out
}

// Fill заполняет форму, не отправляя ее.
func (f *ContactForm) Fill(ctx context.Context, d FormData) error {
	return browser.FillFields(ctx, f.fields(d))
}

// Values - текущие значения текстовых полей, заполненных из d.
func (f *ContactForm) Values(ctx context.Context, d FormData) (map[string]string, error) {
	return browser.FieldValues(ctx, f.fields(d))
}

// expectFields проверяет видимость всех полей и кнопки отправки.
func (f *ContactForm) expectFields(ctx context.Context, e expect) error {
	for _, c := range f.controls {
		if err := e.visible(ctx, "поле формы "+c.name, c.loc); err != nil {
			return err
		}
	}
	return e.visible(ctx, "кнопка отправки формы", f.Submit)
}

// clear очищает поля и снимает согласие.
func (f *ContactForm) clear(ctx context.Context) error {
	for _, c := range f.controls {
		var err error
		switch c.kind {
		case browser.FieldText:
			err = c.loc.Fill(ctx, "")
		case browser.FieldSelect:
			err = c.loc.SelectOption(ctx, "")
		case browser.FieldCheck:
			if checked, cerr := c.loc.IsChecked(ctx); cerr == nil && checked {
				err = c.loc.Uncheck(ctx)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Verify сравнивает текстовые поля формы с тем, чем ее заполняли.
func (f *ContactForm) Verify(ctx context.Context, d FormData) error {
	got, err := f.Values(ctx, d)
	if err != nil {
		return &AssertionError{Page: "form", Expectation: "значения полей читаются", Err: err}
	}
	for _, c := range f.controls {
		want := strings.TrimSpace(c.value(d))
		if c.kind != browser.FieldText || want == "" {
			continue
		}
		if got[c.name] != want {
			return &AssertionError{
				Page:        "form",
				Expectation: fmt.Sprintf("поле %s = %q", c.name, want),
				Detail:      fmt.Sprintf("получено %q", got[c.name]),
			}
		}
	}
	return nil
}
