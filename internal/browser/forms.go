package browser

import (
	"context"
	"fmt"
	"strings"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSelect
	FieldCheck
)

// Field - поле формы и значение для него. Для FieldCheck непустое
// значение означает "отметить".
type Field struct {
	Name     string
	Kind     FieldKind
	Locator  Locator
	Value    string
	Optional bool
}

// FillFields заполняет поля по порядку. Пустые значения пропускаются,
// отсутствующие необязательные поля тоже.
func FillFields(ctx context.Context, fields []Field) error {
	for _, f := range fields {
		if f.Value == "" && f.Kind != FieldCheck {
			continue
		}

		if f.Optional {
			n, err := f.Locator.Count(ctx)
			if err != nil || n == 0 {
				continue
			}
		}

		if err := fillField(ctx, f); err != nil {
			return fmt.Errorf("поле %s: %w", f.Name, err)
		}
	}
	return nil
}

func fillField(ctx context.Context, f Field) error {
	switch f.Kind {
	case FieldSelect:
		return f.Locator.SelectOption(ctx, f.Value)
	case FieldCheck:
		if f.Value == "" {
			return nil
		}
		checked, err := f.Locator.IsChecked(ctx)
		if err == nil && checked {
			return nil
		}
		// Чекбоксы согласия часто перекрыты кастомной разметкой
		return f.Locator.Check(ctx, true)
	default:
		return f.Locator.Fill(ctx, f.Value)
	}
}

// FieldValues читает текущие значения текстовых полей, для проверки
// того, что форма заполнилась.
func FieldValues(ctx context.Context, fields []Field) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Kind != FieldText || f.Value == "" {
			continue
		}
		v, err := f.Locator.InputValue(ctx)
		if err != nil {
			if f.Optional {
				continue
			}
			return nil, fmt.Errorf("поле %s: %w", f.Name, err)
		}
		out[f.Name] = strings.TrimSpace(v)
	}
	return out, nil
}
