package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Field Errors
// =============================================================================

// FieldError is a single failed constraint on a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of field errors.
type Errors []FieldError

// Any reports whether at least one constraint failed.
func (e Errors) Any() bool {
	return len(e) > 0
}

// For returns the message for the given field, or "" when it passed.
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Messages returns all messages in order.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// =============================================================================
// Validator
// =============================================================================

// Validator checks form input. Create one with New and pass it to the
// components that need it.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator. Field names in errors use the `form` tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// check runs struct validation and maps failures to messages. The returned
// map is keyed by form field name and holds the first failure per field.
func (v *Validator) check(s any, messages map[string]string) (map[string]string, error) {
	failed := make(map[string]string)

	err := v.v.Struct(s)
	if err == nil {
		return failed, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	for _, fe := range verrs {
		if _, seen := failed[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		failed[fe.Field()] = msg
	}
	return failed, nil
}

// ordered converts per-field messages into Errors following the field order.
func ordered(order []string, failed map[string]string) Errors {
	var errs Errors
	for _, field := range order {
		if msg, ok := failed[field]; ok {
			errs = append(errs, FieldError{Field: field, Message: msg})
		}
	}
	return errs
}

// =============================================================================
// Sanitization
// =============================================================================

// Sanitize trims surrounding whitespace and drops control characters other
// than newlines. Markup is left alone; templates escape on output.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// SanitizeLine is Sanitize for single-line values: newlines become spaces.
func SanitizeLine(s string) string {
	return Sanitize(strings.ReplaceAll(Sanitize(s), "\n", " "))
}
