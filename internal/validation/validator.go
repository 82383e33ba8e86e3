// Package validation turns request payloads into field-keyed error lists.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to its ordered error messages.
type Errors map[string][]string

// Add appends msg to the messages for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether there are no errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 6

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// Struct validates s against its `validate` tags.
func Struct(s interface{}) Errors {
	errs := Errors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("request", err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("'%s' must not be empty.", fe.Field())
	case "max":
		return fmt.Sprintf("The length of '%s' must be %s characters or fewer.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("'%s' is not a valid email address.", fe.Field())
	default:
		return fmt.Sprintf("'%s' is invalid.", fe.Field())
	}
}

// Password checks the password strength policy and returns every failed rule in order.
func Password(password string) []string {
	var msgs []string
	if len([]rune(password)) < PasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("Passwords must be at least %d characters.", PasswordMinLength))
	}

	// Character classes are ASCII only; anything else, spaces included, is non alphanumeric.
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		default:
			hasSymbol = true
		}
	}
	if !hasDigit {
		msgs = append(msgs, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasLower {
		msgs = append(msgs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasUpper {
		msgs = append(msgs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !hasSymbol {
		msgs = append(msgs, "Passwords must have at least one non alphanumeric character.")
	}
	return msgs
}

// ParseDate parses the optional `date` query value. An empty value yields nil.
func ParseDate(value string) (*time.Time, Errors) {
	errs := Errors{}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errs
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, errs
		}
	}
	errs.Add("date", fmt.Sprintf("'%s' is not a valid date. Use YYYY-MM-DD or RFC 3339.", value))
	return nil, errs
}
