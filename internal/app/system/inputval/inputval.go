// internal/app/system/inputval/inputval.go
package inputval

// Struct-tag driven form validation. Handlers declare an input struct with
// `validate` rules and a human `label`, call Validate, and re-render the
// form with First() when anything fails:
//
//	type form struct {
//	    Name  string `validate:"required,min=2,max=100" label:"Name"`
//	    Email string `validate:"required,email" label:"Email"`
//	    Phone string `validate:"phone" label:"Phone"`
//	}
//
// Rules on an empty field other than "required" are skipped, so optional
// fields validate only when filled in.

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError is one failed rule, annotated with the struct field name.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the field errors from one Validate pass.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when validation passed.
// Forms display one error at a time, in field order.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the message for a named field, or "".
func (r *Result) ByField(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func (r *Result) add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Validate runs the tag rules over every string field of input, which must
// be a struct or a pointer to one. Unknown rules are ignored.
func Validate(input any) *Result {
	res := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		rules := sf.Tag.Get("validate")
		if rules == "" || sf.Type.Kind() != reflect.String {
			continue
		}
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		value := strings.TrimSpace(v.Field(i).String())

		for _, rule := range strings.Split(rules, ",") {
			rule = strings.TrimSpace(rule)
			if msg := applyRule(rule, label, value); msg != "" {
				res.add(sf.Name, msg)
				break // one error per field
			}
		}
	}
	return res
}

func applyRule(rule, label, value string) string {
	name, arg, _ := strings.Cut(rule, "=")

	// Optional fields: only "required" fires on empty input.
	if value == "" && name != "required" {
		return ""
	}

	switch name {
	case "required":
		if value == "" {
			return fmt.Sprintf("%s is required.", label)
		}
	case "min":
		n, err := strconv.Atoi(arg)
		if err == nil && len([]rune(value)) < n {
			return fmt.Sprintf("%s must be at least %d characters.", label, n)
		}
	case "max":
		n, err := strconv.Atoi(arg)
		if err == nil && len([]rune(value)) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case "email":
		if !IsValidEmail(value) {
			return "A valid email address is required."
		}
	case "phone":
		if !IsValidPhone(value) {
			return fmt.Sprintf("%s may only contain digits, spaces, and + - ( ).", label)
		}
	case "httpurl":
		if !IsValidHTTPURL(value) {
			return fmt.Sprintf("%s must be a valid http or https URL.", label)
		}
	case "objectid":
		if !IsValidObjectID(value) {
			return fmt.Sprintf("%s is not a valid identifier.", label)
		}
	case "pubtype":
		if !IsValidPublicationType(value) {
			return fmt.Sprintf("%s is not a recognized publication type.", label)
		}
	case "year":
		if !IsValidYear(value) {
			return fmt.Sprintf("%s must be a four-digit year.", label)
		}
	}
	return ""
}
