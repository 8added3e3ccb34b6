package service

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

var validate = newValidator()

// messages are keyed "field.tag"; a bare "tag" key is the fallback.
var messages = map[string]string{
	"required":                 "This field is required",
	"email":                    "Enter a valid email address",
	"max":                      "This field is too long",
	"confirm_password.eqfield": "Passwords do not match",
	"terms.required":           "You must agree to the terms and conditions",
	"account_type.oneof":       "Choose a collector or artist account",
	"content.max":              "Comments are limited to 1000 characters",
	"content.required":         "Comment cannot be empty",
}

func messageFor(field, tag string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := messages[tag]; ok {
		return m
	}
	return "This field is invalid"
}

// check runs the struct tags of form and collects every failure.
func check(form any) ValidationErrors {
	errs := ValidationErrors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.add("form", err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		errs.add(fe.Field(), messageFor(fe.Field(), fe.Tag()))
	}
	return errs
}

func orNil(errs ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
