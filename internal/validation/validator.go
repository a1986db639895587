// Package validation runs struct-tag validation over form payloads and
// reports the failures as an ordered list of human-readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

// Result is the outcome of one validation run. The zero value has no errors.
type Result struct {
	errs []FieldError
}

func (r Result) IsEmpty() bool {
	return len(r.errs) == 0
}

// Array returns the field errors in struct declaration order.
func (r Result) Array() []FieldError {
	out := make([]FieldError, len(r.errs))
	copy(out, r.errs)
	return out
}

func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.errs))
	for _, e := range r.errs {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

// bcrypt refuses passwords longer than this many bytes.
const bcryptMaxBytes = 72

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field() on a validator.FieldError then yields the human label.
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		if label := sf.Tag.Get("label"); label != "" {
			return label
		}
		return sf.Name
	})

	// max= counts runes; bcrypt's limit is in bytes
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(in any) Result {
	err := v.validate.Struct(in)
	if err == nil {
		return Result{}
	}

	rootType := baseStructType(in)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Result{errs: []FieldError{{Rule: "invalid", Msg: "Invalid input."}}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		rule := fieldError.Tag()
		param := fieldError.Param()

		fields = append(fields, FieldError{
			Field: formName(rootType, fieldError.StructField()),
			Rule:  rule,
			Param: param,
			Msg:   fieldError.Field() + " " + validationMessage(rule, param, fieldError.Kind()) + ".",
		})
	}

	return Result{errs: fields}
}

func baseStructType(v any) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// formName maps a Go field name to the name the browser posts it under.
func formName(rootType reflect.Type, field string) string {
	if rootType == nil {
		return field
	}

	sf, ok := rootType.FieldByName(field)
	if !ok {
		return field
	}

	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(sf.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return sf.Name
}

func validationMessage(rule, param string, kind reflect.Kind) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if kind == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if kind == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "bcryptmax":
		return fmt.Sprintf("must be at most %d bytes", bcryptMaxBytes)
	case "eqfield":
		return "must match " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
