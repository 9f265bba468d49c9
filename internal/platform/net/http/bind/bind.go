// Package bind decodes request bodies and runs struct tag validation on them
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "feedline/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps how much of a body is read
const MaxBody = 1 << 20

var (
	setup      sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

func engine() (*validator.Validate, ut.Translator) {
	setup.Do(func() {
		locale := en.New()
		translator, _ = ut.New(locale, locale).GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(validate, translator)
		short(validate, translator, "min", "{0} must be at least {1}")
		short(validate, translator, "max", "{0} must be at most {1}")
	})
	return validate, translator
}

// jsonName reports fields by their wire name
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return f.Name
	}
	return name
}

// short swaps the default wording of tag for text, which may use {0} field and {1} param
func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes the body into T and validates it
// an empty body decodes as {} so optional only payloads may be omitted
// malformed bodies are ErrorCodeJSON, failed rules are ErrorCodeValidation naming the field
func ParseJSON[T any](r *http.Request) (T, error) {
	var in T
	if r.Body == nil {
		return in, check(in)
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		var zero T
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		var zero T
		return zero, perr.JSONErrf("unexpected data after the JSON body")
	}
	if err := check(in); err != nil {
		var zero T
		return zero, err
	}
	return in, nil
}

func check(v any) error {
	val, trans := engine()
	err := val.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(trans)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "payload cannot be validated")
}
