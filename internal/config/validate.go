package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/hashicorp/go-version"
)

var (
	validate *validator.Validate
	trans    ut.Translator
	initOnce sync.Once
)

// ValidationError lists the config keys that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

func engine() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report fields by their config key, e.g. "server.port"
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			_, err := version.NewSemver(fl.Field().String())
			return err == nil
		})

		english := en.New()
		uni := ut.New(english, english)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, trans)

		_ = validate.RegisterTranslation("semver", trans,
			func(t ut.Translator) error {
				return t.Add("semver", "{0} must be a semantic version", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("semver", fe.Field())
				return msg
			},
		)
	})
	return validate
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	err := engine().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		ns := e.Namespace()
		// drop the root struct name
		if i := strings.Index(ns, "."); i != -1 {
			ns = ns[i+1:]
		}

		msg := e.Translate(trans)
		if e.Tag() == "oneof" {
			msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
		}
		fields[ns] = msg
	}

	return &ValidationError{Fields: fields}
}
