package journal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Draft is the user input for a new entry.
type Draft struct {
	Title        string `json:"title" validate:"required"`
	Text         string `json:"text" validate:"required"`
	CreatureName string `json:"creatureName" validate:"required"`
}

// Trimmed returns the draft with surrounding whitespace removed from every field.
func (d Draft) Trimmed() Draft {
	return Draft{
		Title:        strings.TrimSpace(d.Title),
		Text:         strings.TrimSpace(d.Text),
		CreatureName: strings.TrimSpace(d.CreatureName),
	}
}

type draftValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newDraftValidator() (*draftValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &draftValidator{validate: validate, trans: trans}, nil
}

// check validates an already trimmed draft.
func (v *draftValidator) check(d Draft) error {
	err := v.validate.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct > %w", err)
	}
	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.trans),
		})
	}
	return &ValidationError{Fields: fields}
}
