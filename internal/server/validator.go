package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/hsaito/retentio/internal/selector"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("policy", isSelectionPolicy); err != nil {
		return nil, nil, fmt.Errorf("failed to register policy validation: %w", err)
	}
	if err := validate.RegisterTranslation("policy", trans, func(ut ut.Translator) error {
		return ut.Add("policy", "{0} must be a known selection policy", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("policy", fe.Field())
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register policy translation: %w", err)
	}

	return validate, trans, nil
}

func isSelectionPolicy(fl validator.FieldLevel) bool {
	_, err := selector.ParsePolicy(fl.Field().String())
	return err == nil
}

// translateErrors flattens validation failures into one user-facing
// message per field.
func translateErrors(trans ut.Translator, err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fe.Translate(trans))
	}
	return strings.Join(messages, "; ")
}
