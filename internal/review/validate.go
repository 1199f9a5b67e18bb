package review

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	vOnce  sync.Once
	vInst  *validator.Validate
	vTrans ut.Translator
)

// Validator returns the shared struct validator. Field names in its errors
// are the json tag names, so transports apply the same rules and messages to
// their own request types.
func Validator() *validator.Validate {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vInst, vTrans = v, trans
	})
	return vInst
}

// ValidateStruct validates v and returns the first failure as a readable error.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Translate(vTrans))
	}
	return err
}

// ValidateContent checks that message content meets size requirements.
func ValidateContent(text string) error {
	if len(text) == 0 {
		return errors.New("content is empty")
	}
	if len(text) > MaxContentBytes {
		return fmt.Errorf("content exceeds %d byte limit", MaxContentBytes)
	}
	if !utf8.ValidString(text) {
		return errors.New("content contains invalid UTF-8")
	}
	if utf8.RuneCountInString(text) > MaxContentChars {
		return fmt.Errorf("content exceeds %d character limit", MaxContentChars)
	}
	return nil
}

// ValidateMessage checks the identifiers and content of m.
func ValidateMessage(m Message) error {
	if err := ValidateStruct(m); err != nil {
		return err
	}
	return ValidateContent(m.Content)
}
