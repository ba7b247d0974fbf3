// Package filename checks and repairs the names files are uploaded under.
// Validation runs locally, before any request is made.
package filename

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/pixeldrain/errs"
)

// MaxLength is the longest name, in characters, the API accepts.
const MaxLength = 255

// illegal is the one character a name may not contain.
const illegal = "/"

// replacement is substituted for illegal by Normalize.
const replacement = "_"

var validate *validator.Validate
var translator ut.Translator

type upload struct {
	Name string `json:"name" validate:"required,max=255,excludes=/"`
}

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("filename: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	err := validate.RegisterTranslation("excludes", translator,
		func(ut ut.Translator) error {
			return ut.Add("excludes", "{0} must not contain '{1}'", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T("excludes", fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
	if err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// Validate reports whether name can be uploaded as-is. Failures are
// *errs.Error values of kind errs.ErrValidation with code
// errs.CodeNameEmpty, errs.CodeNameTooLong or errs.CodeNameIllegalCharset.
// Length is counted in characters, not bytes.
func Validate(name string) error {
	err := validate.Struct(upload{Name: name})
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) || len(verrors) == 0 {
		return err
	}

	verror := verrors[0]
	return errs.New(errs.ErrValidation, codeForTag(verror.Tag()), verror.Translate(translator))
}

// Normalize returns a name that passes the length and character checks:
// every '/' becomes '_' and the result is cut to MaxLength characters.
// It never fails; an empty name stays empty.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, illegal, replacement)

	runes := []rune(name)
	if len(runes) > MaxLength {
		name = string(runes[:MaxLength])
	}

	return name
}

func codeForTag(tag string) string {
	switch tag {
	case "required":
		return errs.CodeNameEmpty
	case "max":
		return errs.CodeNameTooLong
	case "excludes":
		return errs.CodeNameIllegalCharset
	default:
		return errs.CodeUnknown
	}
}
