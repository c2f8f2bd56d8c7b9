package student

import (
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/sajili/core"
)

var (
	// institutional email policy
	uniMailTag    = "unimail"
	uniMailDomain = "@university.com"
	uniMailText   = "email must end with " + uniMailDomain

	// legacy password policy: starts with an uppercase letter,
	// at least 5 letters followed by 3 or more digits
	legacyPwdTag   = "legacypwd"
	legacyPwdText  = "password must start with an uppercase letter and contain at least 5 letters followed by 3 or more digits"
	legacyPwdRegex = regexp.MustCompile(`^[A-Z][A-Za-z]{4,}\d{3,}$`)

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to name or email"
)

// InitValidators registers the student validation tags and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(uniMailTag, uniMailValidation)
	core.RegisterCustomTranslation(validate, translator, uniMailTag, uniMailText)

	_ = validate.RegisterValidation(legacyPwdTag, legacyPwdValidation)
	core.RegisterCustomTranslation(validate, translator, legacyPwdTag, legacyPwdText)

	validate.RegisterStructValidation(newStudentStructValidation, NewStudent{})
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func uniMailValidation(fl validator.FieldLevel) bool {
	return strings.HasSuffix(strings.ToLower(fl.Field().String()), uniMailDomain)
}

func legacyPwdValidation(fl validator.FieldLevel) bool {
	return legacyPwdRegex.MatchString(fl.Field().String())
}

// newStudentStructValidation rejects passwords too similar to the student's
// own attributes; anything a student would guess first.
func newStudentStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewStudent)
	if !ok {
		return
	}
	if ns.Password == "" {
		return
	}
	if passwordTooSimilar(ns.Password, ns.Name) || passwordTooSimilar(ns.Password, ns.Email) {
		sl.ReportError(ns.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

func passwordTooSimilar(pwd, attr string) bool {
	if attr == "" {
		return false
	}
	pwd = strings.ToLower(pwd)
	attr = strings.ToLower(attr)
	ratio := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio()
	return ratio >= pwdMaxSim
}
