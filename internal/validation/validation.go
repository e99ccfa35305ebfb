// Package validation implements the contact form schema: declarative
// field rules for name, email and message plus an injection-pattern
// refinement that re-scans every field.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dantemoss/moss/internal/messages"
)

// ContactSubmission is a candidate contact form submission. It is created
// when the user finishes editing and never persisted.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required,min=2,max=50,contact_name"`
	Email   string `json:"email" validate:"required,max=100,email_shape"`
	Message string `json:"message" validate:"required,min=10,max=1000,no_angle_brackets"`
}

// Field names used as keys in validation error maps
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// nameRegex constrains names to letters (accented Latin included),
// spaces and hyphens.
var nameRegex = regexp.MustCompile(`^[A-Za-z\x{00C0}-\x{017F}\s-]+$`)

// emailShapeRegex is the RFC-light email check shared with the server side.
var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// angleBracketRegex rejects any literal < or > in the message body.
var angleBracketRegex = regexp.MustCompile(`[<>]`)

// injectionPatterns are HTML/script injection markers. A match in any
// field fails the whole submission.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
}

// Validator validates contact submissions and renders field errors
// through the message catalog.
type Validator struct {
	validate *validator.Validate
	catalog  *messages.Catalog
}

// New creates a Validator with the contact form rules registered.
func New(catalog *messages.Catalog) *Validator {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("contact_name", func(fl validator.FieldLevel) bool {
		return nameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShapeRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("no_angle_brackets", func(fl validator.FieldLevel) bool {
		return !angleBracketRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: v, catalog: catalog}
}

// Validate checks a submission against the schema and the injection
// refinement. It returns a map from field name to a human-readable error
// message; an empty map means the submission is accepted.
func (v *Validator) Validate(s ContactSubmission) map[string]string {
	fieldErrors := make(map[string]string)

	if err := v.validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				field, key := v.mapFieldError(fe)
				if _, exists := fieldErrors[field]; !exists {
					fieldErrors[field] = v.catalog.Get(key)
				}
			}
		}
	}

	// The refinement runs regardless of schema outcome and attaches its
	// error to the message field.
	if ContainsInjectionPattern(s.Name) || ContainsInjectionPattern(s.Email) || ContainsInjectionPattern(s.Message) {
		fieldErrors[FieldMessage] = v.catalog.Get(messages.KeyContentNotAllowed)
	}

	return fieldErrors
}

// ContainsInjectionPattern reports whether text matches any HTML/script
// injection marker.
func ContainsInjectionPattern(text string) bool {
	for _, p := range injectionPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// EmailShape reports whether email passes the RFC-light shape check.
func EmailShape(email string) bool {
	return emailShapeRegex.MatchString(email)
}

// mapFieldError maps a single validator error to its field name and
// message key.
func (v *Validator) mapFieldError(fe validator.FieldError) (string, messages.Key) {
	switch fe.StructField() {
	case "Name":
		switch fe.Tag() {
		case "required", "min":
			return FieldName, messages.KeyNameTooShort
		case "max":
			return FieldName, messages.KeyNameTooLong
		default:
			return FieldName, messages.KeyNameCharset
		}
	case "Email":
		if fe.Tag() == "max" {
			return FieldEmail, messages.KeyEmailTooLong
		}
		return FieldEmail, messages.KeyEmailInvalid
	default:
		switch fe.Tag() {
		case "required", "min":
			return FieldMessage, messages.KeyMessageTooShort
		case "max":
			return FieldMessage, messages.KeyMessageTooLong
		default:
			return FieldMessage, messages.KeyMessageHTML
		}
	}
}
