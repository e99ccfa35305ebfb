// Package sanitize strips markup from user-supplied form values before
// transmission. The allow-list is empty: output is plain text.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Field selects the normalization applied after tag stripping
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// whitespaceRegex collapses runs of whitespace in names
var whitespaceRegex = regexp.MustCompile(`\s+`)

// nameCharsRegex removes everything outside word characters, whitespace,
// @, ., - and accented Latin letters. The accented range mirrors the
// schema charset so an accepted name survives sanitization unchanged.
var nameCharsRegex = regexp.MustCompile(`[^\w\s@.\x{00C0}-\x{017F}-]`)

// angleBracketsRegex strips stray angle brackets from email values
var angleBracketsRegex = regexp.MustCompile(`[<>]`)

// Sanitizer removes HTML content and normalizes form fields.
// Clean is idempotent: sanitizing already-clean text is a no-op.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a sanitizer with an empty allow-list.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean strips all HTML tags and attributes from value and applies the
// field-specific normalization.
func (s *Sanitizer) Clean(field Field, value string) string {
	switch field {
	case FieldName:
		clean := html.UnescapeString(s.policy.Sanitize(value))
		clean = nameCharsRegex.ReplaceAllString(clean, "")
		clean = whitespaceRegex.ReplaceAllString(clean, " ")
		return strings.TrimSpace(clean)
	case FieldEmail:
		clean := html.UnescapeString(s.policy.Sanitize(value))
		clean = angleBracketsRegex.ReplaceAllString(clean, "")
		return strings.ToLower(strings.TrimSpace(clean))
	default:
		// Message text keeps the entity-escaped form the policy emits;
		// unescaping here would let stripped markup reappear on re-entry.
		return s.policy.Sanitize(value)
	}
}

// CleanAll sanitizes name, email and message in one pass.
func (s *Sanitizer) CleanAll(name, email, message string) (string, string, string) {
	return s.Clean(FieldName, name), s.Clean(FieldEmail, email), s.Clean(FieldMessage, message)
}
