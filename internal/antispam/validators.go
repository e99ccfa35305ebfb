package antispam

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Message bounds checked by the spam validator, independent of the schema
const (
	MinMessageLength = 10
	MaxMessageLength = 1000
)

// MaxMessageURLs is the most links a legitimate message carries
const MaxMessageURLs = 3

// emailShapeRegex is the RFC-light shape check
var emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// disposableDomains is the denylist of throwaway email providers
var disposableDomains = []string{
	"10minutemail.com",
	"guerrillamail.com",
	"tempmail.org",
	"mailinator.com",
	"throwaway.email",
}

// spamPhrasePatterns flag promotional content, case-insensitive
var spamPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)buy\s+now`),
	regexp.MustCompile(`(?i)click\s+here`),
	regexp.MustCompile(`(?i)free\s+offer`),
	regexp.MustCompile(`(?i)make\s+money`),
	regexp.MustCompile(`(?i)viagra`),
	regexp.MustCompile(`(?i)casino`),
	regexp.MustCompile(`(?i)loan`),
	regexp.MustCompile(`(?i)credit`),
}

// urlRegex counts links in a message
var urlRegex = regexp.MustCompile(`https?://\S+`)

// ValidateEmailForSpam reports whether an email passes the shape check
// and does not belong to a disposable-email domain.
func ValidateEmailForSpam(email string) bool {
	if !emailShapeRegex.MatchString(email) {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	for _, suspicious := range disposableDomains {
		if strings.Contains(domain, suspicious) {
			return false
		}
	}
	return true
}

// ValidateMessageForSpam reports whether a message stays within length
// bounds, matches no promotional phrase and carries at most three URLs.
// Length is counted in runes, matching the schema validator.
func ValidateMessageForSpam(message string) bool {
	length := utf8.RuneCountInString(message)
	if length < MinMessageLength || length > MaxMessageLength {
		return false
	}

	for _, pattern := range spamPhrasePatterns {
		if pattern.MatchString(message) {
			return false
		}
	}

	if len(urlRegex.FindAllString(message, -1)) > MaxMessageURLs {
		return false
	}
	return true
}
