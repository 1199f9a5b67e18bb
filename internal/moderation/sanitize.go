package moderation

import (
	"regexp"
	"strings"
)

// Patterns for the final pass over the whole string.
var (
	residualPhonePattern = canonicalPhonePatterns[0]
	residualEmailPattern = canonicalEmailPatterns[0]
)

// SanitizeContent replaces every detected substring of content, case
// insensitively, with the matching redaction token, phones first. A
// detection read from normalized text is redacted by its original spans. A
// final pass redacts anything the plain phone and email patterns still match.
func SanitizeContent(content string, phones, emails []Detection) string {
	sanitized := content
	for _, d := range phones {
		for _, t := range d.targets() {
			sanitized = redact(sanitized, t, PhoneRedaction)
		}
	}
	for _, d := range emails {
		for _, t := range d.targets() {
			sanitized = redact(sanitized, t, EmailRedaction)
		}
	}

	sanitized = residualPhonePattern.ReplaceAllLiteralString(sanitized, PhoneRedaction)
	sanitized = residualEmailPattern.ReplaceAllLiteralString(sanitized, EmailRedaction)
	return sanitized
}

func redact(s, match, token string) string {
	if strings.TrimSpace(match) == "" {
		return s
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(match))
	if err != nil {
		return s
	}
	return re.ReplaceAllLiteralString(s, token)
}
