package moderation

import (
	"regexp"
	"strings"
)

var (
	canonicalEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+\s*@\s*[A-Za-z0-9.-]+\s*\.\s*[A-Za-z]{2,}\b`),
		regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+\[at\][A-Za-z0-9.-]+\[dot\][A-Za-z]{2,}\b`),
		regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+\s+at\s+[A-Za-z0-9.-]+\s+dot\s+[A-Za-z]{2,}\b`),
	}

	obscuredEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b[\w.%+-]+\s*\(\s*at\s*\)\s*[\w.-]+\s*\(\s*dot\s*\)\s*\w{2,}\b`),
		regexp.MustCompile(`(?i)\b[\w.%+-]+\s*\[\s*at\s*\]\s*[\w.-]+\s*\[\s*dot\s*\]\s*\w{2,}\b`),
		regexp.MustCompile(`(?i)\b[\w.%+-]+\s*<at>\s*[\w.-]+\s*<dot>\s*\w{2,}\b`),
	}

	// domainMentionPattern catches "email me at jane gmail" style hints.
	domainMentionPattern = regexp.MustCompile(
		`(?i)\b(email|contact|reach|write)\s+(me\s+)?(at\s+)?[\w.%+-]+\s*(at|@)?\s*(` +
			strings.Join(emailDomains, "|") + `)\b`,
	)
)

// DetectEmails returns every email-like match in text, de-duplicated in
// first-seen order across canonical, obscured and domain-mention passes.
func DetectEmails(text string) []Detection {
	set := newDetectionSet()

	for _, p := range canonicalEmailPatterns {
		for _, m := range p.FindAllString(text, -1) {
			set.add(KindCanonical, m)
		}
	}

	for _, p := range obscuredEmailPatterns {
		for _, m := range p.FindAllString(text, -1) {
			set.add(KindObscured, m)
		}
	}

	for _, m := range domainMentionPattern.FindAllString(text, -1) {
		set.add(KindDomainMention, m)
	}

	return set.list()
}
