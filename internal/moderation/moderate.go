package moderation

// Confidence contributions per category.
const (
	strongSignal = 90
	weakSignal   = 70
	maxScore     = 100
)

// ModerateContent runs both detectors over content and assembles the result.
// Input without matches yields IsViolation=false and SanitizedContent equal
// to content.
func ModerateContent(content string) Result {
	phones := DetectPhoneNumbers(content)
	emails := DetectEmails(content)

	res := Result{
		IsViolation:      len(phones) > 0 || len(emails) > 0,
		ViolationType:    violationType(phones, emails),
		DetectedPatterns: render(phones, emails),
		SanitizedContent: content,
		OriginalContent:  content,
		Confidence:       confidence(phones, emails),
		Phones:           phones,
		Emails:           emails,
	}
	if res.IsViolation {
		res.SanitizedContent = SanitizeContent(content, phones, emails)
	}
	return res
}

func violationType(phones, emails []Detection) ViolationType {
	switch {
	case len(phones) > 0 && len(emails) > 0:
		return ViolationBoth
	case len(phones) > 0:
		return ViolationPhone
	case len(emails) > 0:
		return ViolationEmail
	default:
		return ""
	}
}

// confidence adds 90 per category with at least one strong hit and 70 for a
// category with only weak hits, averaging when both categories fired.
func confidence(phones, emails []Detection) int {
	score := 0
	categories := 0
	if len(phones) > 0 {
		score += categoryScore(phones, KindPossiblePhone, KindSpelledOut)
		categories++
	}
	if len(emails) > 0 {
		score += categoryScore(emails, KindObscured, KindDomainMention)
		categories++
	}
	if categories == 2 {
		score /= 2
	}
	return min(score, maxScore)
}

// categoryScore is strongSignal when any detection has a kind outside weak.
func categoryScore(ds []Detection, weak ...Kind) int {
	for _, d := range ds {
		if !isWeak(d.Kind, weak) {
			return strongSignal
		}
	}
	return weakSignal
}

func isWeak(k Kind, weak []Kind) bool {
	for _, w := range weak {
		if k == w {
			return true
		}
	}
	return false
}

func render(phones, emails []Detection) []string {
	out := make([]string, 0, len(phones)+len(emails))
	for _, d := range phones {
		out = append(out, d.String())
	}
	for _, d := range emails {
		out = append(out, d.String())
	}
	return out
}
