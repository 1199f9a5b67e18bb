package moderation

import (
	"slices"
	"strconv"
)

// ViolationType classifies what kind of contact information was found.
// The zero value means no violation.
type ViolationType string

const (
	ViolationPhone ViolationType = "phone"
	ViolationEmail ViolationType = "email"
	ViolationBoth  ViolationType = "both"
)

// Redaction tokens written into sanitized content.
const (
	PhoneRedaction = "[PHONE REMOVED]"
	EmailRedaction = "[EMAIL REMOVED]"
)

// Kind tags how a detection was made.
type Kind int

const (
	// KindCanonical is a plain regex hit on a standard format.
	KindCanonical Kind = iota
	// KindObscured is a hit on a deliberately broken-up format.
	KindObscured
	// KindSpelledOut is a conversational phrase that converts to digits.
	KindSpelledOut
	// KindPossiblePhone is a 10-digit run in the normalized text with a
	// known area code.
	KindPossiblePhone
	// KindDomainMention is a solicitation naming a public mail provider.
	KindDomainMention
)

func (k Kind) String() string {
	switch k {
	case KindCanonical:
		return "canonical"
	case KindObscured:
		return "obscured"
	case KindSpelledOut:
		return "spelled_out"
	case KindPossiblePhone:
		return "possible_phone"
	case KindDomainMention:
		return "domain_mention"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Detection is a single match produced by a detector. Text is the matched
// substring; for KindPossiblePhone it is the digit run from the normalized
// text, which may not appear verbatim in the original. Sources then holds
// every span of the original text the run was read from.
type Detection struct {
	Kind    Kind
	Text    string
	Sources []string
}

// targets returns the substrings of the original text to redact.
func (d Detection) targets() []string {
	if len(d.Sources) > 0 {
		return d.Sources
	}
	return []string{d.Text}
}

// String renders the detection the way it is stored in alert records.
func (d Detection) String() string {
	switch d.Kind {
	case KindObscured:
		return `Obscured: "` + d.Text + `"`
	case KindSpelledOut:
		return `Spelled out: "` + d.Text + `"`
	case KindPossiblePhone:
		return "Possible phone: " + d.Text
	case KindDomainMention:
		return `Domain mention: "` + d.Text + `"`
	default:
		return d.Text
	}
}

// Result is the outcome of ModerateContent.
type Result struct {
	IsViolation      bool          `json:"is_violation"`
	ViolationType    ViolationType `json:"violation_type,omitempty"`
	DetectedPatterns []string      `json:"detected_patterns"`
	SanitizedContent string        `json:"sanitized_content"`
	OriginalContent  string        `json:"original_content"`
	Confidence       int           `json:"confidence"`

	// Phones and Emails hold the structured detections behind
	// DetectedPatterns, phone matches first.
	Phones []Detection `json:"-"`
	Emails []Detection `json:"-"`
}

// detectionSet accumulates detections in first-seen order, keyed by their
// rendered form.
type detectionSet struct {
	seen  map[string]int
	items []Detection
}

func newDetectionSet() *detectionSet {
	return &detectionSet{seen: make(map[string]int)}
}

func (s *detectionSet) add(kind Kind, text string) {
	s.addSource(kind, text, "")
}

// addSource records a detection read from source in the original text. A
// repeat merges its source into the first-seen entry.
func (s *detectionSet) addSource(kind Kind, text, source string) {
	d := Detection{Kind: kind, Text: text}
	key := d.String()
	i, ok := s.seen[key]
	if !ok {
		i = len(s.items)
		s.seen[key] = i
		s.items = append(s.items, d)
	}
	if source != "" && !slices.Contains(s.items[i].Sources, source) {
		s.items[i].Sources = append(s.items[i].Sources, source)
	}
}

func (s *detectionSet) list() []Detection {
	return s.items
}
