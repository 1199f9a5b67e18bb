package moderation

import (
	"regexp"
	"strings"
)

// Compiled once at package init; regexp.Regexp is safe for concurrent use.
var (
	// canonicalPhonePatterns cover the standard North American layouts.
	canonicalPhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),                   // 555-555-5555
		regexp.MustCompile(`\b\d{10}\b`),                                          // 5555555555
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}\b`),                     // (555) 555-5555
		regexp.MustCompile(`\b\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), // +1-555-555-5555
		regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`),                             // 555.555.5555
	}

	tenDigitPattern = regexp.MustCompile(`\d{10}`)

	// spelledPhrasePatterns run against the lowercased original and only
	// count when the converted phrase, as written, holds a 10+ digit run.
	spelledPhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(call|text|phone|contact|reach|dial|whatsapp|telegram|signal)\s+(me\s+)?(at\s+)?[\w\s\-.]+`),
		regexp.MustCompile(`(?i)my\s+(number|phone|cell|mobile|contact)\s+(is\s+)?[\w\s\-.]+`),
	}

	// digitWordRunPattern matches two or more digit words in a row. A run
	// counts once the separators between its words are dropped.
	digitWordRunPattern = regexp.MustCompile(`(?i)\b(` + digitWords + `)(?:[\s\-]+(` + digitWords + `))+\b`)

	spelledSeparatorPattern = regexp.MustCompile(`[\s\-.]+`)
	longDigitRunPattern     = regexp.MustCompile(`\d{10,}`)

	// obscuredPhonePatterns tolerate stray characters inside a 3-3-4 group.
	obscuredPhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d\s*\d\s*\d[\s\-.]*\d\s*\d\s*\d[\s\-.]*\d\s*\d\s*\d\s*\d\b`), // 5 5 5 - 5 5 5 - 5 5 5 5
		regexp.MustCompile(`\b\d{3}[^\d\w]{1,3}\d{3}[^\d\w]{1,3}\d{4}\b`),                 // 555*555*5555
	}
)

// DetectPhoneNumbers returns every phone-like match in text, de-duplicated
// in first-seen order across four passes: canonical formats, the normalized
// 10-digit sweep, spelled-out phrases and obscured groupings.
func DetectPhoneNumbers(text string) []Detection {
	set := newDetectionSet()

	for _, p := range canonicalPhonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			set.add(KindCanonical, m)
		}
	}

	n := normalize(text)
	for _, loc := range tenDigitPattern.FindAllStringIndex(n.text, -1) {
		run := n.text[loc[0]:loc[1]]
		if isAreaCode(run[:3]) {
			set.addSource(KindPossiblePhone, run, n.source(text, loc[0], loc[1]))
		}
	}

	lower := strings.ToLower(text)
	for _, p := range spelledPhrasePatterns {
		for _, m := range p.FindAllString(lower, -1) {
			if longDigitRunPattern.MatchString(ConvertWordsToNumbers(m)) {
				set.add(KindSpelledOut, m)
			}
		}
	}
	for _, m := range digitWordRunPattern.FindAllString(lower, -1) {
		if spellsPhoneNumber(m) {
			set.add(KindSpelledOut, m)
		}
	}

	for _, p := range obscuredPhonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			set.add(KindObscured, m)
		}
	}

	return set.list()
}

// spellsPhoneNumber reports whether a run of digit words converts to at
// least ten digits once the separators between them are dropped.
func spellsPhoneNumber(run string) bool {
	converted := spelledSeparatorPattern.ReplaceAllLiteralString(ConvertWordsToNumbers(run), "")
	return longDigitRunPattern.MatchString(converted)
}
