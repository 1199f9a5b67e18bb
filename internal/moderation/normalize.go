package moderation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

var (
	// numberWordPattern matches any key of numberWords as a whole word.
	// Longer words come first so "fourteen" is never read as "four".
	numberWordPattern = regexp.MustCompile(`\b(` + alternation(keys(numberWords)) + `)\b`)

	// formatChars are zero-width joiners, BOMs and other invisible format runes.
	formatChars = runes.In(unicode.Cf)

	leet = map[byte]string{'@': "a", '!': "1", '$': "s", '&': "and"}
)

// separators is the punctuation people put between digits. The whitespace
// set matches RE2's \s.
const separators = " \t\n\f\r-.()[]/\\,_+"

// ConvertWordsToNumbers lowercases text and replaces every whole-word digit
// name ("zero" through "twenty", and "o") with its numeral.
func ConvertWordsToNumbers(text string) string {
	lower := strings.ToLower(text)
	return numberWordPattern.ReplaceAllStringFunc(lower, func(w string) string {
		return numberWords[w]
	})
}

// NormalizeText collapses superficial obfuscation for detection: NFKC,
// format characters dropped, lowercased, digit words converted, separators
// stripped and leet characters folded. The result is never shown to users;
// sanitization always works on the original.
func NormalizeText(text string) string {
	return normalize(text).text
}

// span is a byte range of the original text.
type span struct{ start, end int }

// normalized is NormalizeText output that remembers, for every output byte,
// the span of the original it was produced from.
type normalized struct {
	text  string
	spans []span
}

// source returns the original text behind output bytes [i, j).
func (n normalized) source(orig string, i, j int) string {
	return orig[n.spans[i].start:n.spans[j-1].end]
}

type builder struct {
	b     strings.Builder
	spans []span
}

func (b *builder) emit(s string, sp span) {
	b.b.WriteString(s)
	for range len(s) {
		b.spans = append(b.spans, sp)
	}
}

func (b *builder) result() normalized {
	return normalized{text: b.b.String(), spans: b.spans}
}

func normalize(text string) normalized {
	folded := fold(text)

	// Digit words become numerals spanning the whole word.
	var conv builder
	last := 0
	for _, m := range numberWordPattern.FindAllStringIndex(folded.text, -1) {
		for i := last; i < m[0]; i++ {
			conv.emit(folded.text[i:i+1], folded.spans[i])
		}
		word := folded.text[m[0]:m[1]]
		conv.emit(numberWords[word], span{folded.spans[m[0]].start, folded.spans[m[1]-1].end})
		last = m[1]
	}
	for i := last; i < len(folded.text); i++ {
		conv.emit(folded.text[i:i+1], folded.spans[i])
	}
	converted := conv.result()

	var out builder
	for i := 0; i < len(converted.text); i++ {
		c := converted.text[i]
		switch {
		case strings.IndexByte(separators, c) >= 0:
		case leet[c] != "":
			out.emit(leet[c], converted.spans[i])
		default:
			out.emit(converted.text[i:i+1], converted.spans[i])
		}
	}
	return out.result()
}

// fold applies NFKC segment by segment, drops format characters and invalid
// bytes, and lowercases.
func fold(text string) normalized {
	var b builder
	for i := 0; i < len(text); {
		n := norm.NFKC.NextBoundaryInString(text[i:], true)
		if n <= 0 {
			_, n = utf8.DecodeRuneInString(text[i:])
		}
		seg := strings.ToValidUTF8(text[i:i+n], "")
		seg = strings.Map(func(r rune) rune {
			if formatChars.Contains(r) {
				return -1
			}
			return r
		}, norm.NFKC.String(seg))
		b.emit(strings.ToLower(seg), span{i, i + n})
		i += n
	}
	return b.result()
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// alternation joins words longest first into a regexp alternation.
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
