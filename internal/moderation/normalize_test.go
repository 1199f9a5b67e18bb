package moderation

import "testing"

func TestConvertWordsToNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"one two three", "1 2 3"},
		{"ONE Two thrEE", "1 2 3"},
		{"five-o-five", "5-0-5"},
		{"twenty twelve", "20 12"},
		{"fourteen four", "14 4"},
		{"tool", "tool"},
		{"someone at the stone", "someone at the stone"},
		{"zero", "0"},
		{"", ""},
	}

	for _, tt := range tests {
		got := ConvertWordsToNumbers(tt.input)
		if got != tt.want {
			t.Errorf("ConvertWordsToNumbers(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"separators stripped", "(212) 555-1234", "2125551234"},
		{"brackets and slashes", "[212]/555\\1234", "2125551234"},
		{"commas underscores plus", "+1,212_555_1234", "12125551234"},
		{"number words", "two one two five five five", "212555"},
		{"leet substitutions", "b@d!$&", "bad1sand"},
		{"fullwidth digits", "\uff12\uff11\uff12\uff15\uff15\uff15\uff11\uff12\uff13\uff14", "2125551234"},
		{"zero width split", "212\u200b555\u200d1234", "2125551234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAreaCode(t *testing.T) {
	for _, code := range []string{"201", "212", "415", "989"} {
		if !isAreaCode(code) {
			t.Errorf("isAreaCode(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"000", "555", "123", "911", ""} {
		if isAreaCode(code) {
			t.Errorf("isAreaCode(%q) = true, want false", code)
		}
	}
}
