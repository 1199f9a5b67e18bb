package moderation

import "testing"

func TestDetectEmails(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		text  string
	}{
		{"plain", "reach me at john.doe@gmail.com", KindCanonical, "john.doe@gmail.com"},
		{"plain domain mention", "reach me at john.doe@gmail.com", KindDomainMention, ""},
		{"spaced", "john @ example . com", KindCanonical, "john @ example . com"},
		{"bracket tokens", "jane[at]example[dot]com", KindCanonical, "jane[at]example[dot]com"},
		{"spelled at dot", "jane at example dot com", KindCanonical, "jane at example dot com"},
		{"spaced bracket tokens", "jane [at] example [dot] com", KindObscured, "jane [at] example [dot] com"},
		{"parenthesised tokens", "jane (at) example (dot) com", KindObscured, "jane (at) example (dot) com"},
		{"angle tokens", "jane <at> example <dot> com", KindObscured, "jane <at> example <dot> com"},
		{"provider hint", "email me at janedoe gmail", KindDomainMention, "email me at janedoe gmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectEmails(tt.input)
			if !hasDetection(got, tt.kind, tt.text) {
				t.Errorf("DetectEmails(%q) = %v, want a %s detection %q", tt.input, got, tt.kind, tt.text)
			}
		})
	}
}

func TestDetectEmails_Clean(t *testing.T) {
	messages := []string{
		"Looking forward to the shoot tomorrow!",
		"See you at the venue at noon",
		"Contact the host through the app",
		"The rate is 50 @ hour",
		"",
	}

	for _, msg := range messages {
		if got := DetectEmails(msg); len(got) != 0 {
			t.Errorf("DetectEmails(%q) = %v, want none", msg, got)
		}
	}
}

func TestDetectEmails_Dedup(t *testing.T) {
	got := DetectEmails("jane@example.com, again jane@example.com")
	count := 0
	for _, d := range got {
		if d.String() == "jane@example.com" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d entries for jane@example.com, want 1 (all: %v)", count, got)
	}
}

func TestDetectionString(t *testing.T) {
	tests := []struct {
		d    Detection
		want string
	}{
		{Detection{Kind: KindCanonical, Text: "555-123-4567"}, "555-123-4567"},
		{Detection{Kind: KindObscured, Text: "5 5 5"}, `Obscured: "5 5 5"`},
		{Detection{Kind: KindSpelledOut, Text: "call me"}, `Spelled out: "call me"`},
		{Detection{Kind: KindPossiblePhone, Text: "2125551234"}, "Possible phone: 2125551234"},
		{Detection{Kind: KindDomainMention, Text: "email me gmail"}, `Domain mention: "email me gmail"`},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
