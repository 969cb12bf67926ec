package service

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"  +1  555   0100 ": "+1 555 0100",
		"555  0100":         "555 0100",
		"\t(415)\n555-1234": "(415) 555-1234",
		"":                  "",
		"   ":               "",
	}
	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"example.com":         "https://example.com",
		"http://x.com":        "http://x.com",
		"  https://x.com/a  ": "https://x.com/a",
		"HTTPS://Upper.com":   "HTTPS://Upper.com",
		"httpbin.org/status":  "https://httpbin.org/status",
		"":                    "",
		"   ":                 "",
		"www.cafe.sg/contact": "https://www.cafe.sg/contact",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"Info@Example.COM":          "info@example.com",
		"not-an-email":              "",
		"  hello@cafe.sg ":          "hello@cafe.sg",
		"mailto:Contact@Bistro.com": "contact@bistro.com",
		"BAD":                       "",
		"user@localhost":            "",
		"user@example.c":            "",
		"@example.com":              "",
		"info@café.com":             "info@xn--caf-dma.com",
		"a@b..com":                  "",
		"a@.example.com":            "",
		"sales@mail.example.co.uk":  "sales@mail.example.co.uk",
		"":                          "",
	}
	for in, want := range tests {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizerPhoneRegion(t *testing.T) {
	n := Normalizer{PhoneRegion: "us"}

	if got := n.Phone(" (415)  555-1234 "); got != "+1 415-555-1234" {
		t.Fatalf("expected international format, got %q", got)
	}
	if got := n.Phone("12  345"); got != "12 345" {
		t.Fatalf("invalid numbers should keep collapsed text, got %q", got)
	}
	if got := (Normalizer{}).Phone("  +1  555   0100 "); got != "+1 555 0100" {
		t.Fatalf("default normalizer must not reformat, got %q", got)
	}
}
