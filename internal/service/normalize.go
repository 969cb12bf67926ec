package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@(?:[a-z0-9-]+\.)+[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

// NormalizePhone collapses whitespace runs to a single space and trims the ends.
// The digits themselves are not validated.
func NormalizePhone(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// NormalizeURL trims the value and prefixes https:// when no http(s) scheme is present.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}

// NormalizeEmail lowercases and validates an address, returning "" when it is malformed.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	email = strings.TrimPrefix(email, "mailto:")
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return ""
	}
	if domain := email[at+1:]; !isASCII(domain) {
		ascii, err := idnaProfile.ToASCII(domain)
		if err != nil || ascii == "" {
			return ""
		}
		email = email[:at+1] + ascii
	}

	if !emailPattern.MatchString(email) {
		return ""
	}
	return email
}

// Normalizer applies the field rules to a lead. A non-empty PhoneRegion additionally
// formats numbers that parse as valid for that region in international format.
type Normalizer struct {
	PhoneRegion string
}

// Phone normalizes a phone number, keeping the collapsed text when it cannot be parsed.
func (n Normalizer) Phone(raw string) string {
	cleaned := NormalizePhone(raw)
	region := strings.ToUpper(strings.TrimSpace(n.PhoneRegion))
	if cleaned == "" || region == "" {
		return cleaned
	}
	number, err := phonenumbers.Parse(cleaned, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return cleaned
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

func (n Normalizer) URL(raw string) string { return NormalizeURL(raw) }

func (n Normalizer) Email(raw string) string { return NormalizeEmail(raw) }

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
