package paymentmpesa

import (
	"regexp"
	"strings"
	"unicode"
)

// Safaricom and Airtel numbers: 9 digits starting with 7 or 1, with an
// optional 0, +254 or 254 prefix.
var kenyanPhonePattern = regexp.MustCompile(`^(0|\+254|254)?([17]\d{8})$`)

func stripWhitespace(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}

func isValidKenyanPhone(phone string) bool {
	return kenyanPhonePattern.MatchString(stripWhitespace(phone))
}

// normalizeKenyanPhone canonicalizes to the 254XXXXXXXXX form.
// The input must already have passed isValidKenyanPhone.
func normalizeKenyanPhone(phone string) string {
	cleaned := stripWhitespace(phone)

	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "254" + cleaned[1:]
	case strings.HasPrefix(cleaned, "+254"):
		return cleaned[1:]
	case strings.HasPrefix(cleaned, "254"):
		return cleaned
	}

	return "254" + cleaned
}
