package paymentmpesa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidKenyanPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "local format", phone: "0712345678", valid: true},
		{name: "local format 1xx prefix", phone: "0110123456", valid: true},
		{name: "international with plus", phone: "+254712345678", valid: true},
		{name: "international without plus", phone: "254712345678", valid: true},
		{name: "bare subscriber number", phone: "712345678", valid: true},
		{name: "embedded whitespace", phone: " 0712 345 678 ", valid: true},
		{name: "too short", phone: "071234567", valid: false},
		{name: "too long", phone: "07123456789", valid: false},
		{name: "wrong subscriber prefix", phone: "0812345678", valid: false},
		{name: "letters", phone: "07123A5678", valid: false},
		{name: "empty", phone: "", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidKenyanPhone(tc.phone))
		})
	}
}

func TestNormalizeKenyanPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{name: "local zero prefix", phone: "0712345678", expected: "254712345678"},
		{name: "plus prefix", phone: "+254712345678", expected: "254712345678"},
		{name: "already normalized", phone: "254712345678", expected: "254712345678"},
		{name: "bare subscriber number", phone: "712345678", expected: "254712345678"},
		{name: "whitespace stripped", phone: " 0700 111 222", expected: "254700111222"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeKenyanPhone(tc.phone))
		})
	}
}
