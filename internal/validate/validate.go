// Package validate holds the checkout form field validators. Each validator
// takes a raw string and reports validity; optionality of a field (empty
// email, empty postal code) is decided by the caller, not here.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalRe = regexp.MustCompile(`^\d{6}$`)
)

// Name requires a full name: at least two whitespace-separated words,
// each at least two characters long.
func Name(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			return false
		}
	}
	return true
}

// Phone accepts a Russian mobile number: after dropping everything but
// digits and '+', it must start with +7 and be exactly 12 characters.
func Phone(s string) bool {
	clean := stripPhone(s)
	return strings.HasPrefix(clean, "+7") && len(clean) == 12
}

// Email checks the local@domain.tld shape. Empty input is invalid here;
// the form layer treats an empty email as "not provided".
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// PostalCode requires exactly six digits, ignoring whitespace
func PostalCode(s string) bool {
	return postalRe.MatchString(strings.Join(strings.Fields(s), ""))
}

// FormatPhone normalizes user input to the +7 (XXX) XXX-XX-XX display
// mask while typing. Leading 7 or 8 is rewritten to +7, anything beyond
// 12 significant characters is truncated.
func FormatPhone(s string) string {
	value := stripPhone(s)

	if !strings.HasPrefix(value, "+7") && len(value) > 0 {
		if strings.HasPrefix(value, "7") || strings.HasPrefix(value, "8") {
			value = "+7" + value[1:]
		} else {
			value = "+7" + value
		}
	}

	if len(value) > 12 {
		value = value[:12]
	}

	if len(value) < 2 {
		return value
	}

	var b strings.Builder
	b.WriteString(value[:2]) // +7
	if len(value) > 2 {
		b.WriteString(" (")
		b.WriteString(value[2:min(5, len(value))])
	}
	if len(value) > 5 {
		b.WriteString(") ")
		b.WriteString(value[5:min(8, len(value))])
	}
	if len(value) > 8 {
		b.WriteString("-")
		b.WriteString(value[8:min(10, len(value))])
	}
	if len(value) > 10 {
		b.WriteString("-")
		b.WriteString(value[10:min(12, len(value))])
	}
	return b.String()
}

func stripPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
