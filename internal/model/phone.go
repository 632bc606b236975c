package model

import (
	"fmt"
	"strings"
)

// NormalizePhone reduces a raw phone string to its 10 US digits. A leading
// country code 1 is dropped. Returns false when the input does not contain
// exactly ten digits after cleanup.
func NormalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return "", false
	}
	return d, true
}

// FormatPhone renders ten digits as (XXX) XXX-XXXX. Inputs that are not ten
// digits are returned unchanged.
func FormatPhone(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}

// NormalizeDomain extracts the bare registrable host from a URL or domain
// string: scheme, "www." prefix, path, and port are stripped and the result
// lowercased. Empty input returns empty.
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	if !strings.Contains(s, ".") {
		return ""
	}
	return s
}
