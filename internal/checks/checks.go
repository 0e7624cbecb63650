// Package checks contains the pure, non-blocking analyzers of the
// validation pipeline. Every function takes the normalized address plus
// the shared reference data and returns a single CheckResult; none
// performs I/O, so they are safe to run inline on the request path.
package checks

import (
	"regexp"
	"strings"

	"mailspectre/internal/models"
)

// Permissive RFC-5322-inspired shape: local part, @, domain labels,
// and a TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Format is the gatekeeper check: when it fails, the aggregator returns
// immediately without spending DNS or HTTP calls on malformed input.
func Format(email string) models.CheckResult {
	valid := emailPattern.MatchString(email)

	message := "Invalid email format"
	details := "Email does not match RFC 5322 format"
	if valid {
		message = "Valid email format"
		details = "Email follows standard format"
	}
	return models.CheckResult{
		Check:   models.CheckFormat,
		Valid:   valid,
		Message: message,
		Details: details,
	}
}

// splitAddress returns the local part and domain of an address.
func splitAddress(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}
