package checks

import (
	"fmt"
	"regexp"
	"strings"

	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

// Patterns that correlate with fake or throwaway addresses: throwaway
// prefixes followed by digits, keyboard walks, trivial sequences, very
// long lowercase runs, and numeric-only local parts.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`test\d+@`),
	regexp.MustCompile(`fake\d*@`),
	regexp.MustCompile(`spam\d*@`),
	regexp.MustCompile(`trash\d*@`),
	regexp.MustCompile(`temp\d*@`),
	regexp.MustCompile(`dummy\d*@`),
	regexp.MustCompile(`asdf`),
	regexp.MustCompile(`qwerty`),
	regexp.MustCompile(`12345`),
	regexp.MustCompile(`[a-z]{20,}`),
	regexp.MustCompile(`^\d+@`),
}

// Disposable reports whether the domain belongs to a known burner
// provider.
func Disposable(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckDisposable

	_, domain, ok := splitAddress(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Invalid email format",
			Details: "Cannot extract domain from email",
		}
	}

	if _, found := data.Disposable[strings.ToLower(domain)]; found {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Disposable email detected",
			Details: fmt.Sprintf("Domain %s is in disposable list", domain),
		}
	}
	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "Not a disposable email",
		Details: "Domain not in known disposable providers",
	}
}

// SuspiciousPatterns scans the whole lower-cased address against the
// fixed pattern list.
func SuspiciousPatterns(email string) models.CheckResult {
	kind := models.CheckSuspiciousPatterns

	lowered := strings.ToLower(email)
	matched := 0
	for _, p := range suspiciousPatterns {
		if p.MatchString(lowered) {
			matched++
		}
	}

	if matched > 0 {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Suspicious patterns detected",
			Details: fmt.Sprintf("Found %d suspicious pattern(s)", matched),
		}
	}
	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "No suspicious patterns",
		Details: "Email looks legitimate",
	}
}

// SuspiciousTLD reports whether the domain ends with a high-abuse TLD.
func SuspiciousTLD(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckSuspiciousTLD

	_, domain, ok := splitAddress(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   true,
			Message: "TLD check skipped",
			Details: "Cannot extract domain from email",
		}
	}

	lowered := strings.ToLower(domain)
	for _, tld := range data.SuspiciousTLDs {
		if strings.HasSuffix(lowered, tld) {
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "Suspicious TLD detected",
				Details: fmt.Sprintf("TLD %s is frequently used for abuse (high risk)", tld),
			}
		}
	}
	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "TLD looks normal",
		Details: "Domain TLD not in high-risk list",
	}
}

// TypoDetection matches the domain against the known typo-correction
// map and suggests the corrected address on a hit.
func TypoDetection(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckTypoDetection

	local, domain, ok := splitAddress(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   true,
			Message: "Typo check skipped",
			Details: "Cannot extract domain from email",
		}
	}

	if corrected, found := data.TypoCorrections[strings.ToLower(domain)]; found {
		return models.CheckResult{
			Check:      kind,
			Valid:      false,
			Message:    "Possible typo in domain",
			Details:    fmt.Sprintf("Did you mean %s instead of %s?", corrected, domain),
			Suggestion: local + "@" + corrected,
		}
	}
	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "No typos detected",
		Details: "Domain does not match known misspellings",
	}
}
