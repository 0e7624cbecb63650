package checks

import (
	"fmt"
	"regexp"
	"strings"

	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

var studentLocalPattern = regexp.MustCompile(`^(student\d+|s\d+)$`)

// EmailType assigns exactly one label to the address. The ladder runs
// from the most specific signal down: disposable domains are always
// "temporary", educational domains and student-shaped usernames are
// "student", verified companies, work keywords and custom domains are
// "work", and major-provider or unclassifiable addresses are
// "personal". This check never fails an address; it only informs.
func EmailType(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckEmailType

	local, domain, ok := splitAddress(strings.ToLower(email))
	if !ok {
		return classified(kind, models.TypePersonal, 50, "Could not classify address")
	}

	if _, found := data.Disposable[domain]; found {
		return classified(kind, models.TypeTemporary, 100, "Disposable mailbox provider")
	}

	for _, suffix := range data.EduSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return classified(kind, models.TypeStudent, 95, "Educational institution domain")
		}
	}
	if studentLocalPattern.MatchString(local) ||
		(isAllDigits(local) && strings.Contains(domain, "edu")) {
		return classified(kind, models.TypeStudent, 85, "Username follows a student ID pattern")
	}

	if company, found := data.VerifiedCompanies[local+"@"+domain]; found {
		res := classified(kind, models.TypeWork, 100, fmt.Sprintf("Verified address at %s", company))
		res.Company = company
		return res
	}
	if matchesWorkKeyword(local, data.WorkKeywords) {
		return classified(kind, models.TypeWork, 75, "Role-style username on a business address")
	}

	_, major := data.MajorProviders[domain]
	if !major {
		suspicious := false
		for _, tld := range data.SuspiciousTLDs {
			if strings.HasSuffix(domain, tld) {
				suspicious = true
				break
			}
		}
		if !suspicious {
			return classified(kind, models.TypeWork, 70, "Custom organization domain")
		}
	}

	if major {
		confidence := 60
		if strings.ContainsAny(local, "._") || len(local) >= 5 {
			confidence = 80
		}
		return classified(kind, models.TypePersonal, confidence, "Major consumer mail provider")
	}

	return classified(kind, models.TypePersonal, 50, "No stronger classification signal")
}

func matchesWorkKeyword(local string, keywords map[string]struct{}) bool {
	if _, ok := keywords[local]; ok {
		return true
	}
	for _, token := range strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	}) {
		if _, ok := keywords[token]; ok {
			return true
		}
	}
	return false
}

func classified(kind models.CheckKind, label string, confidence int, details string) models.CheckResult {
	return models.CheckResult{
		Check:      kind,
		Valid:      true,
		Message:    fmt.Sprintf("Classified as %s email", label),
		Details:    details,
		EmailType:  label,
		Confidence: confidence,
	}
}
