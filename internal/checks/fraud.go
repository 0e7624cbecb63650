package checks

import (
	"fmt"
	"strings"

	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

// FraudDatabase cross-references the address against the loaded fraud
// and verified-company sets. Priority order: exact fraud match, exact
// verified-company match, fraud domain (major providers exempt), then
// neutral. A fraud hit forces the overall verdict invalid regardless of
// every other check.
func FraudDatabase(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckFraudDatabase

	lowered := strings.ToLower(strings.TrimSpace(email))

	if _, found := data.FraudEmails[lowered]; found {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Found in fraud database",
			Details: "This address has been reported for fraudulent activity",
		}
	}

	if company, found := data.VerifiedCompanies[lowered]; found {
		return models.CheckResult{
			Check:   kind,
			Valid:   true,
			Message: "Verified company email",
			Details: fmt.Sprintf("Address belongs to verified company: %s", company),
			Company: company,
		}
	}

	if _, domain, ok := splitAddress(lowered); ok {
		_, fraudDomain := data.FraudDomains[domain]
		_, major := data.MajorProviders[domain]
		// Shared providers host millions of unrelated mailboxes; one
		// reported address must not taint the whole domain.
		if fraudDomain && !major {
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "Domain associated with fraud",
				Details: fmt.Sprintf("Domain %s appears in fraud reports", domain),
			}
		}
	}

	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "Not in fraud database",
		Details: "No fraud reports found for this address",
	}
}
