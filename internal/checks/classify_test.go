package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

func TestEmailType(t *testing.T) {
	data := refdata.NewStore()
	data.VerifiedCompanies["ceo@bigco.com"] = "BigCo Inc"

	tests := []struct {
		name       string
		email      string
		label      string
		confidence int
	}{
		{"disposable provider", "anyone@mailinator.com", models.TypeTemporary, 100},
		{"edu domain", "student@mit.edu", models.TypeStudent, 95},
		{"foreign edu domain", "jlee@u-tokyo.ac.jp", models.TypeStudent, 95},
		{"student id shaped local", "student123@gmail.com", models.TypeStudent, 85},
		{"short student id", "s4481@gmail.com", models.TypeStudent, 85},
		{"numeric id on edu-ish domain", "20210233@eduservice.org", models.TypeStudent, 85},
		{"verified company", "ceo@bigco.com", models.TypeWork, 100},
		{"role mailbox", "info@example.com", models.TypeWork, 75},
		{"role token in local", "sales.emea@example.com", models.TypeWork, 75},
		{"custom organization domain", "jane@acme-corp.com", models.TypeWork, 70},
		{"personal with separator", "jane.doe@gmail.com", models.TypePersonal, 80},
		{"personal long local", "jonathan@gmail.com", models.TypePersonal, 80},
		{"personal short local", "bob@gmail.com", models.TypePersonal, 60},
		{"suspicious tld falls through", "founder@startup.xyz", models.TypePersonal, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EmailType(tt.email, data)
			assert.True(t, res.Valid, "classification never fails an address")
			assert.Equal(t, tt.label, res.EmailType)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestEmailTypeVerifiedCompanyCarriesName(t *testing.T) {
	data := refdata.NewStore()
	data.VerifiedCompanies["ceo@bigco.com"] = "BigCo Inc"

	res := EmailType("CEO@BigCo.com", data)
	assert.Equal(t, models.TypeWork, res.EmailType)
	assert.Equal(t, "BigCo Inc", res.Company)
	assert.Equal(t, 100, res.Confidence)
}

func TestFraudDatabase(t *testing.T) {
	data := refdata.NewStore()
	data.FraudEmails["bad@evil-site.com"] = struct{}{}
	data.FraudDomains["evil-site.com"] = struct{}{}
	data.FraudEmails["onescammer@gmail.com"] = struct{}{}
	data.FraudDomains["gmail.com"] = struct{}{}
	data.VerifiedCompanies["ceo@bigco.com"] = "BigCo Inc"

	tests := []struct {
		name    string
		email   string
		valid   bool
		message string
	}{
		{"exact fraud match", "bad@evil-site.com", false, "Found in fraud database"},
		{"case insensitive match", "  BAD@Evil-Site.COM ", false, "Found in fraud database"},
		{"verified company", "ceo@bigco.com", true, "Verified company email"},
		{"sibling on fraud domain", "other@evil-site.com", false, "Domain associated with fraud"},
		{"major provider not tainted", "other@gmail.com", true, "Not in fraud database"},
		{"clean address", "clean@example.com", true, "Not in fraud database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FraudDatabase(tt.email, data)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}
