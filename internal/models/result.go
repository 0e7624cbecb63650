package models

// CheckKind identifies one validation check in the pipeline.
type CheckKind string

const (
	CheckFormat             CheckKind = "format"
	CheckDomainExists       CheckKind = "domain_exists"
	CheckMXRecords          CheckKind = "mx_records"
	CheckDisposable         CheckKind = "disposable"
	CheckSuspiciousPatterns CheckKind = "suspicious_patterns"
	CheckSuspiciousTLD      CheckKind = "suspicious_tld"
	CheckTypoDetection      CheckKind = "typo_detection"
	CheckUsernameQuality    CheckKind = "username_quality"
	CheckDataBreach         CheckKind = "data_breach"
	CheckFraudDatabase      CheckKind = "fraud_database"
	CheckEmailType          CheckKind = "email_type"
)

// Labels assigned by the email type classifier.
const (
	TypeTemporary = "temporary"
	TypeStudent   = "student"
	TypeWork      = "work"
	TypePersonal  = "personal"
)

// CheckResult is the outcome of a single check. Check, Valid and Message
// are always set; the remaining fields are populated only by the checks
// they belong to (risk score and issues by username_quality, suggestion
// by typo_detection, breach count by data_breach, and so on).
type CheckResult struct {
	Check       CheckKind `json:"check"`
	Valid       bool      `json:"valid"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	RiskScore   int       `json:"risk_score,omitempty"`
	Issues      []string  `json:"issues,omitempty"`
	Suggestion  string    `json:"suggestion,omitempty"`
	BreachCount int       `json:"breach_count,omitempty"`
	EmailType   string    `json:"email_type,omitempty"`
	Confidence  int       `json:"confidence,omitempty"`
	Company     string    `json:"company,omitempty"`
}

// ValidationResult is the outcome of a full pipeline run for one address.
// If the address fails the format check, Checks holds that single result
// and Score is 0. Never mutated after it is returned.
type ValidationResult struct {
	Email    string        `json:"email"`
	Valid    bool          `json:"valid"`
	Score    float64       `json:"score"`
	Checks   []CheckResult `json:"checks"`
	Summary  string        `json:"summary"`
	Duration string        `json:"duration,omitempty"`
}

// CheckFor returns the result for the given kind, if that check ran.
func (r ValidationResult) CheckFor(kind CheckKind) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Check == kind {
			return c, true
		}
	}
	return CheckResult{}, false
}

// FailedChecks returns the kinds of all checks that did not pass,
// in the order they appear in Checks.
func (r ValidationResult) FailedChecks() []CheckKind {
	var out []CheckKind
	for _, c := range r.Checks {
		if !c.Valid {
			out = append(out, c.Check)
		}
	}
	return out
}
