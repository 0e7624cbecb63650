package checks

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

// Weights for the additive username risk score.
const (
	weightVeryShort        = 15
	weightVeryLong         = 10
	weightLowVowelRatio    = 20
	weightConsonantCluster = 15
	weightTrailingDigits   = 15
	weightExtraUnderscore  = 10
	weightYearLike         = 8
	weightRepeatedChars    = 12
	weightFraudKeyword     = 25
	weightAllDigits        = 30
	weightLeadingDigit     = 10
	weightPrefixDigits     = 18
	weightKeyboardWalk     = 20
	weightOddCapitals      = 5
)

// An accumulated score below this threshold keeps the check valid.
const usernameRiskThreshold = 26

var (
	trailingDigitsPattern = regexp.MustCompile(`\d{3,}$`)
	yearLikePattern       = regexp.MustCompile(`(19|20)\d{2}`)
	prefixDigitsPattern   = regexp.MustCompile(`^[a-zA-Z]{1,3}\d+$`)
)

// UsernameQuality scores the local part with weighted heuristic signals
// and accumulates an ordered list of triggered issues. The check fails
// once the total reaches the suspicious band.
func UsernameQuality(email string, data *refdata.Store) models.CheckResult {
	kind := models.CheckUsernameQuality

	local, _, ok := splitAddress(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Invalid email format",
			Details: "Cannot extract username from email",
		}
	}

	score := 0
	var issues []string
	add := func(points int, issue string) {
		score += points
		issues = append(issues, issue)
	}

	lowered := strings.ToLower(local)
	hasSeparator := strings.ContainsAny(local, "._")

	if len(local) <= 3 {
		add(weightVeryShort, "Very short username")
	} else if len(local) >= 20 {
		add(weightVeryLong, "Unusually long username")
	}

	vowels, consonants := countLetters(lowered)
	if consonants > 0 && !hasSeparator {
		if float64(vowels)/float64(consonants) < 0.25 {
			add(weightLowVowelRatio, "Low vowel-to-consonant ratio")
		}
	}

	if !hasSeparator && hasOddConsonantRun(lowered, data.NameClusters) {
		add(weightConsonantCluster, "Unusual consonant cluster")
	}

	if trailingDigitsPattern.MatchString(local) {
		add(weightTrailingDigits, "Ends with a long digit sequence")
	}

	if n := strings.Count(local, "_"); n > 1 {
		add(weightExtraUnderscore*(n-1), fmt.Sprintf("Contains %d underscores", n))
	}

	if yearLikePattern.MatchString(local) {
		add(weightYearLike, "Contains a year-like number")
	}

	if hasRepeatedRun(local) {
		add(weightRepeatedChars, "Repeated characters")
	}

	for _, keyword := range data.FraudKeywords {
		if strings.Contains(lowered, keyword) {
			add(weightFraudKeyword, fmt.Sprintf("Contains fraud keyword %q", keyword))
		}
	}

	if isAllDigits(local) {
		add(weightAllDigits, "Username is entirely numeric")
	} else if len(local) > 0 && unicode.IsDigit(rune(local[0])) {
		add(weightLeadingDigit, "Starts with a digit")
	}

	if prefixDigitsPattern.MatchString(local) {
		add(weightPrefixDigits, "Short letter prefix followed by digits")
	}

	for _, seq := range data.KeyboardSequences {
		if strings.Contains(lowered, seq) {
			add(weightKeyboardWalk, "Contains a keyboard pattern")
			break
		}
	}

	if hasOddCapitalization(local) {
		add(weightOddCapitals, "Irregular capitalization")
	}

	return models.CheckResult{
		Check:     kind,
		Valid:     score < usernameRiskThreshold,
		Message:   riskVerdict(score),
		Details:   fmt.Sprintf("Username risk score: %d", score),
		RiskScore: score,
		Issues:    issues,
	}
}

func riskVerdict(score int) string {
	switch {
	case score == 0:
		return "Username looks natural"
	case score <= 10:
		return "Minor username irregularities"
	case score < usernameRiskThreshold:
		return "Username has some concerns"
	case score <= 50:
		return "Suspicious username"
	default:
		return "High risk username"
	}
}

func countLetters(s string) (vowels, consonants int) {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
		default:
			consonants++
		}
	}
	return vowels, consonants
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// hasOddConsonantRun reports a run of 3+ consecutive consonants that is
// not one of the clusters common in real names.
func hasOddConsonantRun(s string, clusters map[string]struct{}) bool {
	run := 0
	runStart := 0
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) && !isVowel(r) {
			if run == 0 {
				runStart = i
			}
			run++
			continue
		}
		if run >= 3 && !isNameCluster(string(runes[runStart:runStart+run]), clusters) {
			return true
		}
		run = 0
	}
	if run >= 3 && !isNameCluster(string(runes[runStart:runStart+run]), clusters) {
		return true
	}
	return false
}

func isNameCluster(run string, clusters map[string]struct{}) bool {
	if len(run) != 3 {
		return false
	}
	_, ok := clusters[run]
	return ok
}

// hasRepeatedRun reports any character repeated 3+ times consecutively.
func hasRepeatedRun(s string) bool {
	run := 1
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// hasOddCapitalization reports uppercase letters appearing anywhere
// except as a leading capital.
func hasOddCapitalization(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return false
	}
	first := rune(s[0])
	return !unicode.IsUpper(first)
}
