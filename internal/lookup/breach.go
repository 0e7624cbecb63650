package lookup

import (
	"bufio"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mailspectre/internal/models"
)

// DefaultBreachURL is the public k-anonymity range endpoint.
const DefaultBreachURL = "https://api.pwnedpasswords.com/range/"

// DefaultBreachTimeout keeps the breach lookup from delaying validation.
const DefaultBreachTimeout = 5 * time.Second

// BreachClient checks whether an address appears in a public breach
// corpus without ever sending the address, or its full hash, to the
// remote service. Only the first 5 hex characters of the SHA-1 digest
// leave the process; the returned candidate suffixes are matched
// locally (k-anonymity).
type BreachClient struct {
	baseURL string
	client  *http.Client
}

// NewBreachClient builds a client for the given range endpoint.
// Empty baseURL selects the public default.
func NewBreachClient(baseURL string, timeout time.Duration) *BreachClient {
	if baseURL == "" {
		baseURL = DefaultBreachURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultBreachTimeout
	}
	return &BreachClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Check queries the range endpoint for the address's hash prefix and
// scans the response for an exact suffix match. Any failure (network
// error, non-200 response) degrades to valid:true with an explanatory
// message: an unavailable side lookup must never count against the
// address.
func (b *BreachClient) Check(ctx context.Context, email string) models.CheckResult {
	kind := models.CheckDataBreach

	sum := sha1.Sum([]byte(strings.ToLower(email)))
	digest := strings.ToUpper(fmt.Sprintf("%x", sum))
	prefix, suffix := digest[:5], digest[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+prefix, nil)
	if err != nil {
		return breachUnavailable(err.Error())
	}
	req.Header.Set("User-Agent", "MailSpectre-Validator")

	resp, err := b.client.Do(req)
	if err != nil {
		return breachUnavailable(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return breachUnavailable(fmt.Sprintf("breach service returned status %d", resp.StatusCode))
	}

	// Response lines are "SUFFIX:COUNT".
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, countStr, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(candidate, suffix) {
			count, _ := strconv.Atoi(strings.TrimSpace(countStr))
			if count < 1 {
				count = 1
			}
			return models.CheckResult{
				Check:       kind,
				Valid:       false,
				Message:     "Found in data breach",
				Details:     fmt.Sprintf("This address appears in known breach data (%d occurrence(s))", count),
				BreachCount: count,
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return breachUnavailable(err.Error())
	}

	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "No known breaches",
		Details: "Address not found in known breach data",
	}
}

// UnavailableResult is the degraded result for an abandoned breach
// lookup. Exported so the aggregator's cancellation path matches the
// client's own failure path exactly.
func UnavailableResult() models.CheckResult {
	return breachUnavailable("lookup abandoned before completion")
}

func breachUnavailable(reason string) models.CheckResult {
	return models.CheckResult{
		Check:   models.CheckDataBreach,
		Valid:   true,
		Message: "Breach check unavailable",
		Details: "Could not verify breach status: " + reason,
	}
}
