// Package validator wires the individual checks into the scoring
// pipeline: normalize, format gate, concurrent network checks, inline
// heuristics, then aggregate into a single verdict.
package validator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/idna"

	"mailspectre/internal/cache"
	"mailspectre/internal/checks"
	"mailspectre/internal/lookup"
	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
)

// DomainResolver is the engine's view of the DNS layer.
type DomainResolver interface {
	CheckDomain(ctx context.Context, email string) models.CheckResult
	CheckMX(ctx context.Context, email string) models.CheckResult
}

// BreachChecker is the engine's view of the breach lookup.
type BreachChecker interface {
	Check(ctx context.Context, email string) models.CheckResult
}

// Checks whose failure alone makes the overall verdict invalid.
var criticalChecks = map[models.CheckKind]struct{}{
	models.CheckFormat:        {},
	models.CheckDomainExists:  {},
	models.CheckMXRecords:     {},
	models.CheckFraudDatabase: {},
}

// Options configures an Engine. Zero values select defaults; Resolver
// and Breach may be overridden for tests.
type Options struct {
	DNSTimeout      time.Duration
	BreachURL       string
	BreachTimeout   time.Duration
	MaxFailedChecks int // tolerated non-critical failures, default 1
	DNSCacheTTL     time.Duration

	Resolver DomainResolver
	Breach   BreachChecker
}

// Engine runs the full check pipeline over one address at a time.
// Safe for concurrent use: the reference data is read-only and every
// validation builds its own result.
type Engine struct {
	data      *refdata.Store
	resolver  DomainResolver
	breach    BreachChecker
	maxFailed int
	dnsCache  *cache.Store
	cacheTTL  time.Duration
	basicOnly bool
}

// New builds a fully configured Engine.
func New(data *refdata.Store, opts Options) (*Engine, error) {
	if data == nil {
		return nil, fmt.Errorf("validator: reference data store is required")
	}
	if opts.MaxFailedChecks < 0 {
		return nil, fmt.Errorf("validator: MaxFailedChecks must not be negative")
	}

	e := &Engine{
		data:      data,
		resolver:  opts.Resolver,
		breach:    opts.Breach,
		maxFailed: opts.MaxFailedChecks,
		dnsCache:  cache.New(),
		cacheTTL:  opts.DNSCacheTTL,
	}
	if e.resolver == nil {
		e.resolver = lookup.NewResolver(opts.DNSTimeout)
	}
	if e.breach == nil {
		e.breach = lookup.NewBreachClient(opts.BreachURL, opts.BreachTimeout)
	}
	if e.maxFailed == 0 {
		e.maxFailed = 1
	}
	if e.cacheTTL <= 0 {
		e.cacheTTL = 10 * time.Minute
	}
	return e, nil
}

// NewBasic builds a degraded engine running only the format check.
// Used as a fallback when the full analyzer set fails to initialize, so
// the service stays up with basic validation.
func NewBasic() *Engine {
	return &Engine{basicOnly: true}
}

// Basic reports whether the engine operates in format-only mode.
func (e *Engine) Basic() bool {
	return e.basicOnly
}

// DNSCache exposes the engine's DNS memoization cache so the server
// can attach its eviction goroutine.
func (e *Engine) DNSCache() *cache.Store {
	return e.dnsCache
}

// dnsPair holds both per-domain DNS results for the cache.
type dnsPair struct {
	domain models.CheckResult
	mx     models.CheckResult
}

// Validate runs the full pipeline for one address.
func (e *Engine) Validate(ctx context.Context, raw string) models.ValidationResult {
	start := time.Now()

	email := strings.ToLower(strings.TrimSpace(raw))
	result := models.ValidationResult{Email: email}

	formatRes := checks.Format(email)
	if !formatRes.Valid || e.basicOnly {
		result.Checks = []models.CheckResult{formatRes}
		result.Valid = formatRes.Valid
		if formatRes.Valid {
			result.Score = 100
		}
		result.Summary = summarize(result.Checks, result.Score)
		result.Duration = time.Since(start).String()
		return result
	}

	domainRes, mxRes, breachRes := e.runNetworkChecks(ctx, email)

	ordered := []models.CheckResult{
		formatRes,
		domainRes,
		mxRes,
		e.runCheck(models.CheckDisposable, func() models.CheckResult {
			return checks.Disposable(email, e.data)
		}),
		e.runCheck(models.CheckSuspiciousPatterns, func() models.CheckResult {
			return checks.SuspiciousPatterns(email)
		}),
		e.runCheck(models.CheckSuspiciousTLD, func() models.CheckResult {
			return checks.SuspiciousTLD(email, e.data)
		}),
		e.runCheck(models.CheckTypoDetection, func() models.CheckResult {
			return checks.TypoDetection(email, e.data)
		}),
		e.runCheck(models.CheckUsernameQuality, func() models.CheckResult {
			return checks.UsernameQuality(email, e.data)
		}),
		breachRes,
		e.runCheck(models.CheckFraudDatabase, func() models.CheckResult {
			return checks.FraudDatabase(email, e.data)
		}),
		e.runCheck(models.CheckEmailType, func() models.CheckResult {
			return checks.EmailType(email, e.data)
		}),
	}
	result.Checks = ordered

	validCount := 0
	criticalPassed := true
	fraudOK := true
	for _, c := range ordered {
		if c.Valid {
			validCount++
			continue
		}
		if _, critical := criticalChecks[c.Check]; critical {
			criticalPassed = false
		}
		// Independent of the critical set: a fraud hit must stay fatal
		// even if the critical set is ever reconfigured.
		if c.Check == models.CheckFraudDatabase {
			fraudOK = false
		}
	}

	total := len(ordered)
	result.Score = math.Round(float64(validCount)/float64(total)*10000) / 100
	result.Valid = criticalPassed && validCount >= total-e.maxFailed && fraudOK
	result.Summary = summarize(ordered, result.Score)
	result.Duration = time.Since(start).String()
	return result
}

// runNetworkChecks fans the three network-bound lookups out to
// goroutines and joins them, bounded by the request context. Lookups
// still in flight when the context is cancelled are abandoned and
// degrade to their own timeout/unavailable results.
func (e *Engine) runNetworkChecks(ctx context.Context, email string) (domainRes, mxRes, breachRes models.CheckResult) {
	lookupEmail := asciiEmail(email)
	_, domain, _ := strings.Cut(lookupEmail, "@")

	var (
		mu                          sync.Mutex
		wg                          sync.WaitGroup
		gotDomain, gotMX, gotBreach bool
		cachedDNS                   bool
	)

	cacheKey := "dns:" + domain
	if cached, ok := e.dnsCache.Get(cacheKey); ok {
		pair := cached.(dnsPair)
		domainRes, mxRes = pair.domain, pair.mx
		gotDomain, gotMX = true, true
		cachedDNS = true
	}

	if !cachedDNS {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := e.resolver.CheckDomain(ctx, lookupEmail)
			mu.Lock()
			domainRes, gotDomain = res, true
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			res := e.resolver.CheckMX(ctx, lookupEmail)
			mu.Lock()
			mxRes, gotMX = res, true
			mu.Unlock()
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		res := e.breach.Check(ctx, email)
		mu.Lock()
		breachRes, gotBreach = res, true
		mu.Unlock()
	}()

	joined := make(chan struct{})
	go func() {
		defer close(joined)
		wg.Wait()
	}()

	select {
	case <-joined:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	if !gotDomain {
		domainRes = lookup.TimeoutResult(models.CheckDomainExists)
	}
	if !gotMX {
		mxRes = lookup.TimeoutResult(models.CheckMXRecords)
	}
	if !gotBreach {
		breachRes = lookup.UnavailableResult()
	}
	if !cachedDNS && gotDomain && gotMX {
		e.dnsCache.Set(cacheKey, dnsPair{domain: domainRes, mx: mxRes}, e.cacheTTL)
	}
	return domainRes, mxRes, breachRes
}

// runCheck executes one analyzer with a recovery boundary. A panicking
// analyzer must not abort the batch; it degrades to a neutral valid
// result describing the internal error.
func (e *Engine) runCheck(kind models.CheckKind, fn func() models.CheckResult) (res models.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.CheckResult{
				Check:   kind,
				Valid:   true,
				Message: "Check error",
				Details: fmt.Sprintf("Internal error during check: %v", r),
			}
		}
	}()
	return fn()
}

// ValidateMany validates a batch concurrently. Result order matches
// input order.
func (e *Engine) ValidateMany(ctx context.Context, emails []string, workers int) []models.ValidationResult {
	if workers <= 0 {
		workers = 5
	}
	if workers > len(emails) {
		workers = len(emails)
	}

	results := make([]models.ValidationResult, len(emails))

	type job struct {
		idx   int
		email string
	}
	jobs := make(chan job)
	go func() {
		defer close(jobs)
		for i, email := range emails {
			select {
			case jobs <- job{idx: i, email: email}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = e.Validate(ctx, j.email)
			}
		}()
	}
	wg.Wait()

	return results
}

// summarize derives the human-readable verdict line from the score band
// and the names of failed checks.
func summarize(results []models.CheckResult, score float64) string {
	var failed []string
	for _, c := range results {
		if !c.Valid {
			failed = append(failed, string(c.Check))
		}
	}
	failedList := strings.Join(failed, ", ")

	switch {
	case score == 100:
		return "Email passed all validation checks"
	case score >= 80:
		return "Email looks valid with minor concerns: " + failedList
	case score >= 60:
		return "Email has some issues: " + failedList
	default:
		return "Email appears invalid or suspicious: " + failedList
	}
}

// asciiEmail converts an internationalized domain to its punycode form
// for DNS lookups. The display form of the address is unchanged.
func asciiEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	domain := email[at+1:]
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil || ascii == domain {
		return email
	}
	return email[:at+1] + ascii
}
