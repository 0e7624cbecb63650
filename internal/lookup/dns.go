package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"mailspectre/internal/models"
)

// DefaultDNSTimeout bounds each individual DNS query. A slow upstream
// resolver must not stall the whole validation.
const DefaultDNSTimeout = 5 * time.Second

// Resolver performs the A and MX lookups for a domain. The lookup
// functions are injectable so tests never touch the network.
type Resolver struct {
	timeout    time.Duration
	lookupHost func(ctx context.Context, domain string) ([]string, error)
	lookupMX   func(ctx context.Context, domain string) ([]*net.MX, error)
}

// NewResolver builds a Resolver with a strict per-query timeout.
// The custom net.Resolver enforces the timeout at the dial layer too,
// so a dead DNS server fails fast instead of hanging the dialer.
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	r := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: timeout}
			return d.DialContext(ctx, network, address)
		},
	}
	return &Resolver{
		timeout:    timeout,
		lookupHost: r.LookupHost,
		lookupMX:   r.LookupMX,
	}
}

// NewResolverWithLookups overrides both lookup functions. Test constructor.
func NewResolverWithLookups(
	host func(ctx context.Context, domain string) ([]string, error),
	mx func(ctx context.Context, domain string) ([]*net.MX, error),
) *Resolver {
	return &Resolver{timeout: DefaultDNSTimeout, lookupHost: host, lookupMX: mx}
}

// CheckDomain reports whether the address's domain resolves to any
// address record. NXDOMAIN, empty answers and timeouts each produce a
// distinct message; every failure degrades to valid:false rather than
// an error.
func (r *Resolver) CheckDomain(ctx context.Context, email string) models.CheckResult {
	kind := models.CheckDomainExists

	domain, ok := domainPart(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Invalid email format",
			Details: "Cannot extract domain from email",
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.lookupHost(lookupCtx, domain)
	if err != nil {
		switch classifyDNSError(err) {
		case dnsNotFound:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "Domain does not exist",
				Details: fmt.Sprintf("Domain %s not found in DNS", domain),
			}
		case dnsTimeout:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "DNS lookup timeout",
				Details: "Could not verify domain due to timeout",
			}
		default:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "Domain check error",
				Details: err.Error(),
			}
		}
	}
	if len(addrs) == 0 {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Domain has no records",
			Details: fmt.Sprintf("Domain %s exists but has no A records", domain),
		}
	}

	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "Domain exists",
		Details: fmt.Sprintf("Domain %s has valid DNS records", domain),
	}
}

// CheckMX reports whether the domain has mail-exchange records. On
// success the details list up to three MX hostnames ordered by
// preference.
func (r *Resolver) CheckMX(ctx context.Context, email string) models.CheckResult {
	kind := models.CheckMXRecords

	domain, ok := domainPart(email)
	if !ok {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "Invalid email format",
			Details: "Cannot extract domain from email",
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.lookupMX(lookupCtx, domain)
	if err != nil {
		switch classifyDNSError(err) {
		case dnsNotFound:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "No MX records",
				Details: fmt.Sprintf("Domain %s has no mail servers configured", domain),
			}
		case dnsTimeout:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "MX lookup timeout",
				Details: "Could not verify MX records due to timeout",
			}
		default:
			return models.CheckResult{
				Check:   kind,
				Valid:   false,
				Message: "MX check error",
				Details: err.Error(),
			}
		}
	}
	if len(records) == 0 {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "No MX records",
			Details: fmt.Sprintf("Domain %s exists but has no MX records", domain),
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Pref < records[j].Pref })

	hosts := make([]string, 0, 3)
	for _, mx := range records {
		hosts = append(hosts, strings.TrimSuffix(mx.Host, "."))
		if len(hosts) == 3 {
			break
		}
	}

	return models.CheckResult{
		Check:   kind,
		Valid:   true,
		Message: "MX records found",
		Details: fmt.Sprintf("Domain has %d mail server(s): %s", len(records), strings.Join(hosts, ", ")),
	}
}

// TimeoutResult returns the degraded result used when a lookup is
// abandoned because the surrounding request was cancelled. Identical to
// the check's own timeout path.
func TimeoutResult(kind models.CheckKind) models.CheckResult {
	if kind == models.CheckMXRecords {
		return models.CheckResult{
			Check:   kind,
			Valid:   false,
			Message: "MX lookup timeout",
			Details: "Could not verify MX records due to timeout",
		}
	}
	return models.CheckResult{
		Check:   kind,
		Valid:   false,
		Message: "DNS lookup timeout",
		Details: "Could not verify domain due to timeout",
	}
}

type dnsErrorClass int

const (
	dnsOther dnsErrorClass = iota
	dnsNotFound
	dnsTimeout
)

func classifyDNSError(err error) dnsErrorClass {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return dnsNotFound
		}
		if dnsErr.IsTimeout {
			return dnsTimeout
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dnsTimeout
	}
	return dnsOther
}

func domainPart(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}
