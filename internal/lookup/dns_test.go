package lookup

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"mailspectre/internal/models"
)

func hostReturning(addrs []string, err error) func(context.Context, string) ([]string, error) {
	return func(context.Context, string) ([]string, error) { return addrs, err }
}

func mxReturning(records []*net.MX, err error) func(context.Context, string) ([]*net.MX, error) {
	return func(context.Context, string) ([]*net.MX, error) { return records, err }
}

func TestCheckDomain(t *testing.T) {
	tests := []struct {
		name    string
		addrs   []string
		err     error
		valid   bool
		message string
	}{
		{
			name:    "resolves",
			addrs:   []string{"93.184.216.34"},
			valid:   true,
			message: "Domain exists",
		},
		{
			name:    "nxdomain",
			err:     &net.DNSError{Err: "no such host", IsNotFound: true},
			valid:   false,
			message: "Domain does not exist",
		},
		{
			name:    "timeout",
			err:     &net.DNSError{Err: "i/o timeout", IsTimeout: true},
			valid:   false,
			message: "DNS lookup timeout",
		},
		{
			name:    "context deadline",
			err:     context.DeadlineExceeded,
			valid:   false,
			message: "DNS lookup timeout",
		},
		{
			name:    "empty answer",
			addrs:   []string{},
			valid:   false,
			message: "Domain has no records",
		},
		{
			name:    "server failure",
			err:     &net.DNSError{Err: "server misbehaving"},
			valid:   false,
			message: "Domain check error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolverWithLookups(hostReturning(tt.addrs, tt.err), nil)
			res := r.CheckDomain(context.Background(), "user@example.com")
			assert.Equal(t, models.CheckDomainExists, res.Check)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestCheckDomainMalformedAddress(t *testing.T) {
	r := NewResolverWithLookups(hostReturning([]string{"1.2.3.4"}, nil), nil)

	res := r.CheckDomain(context.Background(), "no-at-sign")
	assert.False(t, res.Valid)
	assert.Equal(t, "Cannot extract domain from email", res.Details)
}

func TestCheckMX(t *testing.T) {
	records := []*net.MX{
		{Host: "backup.example.com.", Pref: 20},
		{Host: "mx1.example.com.", Pref: 5},
		{Host: "mx2.example.com.", Pref: 10},
		{Host: "mx3.example.com.", Pref: 15},
	}

	r := NewResolverWithLookups(nil, mxReturning(records, nil))
	res := r.CheckMX(context.Background(), "user@example.com")

	assert.True(t, res.Valid)
	assert.Equal(t, "MX records found", res.Message)
	// Full record count, but only the top three hosts by preference,
	// trailing dots trimmed.
	assert.Equal(t, "Domain has 4 mail server(s): mx1.example.com, mx2.example.com, mx3.example.com", res.Details)
}

func TestCheckMXFailures(t *testing.T) {
	tests := []struct {
		name    string
		records []*net.MX
		err     error
		message string
	}{
		{
			name:    "no records configured",
			err:     &net.DNSError{Err: "no such host", IsNotFound: true},
			message: "No MX records",
		},
		{
			name:    "empty answer",
			records: []*net.MX{},
			message: "No MX records",
		},
		{
			name:    "timeout",
			err:     &net.DNSError{Err: "i/o timeout", IsTimeout: true},
			message: "MX lookup timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolverWithLookups(nil, mxReturning(tt.records, tt.err))
			res := r.CheckMX(context.Background(), "user@example.com")
			assert.False(t, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestTimeoutResult(t *testing.T) {
	res := TimeoutResult(models.CheckDomainExists)
	assert.False(t, res.Valid)
	assert.Equal(t, "DNS lookup timeout", res.Message)

	res = TimeoutResult(models.CheckMXRecords)
	assert.False(t, res.Valid)
	assert.Equal(t, "MX lookup timeout", res.Message)
}
