// Package refdata holds the reference data consulted by every check:
// static sets compiled into the binary and two dynamic sets loaded from
// CSV files at startup. A Store is read-only after construction, so
// concurrent validations share it without locking.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Store is the shared reference data for one engine instance.
// Construct with NewStore, optionally followed by LoadDynamic.
// Do not mutate after handing it to the validator.
type Store struct {
	Disposable        map[string]struct{}
	SuspiciousTLDs    []string
	EduSuffixes       []string
	MajorProviders    map[string]struct{}
	TypoCorrections   map[string]string
	FraudKeywords     []string
	WorkKeywords      map[string]struct{}
	KeyboardSequences []string
	NameClusters      map[string]struct{}

	// Dynamic sets. Empty when the backing files were absent; every
	// consumer treats "not found" as the neutral outcome.
	FraudEmails       map[string]struct{}
	FraudDomains      map[string]struct{}
	VerifiedCompanies map[string]string

	fraudLoaded     bool
	companiesLoaded bool
}

// NewStore builds a Store from the compiled-in static sets.
func NewStore() *Store {
	return &Store{
		Disposable:        disposableDomains,
		SuspiciousTLDs:    suspiciousTLDs,
		EduSuffixes:       educationalSuffixes,
		MajorProviders:    majorProviders,
		TypoCorrections:   typoCorrections,
		FraudKeywords:     fraudKeywords,
		WorkKeywords:      workKeywords,
		KeyboardSequences: keyboardSequences,
		NameClusters:      nameClusters,
		FraudEmails:       map[string]struct{}{},
		FraudDomains:      map[string]struct{}{},
		VerifiedCompanies: map[string]string{},
	}
}

// LoadDynamic loads the fraud-address and verified-company CSV files.
// A missing or unreadable file is logged and skipped; the store keeps
// operating on static data only. It never returns an error because a
// degraded store must not abort startup.
func (s *Store) LoadDynamic(fraudPath, companiesPath string) {
	if fraudPath != "" {
		if err := s.loadFraudEmails(fraudPath); err != nil {
			log.Printf("⚠️  Fraud database not loaded (%s): %v", fraudPath, err)
		} else {
			s.fraudLoaded = true
			log.Printf("✅ Fraud database loaded: %d addresses, %d domains", len(s.FraudEmails), len(s.FraudDomains))
		}
	}
	if companiesPath != "" {
		if err := s.loadVerifiedCompanies(companiesPath); err != nil {
			log.Printf("⚠️  Verified company list not loaded (%s): %v", companiesPath, err)
		} else {
			s.companiesLoaded = true
			log.Printf("✅ Verified companies loaded: %d addresses", len(s.VerifiedCompanies))
		}
	}
}

// loadFraudEmails reads addresses from the first CSV column and derives
// the fraud-domain set from their domain parts.
func (s *Store) loadFraudEmails(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing fraud CSV: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(record[0]))
		if email == "" || email == "email" || !strings.Contains(email, "@") {
			continue // header or junk row
		}
		s.FraudEmails[email] = struct{}{}
		if at := strings.LastIndex(email, "@"); at >= 0 {
			s.FraudDomains[email[at+1:]] = struct{}{}
		}
	}
	return nil
}

// loadVerifiedCompanies reads address,company pairs.
func (s *Store) loadVerifiedCompanies(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing company CSV: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(record[0]))
		company := strings.TrimSpace(record[1])
		if email == "" || email == "email" || !strings.Contains(email, "@") || company == "" {
			continue
		}
		s.VerifiedCompanies[email] = company
	}
	return nil
}

// Health describes the dynamic-set load status for the health endpoint.
type Health struct {
	FraudDatabaseLoaded   bool `json:"fraud_database_loaded"`
	FraudEmailCount       int  `json:"fraud_email_count"`
	FraudDomainCount      int  `json:"fraud_domain_count"`
	VerifiedCompanyLoaded bool `json:"verified_companies_loaded"`
	VerifiedCompanyCount  int  `json:"verified_company_count"`
}

// Health reports whether the dynamic sets loaded and how large they are.
func (s *Store) Health() Health {
	return Health{
		FraudDatabaseLoaded:   s.fraudLoaded,
		FraudEmailCount:       len(s.FraudEmails),
		FraudDomainCount:      len(s.FraudDomains),
		VerifiedCompanyLoaded: s.companiesLoaded,
		VerifiedCompanyCount:  len(s.VerifiedCompanies),
	}
}
