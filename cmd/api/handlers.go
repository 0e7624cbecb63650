package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"mailspectre/internal/config"
	"mailspectre/internal/refdata"
	"mailspectre/internal/validator"
)

type app struct {
	cfg          config.Config
	engine       *validator.Engine
	data         *refdata.Store
	asyncEnabled bool
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, errorResponse{Error: category, Message: message})
}

// validateHandler validates a single address.
func (a *app) validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST with a JSON body")
		return
	}

	var body struct {
		Email interface{} `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided", "Request body must be JSON with an email field")
		return
	}
	if body.Email == nil {
		writeError(w, http.StatusBadRequest, "Missing email field", "Please provide an email address to validate")
		return
	}
	email, ok := body.Email.(string)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid email type", "Email must be a string")
		return
	}
	if email == "" {
		writeError(w, http.StatusBadRequest, "Missing email field", "Please provide an email address to validate")
		return
	}

	log.Printf("Validating email: %s", email)
	result := a.engine.Validate(r.Context(), email)
	log.Printf("Validation result for %s: valid=%t, score=%.2f", result.Email, result.Valid, result.Score)

	writeJSON(w, http.StatusOK, result)
}

// batchValidateHandler validates up to the configured batch capacity,
// returning results in input order.
func (a *app) batchValidateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST with a JSON body")
		return
	}

	var body struct {
		Emails interface{} `json:"emails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided", "Request body must be JSON with an emails array")
		return
	}

	rawList, ok := body.Emails.([]interface{})
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid format", "Emails must be an array")
		return
	}
	if len(rawList) == 0 {
		writeError(w, http.StatusBadRequest, "Empty list", "Please provide at least one email address")
		return
	}
	if len(rawList) > a.cfg.Batch.MaxEmails {
		writeError(w, http.StatusBadRequest, "Too many emails",
			fmt.Sprintf("Maximum %d emails per request", a.cfg.Batch.MaxEmails))
		return
	}

	emails := make([]string, len(rawList))
	for i, item := range rawList {
		s, ok := item.(string)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid email type", "Every email must be a string")
			return
		}
		emails[i] = s
	}

	log.Printf("Batch validating %d emails", len(emails))
	results := a.engine.ValidateMany(r.Context(), emails, a.cfg.Batch.Workers)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   len(results),
		"results": results,
	})
}

// healthHandler reports service status including reference-data load
// state and whether the engine runs degraded.
func (a *app) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET")
		return
	}

	mode := "full"
	if a.engine.Basic() {
		mode = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "MailSpectre API",
		"mode":           mode,
		"degraded":       a.engine.Basic(),
		"bulk_pipeline":  a.asyncEnabled,
		"reference_data": a.data.Health(),
	})
}

// infoHandler serves the service banner on "/" and a JSON 404 for
// everything else.
func (a *app) infoHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":     "MailSpectre",
		"version":     "1.0.0",
		"status":      "running",
		"description": "Email validation API",
		"checks": []string{
			"format", "domain_exists", "mx_records", "disposable",
			"suspicious_patterns", "suspicious_tld", "typo_detection",
			"username_quality", "data_breach", "fraud_database", "email_type",
		},
	})
}
