package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailspectre/internal/config"
	"mailspectre/internal/models"
	"mailspectre/internal/refdata"
	"mailspectre/internal/validator"
)

// Offline stubs so handler tests never touch DNS or the breach service.
type okResolver struct{}

func (okResolver) CheckDomain(ctx context.Context, email string) models.CheckResult {
	return models.CheckResult{Check: models.CheckDomainExists, Valid: true, Message: "Domain exists"}
}

func (okResolver) CheckMX(ctx context.Context, email string) models.CheckResult {
	return models.CheckResult{Check: models.CheckMXRecords, Valid: true, Message: "MX records found"}
}

type okBreach struct{}

func (okBreach) Check(ctx context.Context, email string) models.CheckResult {
	return models.CheckResult{Check: models.CheckDataBreach, Valid: true, Message: "No known breaches"}
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	data := refdata.NewStore()
	engine, err := validator.New(data, validator.Options{Resolver: okResolver{}, Breach: okBreach{}})
	require.NoError(t, err)
	return &app{cfg: config.Default(), engine: engine, data: data}
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestValidateHandler(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(a.validateHandler, "/api/validate", `{"email":"john.smith@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "john.smith@example.com", result.Email)
	assert.True(t, result.Valid)
	assert.Len(t, result.Checks, 11)
}

func TestValidateHandlerErrors(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		name     string
		body     string
		category string
	}{
		{"no body", "", "No data provided"},
		{"missing field", `{}`, "Missing email field"},
		{"empty email", `{"email":""}`, "Missing email field"},
		{"non-string email", `{"email":42}`, "Invalid email type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(a.validateHandler, "/api/validate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.category, decodeError(t, rec).Error)
		})
	}
}

func TestValidateHandlerMethodNotAllowed(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	rec := httptest.NewRecorder()
	a.validateHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBatchValidateHandler(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(a.batchValidateHandler, "/api/batch-validate",
		`{"emails":["b@example.com","a@example.com","not-an-email"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total   int                       `json:"total"`
		Results []models.ValidationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Results, 3)
	// Input order is preserved.
	assert.Equal(t, "b@example.com", resp.Results[0].Email)
	assert.Equal(t, "a@example.com", resp.Results[1].Email)
	assert.Equal(t, "not-an-email", resp.Results[2].Email)
	assert.False(t, resp.Results[2].Valid)
}

func TestBatchValidateHandlerErrors(t *testing.T) {
	a := newTestApp(t)

	overLimit := make([]string, a.cfg.Batch.MaxEmails+1)
	for i := range overLimit {
		overLimit[i] = fmt.Sprintf(`"user%d@example.com"`, i)
	}

	tests := []struct {
		name     string
		body     string
		category string
	}{
		{"not an array", `{"emails":"a@example.com"}`, "Invalid format"},
		{"missing field", `{}`, "Invalid format"},
		{"empty list", `{"emails":[]}`, "Empty list"},
		{"over capacity", `{"emails":[` + strings.Join(overLimit, ",") + `]}`, "Too many emails"},
		{"non-string element", `{"emails":["a@example.com",7]}`, "Invalid email type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(a.batchValidateHandler, "/api/batch-validate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.category, decodeError(t, rec).Error)
		})
	}
}

func TestBatchValidateHandlerCapacityMessage(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Batch.MaxEmails = 2

	rec := postJSON(a.batchValidateHandler, "/api/batch-validate",
		`{"emails":["a@x.com","b@x.com","c@x.com"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Maximum 2 emails per request", decodeError(t, rec).Message)
}

func TestHealthHandler(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	a.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "full", resp["mode"])
	assert.Equal(t, false, resp["degraded"])
	assert.Equal(t, false, resp["bulk_pipeline"])
	assert.Contains(t, resp, "reference_data")
}

func TestHealthHandlerDegradedMode(t *testing.T) {
	a := newTestApp(t)
	a.engine = validator.NewBasic()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	a.healthHandler(rec, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["mode"])
	assert.Equal(t, true, resp["degraded"])
}

func TestInfoHandler(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	a.infoHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Service string   `json:"service"`
		Checks  []string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MailSpectre", resp.Service)
	assert.Len(t, resp.Checks, 11)
}

func TestInfoHandlerUnknownPath(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	a.infoHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnableCORS(t *testing.T) {
	called := false
	handler := enableCORS(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/validate", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called, "preflight must not reach the handler")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.True(t, called)
}

func TestRequireAPIKey(t *testing.T) {
	protected := requireAPIKey("topsecret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Authorization", "Bearer topsecret")
		rec := httptest.NewRecorder()
		protected(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		protected(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		protected(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unconfigured key locks down", func(t *testing.T) {
		unconfigured := requireAPIKey("", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rec := httptest.NewRecorder()
		unconfigured(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
