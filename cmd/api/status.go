package main

import (
	"net/http"
	"time"

	"mailspectre/internal/store"
)

// JobStatusResponse reports the progress of one bulk job.
type JobStatusResponse struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	TotalCount     int        `json:"total_count"`
	ProcessedCount int        `json:"processed_count"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func (a *app) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET")
		return
	}

	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "Missing parameter", "Missing 'id' parameter")
		return
	}

	ctx := r.Context()
	var job JobStatusResponse

	query := `
		SELECT id, status, total_count, processed_count, created_at, completed_at
		FROM jobs
		WHERE id = $1
	`

	err := store.DB.QueryRow(ctx, query, jobID).Scan(
		&job.ID,
		&job.Status,
		&job.TotalCount,
		&job.ProcessedCount,
		&job.CreatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found", "No job exists with that id")
		return
	}

	writeJSON(w, http.StatusOK, job)
}
