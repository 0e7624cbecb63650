package main

import (
	"encoding/json"
	"net/http"

	"mailspectre/internal/store"
)

// ResultRow is a single validated address from the database.
// RawMessage passes the stored JSONB result through untouched.
type ResultRow struct {
	Email string          `json:"email"`
	Valid bool            `json:"valid"`
	Score float64         `json:"score"`
	Data  json.RawMessage `json:"data"`
}

func (a *app) resultsHandler(w http.ResponseWriter, r *http.Request) {
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

	query := `SELECT email, valid, score, data FROM results WHERE job_id = $1 ORDER BY id ASC`

	rows, err := store.DB.Query(ctx, query, jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", "Failed to fetch results")
		return
	}
	defer rows.Close()

	var results []ResultRow

	for rows.Next() {
		var row ResultRow
		if err := rows.Scan(&row.Email, &row.Valid, &row.Score, &row.Data); err != nil {
			continue // skip malformed rows
		}
		results = append(results, row)
	}

	// Return [] rather than null when the job has no results yet.
	if results == nil {
		results = []ResultRow{}
	}

	writeJSON(w, http.StatusOK, results)
}
