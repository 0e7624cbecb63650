package main

import (
	"encoding/csv"
	"io"
	"log"
	"net/http"
	"time"

	"mailspectre/internal/queue"
	"mailspectre/internal/store"

	"github.com/google/uuid"
)

// UploadResponse acknowledges a created bulk job.
type UploadResponse struct {
	JobID     string `json:"job_id"`
	TotalRows int    `json:"total_rows"`
	Message   string `json:"message"`
}

// uploadHandler accepts a CSV of addresses, creates a job row and
// queues one task per address for the background worker.
func (a *app) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST with multipart form data")
		return
	}

	// Max 10MB upload.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", "File too large or malformed")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file", "Missing 'file' parameter in form data")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	var emails []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid CSV", "Could not parse the uploaded file")
			return
		}
		// Address is expected in the first column.
		if len(record) > 0 && record[0] != "" {
			emails = append(emails, record[0])
		}
	}

	if len(emails) == 0 {
		writeError(w, http.StatusBadRequest, "Empty file", "The uploaded CSV contains no addresses")
		return
	}

	jobID := uuid.New().String()
	ctx := r.Context()

	query := `INSERT INTO jobs (id, status, total_count, created_at) VALUES ($1, 'pending', $2, $3)`
	if _, err := store.DB.Exec(ctx, query, jobID, len(emails), time.Now()); err != nil {
		log.Printf("❌ DB error creating job: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "Failed to create job")
		return
	}

	queued := 0
	for _, email := range emails {
		if err := queue.Enqueue(ctx, queue.Task{JobID: jobID, Email: email}); err != nil {
			log.Printf("❌ Failed to queue %s for job %s: %v", email, jobID, err)
			continue
		}
		queued++
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		JobID:     jobID,
		TotalRows: queued,
		Message:   "Job created successfully. Processing started.",
	})
}
