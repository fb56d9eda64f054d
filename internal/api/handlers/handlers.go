// Package handlers implements the statement service HTTP endpoints:
// statement submission, job inspection, and the supported-bank listing.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-pipeline/internal/api/middleware"
	"github.com/dvloznov/statement-pipeline/internal/jobs"
	"github.com/dvloznov/statement-pipeline/internal/password"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// maxUploadBytes caps one statement PDF upload.
const maxUploadBytes = 32 << 20

// StatementsHandler accepts encrypted statement PDFs and enqueues them for
// asynchronous processing.
type StatementsHandler struct {
	publisher jobs.Publisher
	uploadDir string
	log       zerolog.Logger
}

// NewStatementsHandler creates a statements handler. Uploaded PDFs are staged
// under uploadDir until a worker consumes them.
func NewStatementsHandler(publisher jobs.Publisher, uploadDir string, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		publisher: publisher,
		uploadDir: uploadDir,
		log:       log,
	}
}

// SubmitStatement handles POST /api/statements.
//
// The request is multipart form data: a "statement" PDF part plus the
// identity hint fields the bank's password policy needs. The bank code is
// optional; the pipeline identifies the issuer when it is absent.
func (h *StatementsHandler) SubmitStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "statement PDF part is required")
		return
	}
	defer file.Close()

	bank := statement.BankCode(strings.ToLower(strings.TrimSpace(r.FormValue("bank"))))
	hints := statement.IdentityHints{
		Name:       strings.TrimSpace(r.FormValue("name")),
		DOB:        strings.TrimSpace(r.FormValue("dob")),
		CardLast4:  strings.TrimSpace(r.FormValue("card_last4")),
		CardLast6:  strings.TrimSpace(r.FormValue("card_last6")),
		CustomerID: strings.TrimSpace(r.FormValue("customer_id")),
	}

	if bank != "" {
		if policy, ok := password.LookupPolicy(bank); ok {
			if missing := password.MissingHints(policy, hints); len(missing) > 0 {
				middleware.WriteError(w, http.StatusUnprocessableEntity,
					"bank "+string(bank)+" requires identity fields: "+strings.Join(missing, ", "))
				return
			}
		}
	}

	if err := os.MkdirAll(h.uploadDir, 0o700); err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload dir")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store statement")
		return
	}

	pdfPath := filepath.Join(h.uploadDir, uuid.NewString()+".pdf")
	dst, err := os.OpenFile(pdfPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create upload file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store statement")
		return
	}
	written, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(pdfPath)
		h.log.Error().Err(err).Msg("Failed to write upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store statement")
		return
	}

	job := &jobs.ProcessStatementJob{
		PDFPath:  pdfPath,
		Bank:     bank,
		Filename: filepath.Base(header.Filename),
		Hints:    hints,
	}

	if err := h.publisher.Publish(r.Context(), job); err != nil {
		os.Remove(pdfPath)
		h.log.Error().Err(err).Msg("Failed to enqueue statement job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue statement")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("bank", string(bank)).
		Str("filename", job.Filename).
		Int64("bytes", written).
		Msg("Statement job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// BanksHandler serves the supported bank list.
type BanksHandler struct{}

// ListBanks handles GET /api/banks.
func (h *BanksHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks := password.SupportedBanks()
	codes := make([]string, len(banks))
	for i, b := range banks {
		codes[i] = string(b)
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"banks": codes,
		"count": len(codes),
	})
}

// JobsHandler exposes job state for polling clients.
type JobsHandler struct {
	store jobs.Store
	log   zerolog.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(store jobs.Store, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if !errors.Is(err, jobs.ErrJobNotFound) {
			h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		}
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	// Hints never leave the service.
	redacted := *job
	redacted.Hints = statement.IdentityHints{}
	middleware.WriteJSON(w, http.StatusOK, &redacted)
}

// ListJobs handles GET /api/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.Filter{
		Bank:   statement.BankCode(query.Get("bank")),
		Status: jobs.Status(query.Get("status")),
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	for i, job := range jobsList {
		redacted := *job
		redacted.Hints = statement.IdentityHints{}
		jobsList[i] = &redacted
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
