package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-pipeline/internal/jobs"
	"github.com/dvloznov/statement-pipeline/internal/jobs/inmemory"
)

// capturePublisher records published jobs without running them.
type capturePublisher struct {
	published []*jobs.ProcessStatementJob
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, job *jobs.ProcessStatementJob) error {
	if p.err != nil {
		return p.err
	}
	if job.JobID == "" {
		job.JobID = "job-1"
	}
	if job.Status == "" {
		job.Status = jobs.StatusPending
	}
	p.published = append(p.published, job)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func multipartStatement(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("statement", "statement.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7 encrypted"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestSubmitStatement(t *testing.T) {
	pub := &capturePublisher{}
	h := NewStatementsHandler(pub, t.TempDir(), zerolog.Nop())

	body, contentType := multipartStatement(t, map[string]string{
		"bank":       "HDFC",
		"name":       "Ramesh Kumar",
		"dob":        "15101985",
		"card_last4": "4400",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.SubmitStatement(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp["job_id"])
	assert.Equal(t, string(jobs.StatusPending), resp["status"])

	require.Len(t, pub.published, 1)
	job := pub.published[0]
	assert.Equal(t, "hdfc", string(job.Bank))
	assert.Equal(t, "statement.pdf", job.Filename)
	assert.Equal(t, "15101985", job.Hints.DOB)

	// The PDF was staged on disk for the worker.
	staged, err := os.ReadFile(job.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 encrypted"), staged)
}

func TestSubmitStatementMissingFile(t *testing.T) {
	h := NewStatementsHandler(&capturePublisher{}, t.TempDir(), zerolog.Nop())

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("bank", "hdfc"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/statements", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.SubmitStatement(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitStatementMissingRequiredHints(t *testing.T) {
	pub := &capturePublisher{}
	h := NewStatementsHandler(pub, t.TempDir(), zerolog.Nop())

	// HSBC requires dob and card_last6; only dob is supplied.
	body, contentType := multipartStatement(t, map[string]string{
		"bank": "hsbc",
		"dob":  "15101985",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.SubmitStatement(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cardLast6")
	assert.Empty(t, pub.published)
}

func TestSubmitStatementUnknownBankAccepted(t *testing.T) {
	// Unknown bank codes fall back to generic candidates downstream, so the
	// submission is accepted as-is.
	pub := &capturePublisher{}
	h := NewStatementsHandler(pub, t.TempDir(), zerolog.Nop())

	body, contentType := multipartStatement(t, map[string]string{"bank": "smallbank"})
	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.SubmitStatement(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, pub.published, 1)
}

func TestListBanks(t *testing.T) {
	h := &BanksHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/banks", nil)
	rec := httptest.NewRecorder()

	h.ListBanks(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Banks []string `json:"banks"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Banks), resp.Count)
	assert.Contains(t, resp.Banks, "hdfc")
	assert.Contains(t, resp.Banks, "hsbc")
}

func TestGetJob(t *testing.T) {
	store := inmemory.NewStore()
	job := &jobs.ProcessStatementJob{
		JobID:  "job-42",
		Bank:   "hdfc",
		Status: jobs.StatusCompleted,
	}
	job.Hints.DOB = "15101985"
	require.NoError(t, store.SaveJob(context.Background(), job))

	h := NewJobsHandler(store, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/job-42", nil), "job-42")
	require.Equal(t, http.StatusOK, rec.Code)

	var got jobs.ProcessStatementJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "job-42", got.JobID)
	assert.Equal(t, jobs.StatusCompleted, got.Status)
	// Identity hints never appear in API responses.
	assert.Empty(t, got.Hints.DOB)

	rec = httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil), "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobsFilter(t *testing.T) {
	store := inmemory.NewStore()
	require.NoError(t, store.SaveJob(context.Background(), &jobs.ProcessStatementJob{
		JobID: "a", Bank: "hdfc", Status: jobs.StatusCompleted,
	}))
	require.NoError(t, store.SaveJob(context.Background(), &jobs.ProcessStatementJob{
		JobID: "b", Bank: "sbi", Status: jobs.StatusFailed,
	}))

	h := NewJobsHandler(store, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs?status=failed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Jobs  []*jobs.ProcessStatementJob `json:"jobs"`
		Count int                         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "b", resp.Jobs[0].JobID)
}
