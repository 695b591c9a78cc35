package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"crackexam-backend/config"
	"crackexam-backend/mailer"
	"crackexam-backend/models"
	"crackexam-backend/repository"
	"crackexam-backend/service"
	"crackexam-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	store, err := storage.NewLocalStorage(t.TempDir(), "exam-papers")
	require.NoError(t, err)

	svc := service.NewPaperService(
		service.WithRepository(repo),
		service.WithStorage(store),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	cfg := &config.Config{}
	cfg.Auth.AdminUsername = "admin"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	r := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r, Handlers{
		Papers: NewPaperHandler(svc),
		PDF:    NewPDFHandler(svc),
		Auth:   NewAuthHandler(cfg),
		Email:  NewEmailHandler(nil, "papers@example.com", time.Second),
	}, passthrough)
	return r, repo
}

var classification = map[string]string{
	"college": "MIT",
	"degree":  "B.E",
	"stream":  "Electronics",
	"subject": "Circuits",
	"year":    "2",
}

func multipartBody(t *testing.T, fields map[string]string, fileName, mimeType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if content != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, fileName))
		header.Set("Content-Type", mimeType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doRequest(r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createPaper(t *testing.T, r *gin.Engine, fields map[string]string, fileName string, content []byte) models.Paper {
	t.Helper()
	body, ct := multipartBody(t, fields, fileName, "application/pdf", content)
	rec := doRequest(r, http.MethodPost, "/api/papers", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var paper models.Paper
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paper))
	return paper
}

func TestCreateAndStreamRoundTrip(t *testing.T) {
	r, _ := setupRouter(t)

	pdfBytes := make([]byte, 10*1024)
	_, err := rand.Read(pdfBytes)
	require.NoError(t, err)

	paper := createPaper(t, r, classification, "circuits.pdf", pdfBytes)
	assert.NotEmpty(t, paper.ID)
	assert.Equal(t, "circuits.pdf", paper.FileName)
	assert.Contains(t, paper.Content, "/api/pdf?id=")

	rec := doRequest(r, http.MethodGet, paper.Content, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, pdfBytes, rec.Body.Bytes())
}

func TestListNewestFirst(t *testing.T) {
	r, _ := setupRouter(t)

	for _, subject := range []string{"A", "B", "C"} {
		fields := map[string]string{}
		for k, v := range classification {
			fields[k] = v
		}
		fields["subject"] = subject
		createPaper(t, r, fields, subject+".pdf", []byte("%PDF "+subject))
	}

	rec := doRequest(r, http.MethodGet, "/api/papers", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var papers []models.Paper
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &papers))
	require.Len(t, papers, 3)
	assert.Equal(t, "C", papers[0].Subject)
	assert.Equal(t, "B", papers[1].Subject)
	assert.Equal(t, "A", papers[2].Subject)
}

func TestListEmptyIsArray(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodGet, "/api/papers", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestCreateRejectsNonPDF(t *testing.T) {
	r, repo := setupRouter(t)

	body, ct := multipartBody(t, classification, "photo.png", "image/png", []byte("not a pdf"))
	rec := doRequest(r, http.MethodPost, "/api/papers", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Rejected before any repository call.
	papers, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestCreateRequiresClassification(t *testing.T) {
	r, _ := setupRouter(t)

	fields := map[string]string{"college": "MIT"}
	body, ct := multipartBody(t, fields, "a.pdf", "application/pdf", []byte("%PDF"))
	rec := doRequest(r, http.MethodPost, "/api/papers", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReplacesFileAndFields(t *testing.T) {
	r, _ := setupRouter(t)

	created := createPaper(t, r, classification, "old.pdf", []byte("old pdf bytes"))
	oldContent := created.Content

	fields := map[string]string{}
	for k, v := range classification {
		fields[k] = v
	}
	fields["subject"] = "Circuits II"
	newBytes := []byte("new pdf bytes")
	body, ct := multipartBody(t, fields, "new.pdf", "application/pdf", newBytes)

	rec := doRequest(r, http.MethodPut, "/api/papers/"+created.ID, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Paper
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Circuits II", updated.Subject)
	assert.Equal(t, "new.pdf", updated.FileName)
	assert.NotEqual(t, oldContent, updated.Content)

	// New blob reachable at the updated reference.
	streamRec := doRequest(r, http.MethodGet, updated.Content, nil, "")
	require.Equal(t, http.StatusOK, streamRec.Code)
	assert.Equal(t, newBytes, streamRec.Body.Bytes())

	// Old blob is gone.
	oldRec := doRequest(r, http.MethodGet, oldContent, nil, "")
	assert.Equal(t, http.StatusNotFound, oldRec.Code)
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	r, _ := setupRouter(t)

	body, ct := multipartBody(t, classification, "", "", nil)
	rec := doRequest(r, http.MethodPut, "/api/papers/unknown-id", body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Paper not found"}`, rec.Body.String())
}

func TestDeleteCascadesToBlob(t *testing.T) {
	r, _ := setupRouter(t)

	paper := createPaper(t, r, classification, "circuits.pdf", []byte("pdf bytes"))

	rec := doRequest(r, http.MethodDelete, "/api/papers/"+paper.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	streamRec := doRequest(r, http.MethodGet, paper.Content, nil, "")
	assert.Equal(t, http.StatusNotFound, streamRec.Code)

	listRec := doRequest(r, http.MethodGet, "/api/papers", nil, "")
	assert.Equal(t, "[]", listRec.Body.String())
}

func TestDeleteUnknownIDReturns404(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodDelete, "/api/papers/unknown-id", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Paper not found"}`, rec.Body.String())
}

func TestStreamWithoutIDReturns400(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodGet, "/api/pdf", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Public ID is required"}`, rec.Body.String())
}

func TestStreamUnknownBlobReturns404(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodGet, "/api/pdf?id=exam-papers%2Fmissing.pdf", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendEmailFallsBackToMailto(t *testing.T) {
	r, _ := setupRouter(t)

	payload, err := json.Marshal(mailer.Request{
		College: "MIT", Degree: "B.E", Stream: "Electronics",
		Subject: "Circuits", Year: "2", Email: "student@example.com",
	})
	require.NoError(t, err)

	rec := doRequest(r, http.MethodPost, "/api/send-email", bytes.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Mailto  string `json:"mailto"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Mailto, "mailto:papers@example.com")
	assert.Contains(t, resp.Mailto, "Circuits")
}

func TestSendEmailRequiresEmail(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/send-email",
		bytes.NewReader([]byte(`{"subject":"Circuits"}`)), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
