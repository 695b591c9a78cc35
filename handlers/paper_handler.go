package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"crackexam-backend/models"
	"crackexam-backend/service"

	"github.com/gin-gonic/gin"
)

// PaperHandler handles the /api/papers CRUD surface.
type PaperHandler struct {
	svc         *service.PaperService
	maxFileSize int64
}

// NewPaperHandler creates a paper handler over the lifecycle service.
func NewPaperHandler(svc *service.PaperService) *PaperHandler {
	return &PaperHandler{
		svc:         svc,
		maxFileSize: 25 * 1024 * 1024, // 25MB
	}
}

// List handles GET /api/papers.
func (h *PaperHandler) List(c *gin.Context) {
	papers, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if papers == nil {
		papers = []*models.Paper{}
	}
	c.JSON(http.StatusOK, papers)
}

// Create handles POST /api/papers.
func (h *PaperHandler) Create(c *gin.Context) {
	fields, fileName, fileBytes, ok := h.parseForm(c)
	if !ok {
		return
	}

	paper, err := h.svc.Create(c.Request.Context(), service.CreatePaperRequest{
		College:     fields["college"],
		Degree:      fields["degree"],
		Stream:      fields["stream"],
		Subject:     fields["subject"],
		Year:        fields["year"],
		FileName:    fileName,
		FileBytes:   fileBytes,
		ExternalURL: fields["content"],
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, paper)
}

// Update handles PUT /api/papers/:id.
func (h *PaperHandler) Update(c *gin.Context) {
	fields, fileName, fileBytes, ok := h.parseForm(c)
	if !ok {
		return
	}

	paper, err := h.svc.Replace(c.Request.Context(), c.Param("id"), service.ReplacePaperRequest{
		College:     fields["college"],
		Degree:      fields["degree"],
		Stream:      fields["stream"],
		Subject:     fields["subject"],
		Year:        fields["year"],
		FileName:    fileName,
		FileBytes:   fileBytes,
		ExternalURL: fields["content"],
	})
	if err != nil {
		if service.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, paper)
}

// Delete handles DELETE /api/papers/:id.
func (h *PaperHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if service.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseForm extracts the classification fields and the optional pdf file
// from the multipart body. The mime filter runs before any bytes are read
// and before any repository or blob-store call. On failure it writes the
// error response and returns ok=false.
func (h *PaperHandler) parseForm(c *gin.Context) (fields map[string]string, fileName string, fileBytes []byte, ok bool) {
	fields = map[string]string{
		"college": c.PostForm("college"),
		"degree":  c.PostForm("degree"),
		"stream":  c.PostForm("stream"),
		"subject": c.PostForm("subject"),
		"year":    c.PostForm("year"),
		"content": c.PostForm("content"),
	}
	for _, key := range []string{"college", "degree", "stream", "subject", "year"} {
		if fields[key] == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Field %q is required", key)})
			return nil, "", nil, false
		}
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		// No file attached: the record may point at an external URL instead.
		return fields, "", nil, true
	}

	if mime := fileHeader.Header.Get("Content-Type"); mime != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed!"})
		return nil, "", nil, false
	}
	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize)})
		return nil, "", nil, false
	}

	fileBytes, err = readAll(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, "", nil, false
	}
	return fields, fileHeader.Filename, fileBytes, true
}

// readAll buffers the uploaded file fully in memory, matching the
// whole-buffer upload contract of the blob store.
func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	return data, nil
}
