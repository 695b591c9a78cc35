package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"crackexam-backend/service"
	"crackexam-backend/storage"

	"github.com/gin-gonic/gin"
)

// PDFHandler is the proxy relay: it streams stored blobs through the server
// so provider URLs and credentials never reach the client. Blob ids arrive
// as an escaped query value because they contain path separators.
type PDFHandler struct {
	svc *service.PaperService
}

// NewPDFHandler creates the relay handler.
func NewPDFHandler(svc *service.PaperService) *PDFHandler {
	return &PDFHandler{svc: svc}
}

// Stream handles GET /api/pdf?id=<blobID>.
func (h *PDFHandler) Stream(c *gin.Context) {
	blobID := c.Query("id")
	if blobID == "" {
		blobID = c.Query("publicId")
	}
	if blobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Public ID is required"})
		return
	}

	rc, size, err := h.svc.Stream(c.Request.Context(), blobID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch PDF"})
		return
	}
	defer rc.Close()

	// Inline rendering for in-browser viewers, embeddable cross-origin,
	// range requests advertised for viewers that seek within large files.
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(blobID)))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Accept-Ranges", "bytes")

	c.DataFromReader(http.StatusOK, size, "application/pdf", rc, nil)
}
