package handlers

import (
	"context"
	"net/http"
	"time"

	"crackexam-backend/mailer"

	"github.com/gin-gonic/gin"
)

// EmailHandler dispatches paper-request notifications. With no transport
// configured it answers with a mailto link the client can open itself.
type EmailHandler struct {
	sender    mailer.Sender // nil when no transport is configured
	recipient string
	timeout   time.Duration
}

// NewEmailHandler creates the notification handler.
func NewEmailHandler(sender mailer.Sender, recipient string, timeout time.Duration) *EmailHandler {
	return &EmailHandler{sender: sender, recipient: recipient, timeout: timeout}
}

// Send handles POST /api/send-email.
func (h *EmailHandler) Send(c *gin.Context) {
	var req mailer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requester email is required"})
		return
	}

	if h.sender == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"mailto":  mailer.MailtoLink(h.recipient, req),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.sender.Send(ctx, req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Request sent",
	})
}
