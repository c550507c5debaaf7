package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outrexo/internal/ai"
	"outrexo/internal/contacts"
)

// GenerateCopy asks the copywriting models for an HTML email body.
func (h *Handlers) GenerateCopy(c *gin.Context) {
	var req GenerateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Prompt is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	content, err := h.copywriter.Generate(c.Request.Context(), req.Prompt, req.Tone)
	if err != nil {
		if errors.Is(err, ai.ErrUpstreamBusy) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "ai_busy",
				Message: "AI is currently busy, please try again in a moment.",
				Code:    http.StatusServiceUnavailable,
			})
			return
		}
		logrus.Errorf("Copy generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "ai_error",
			Message: "Failed to generate email.",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, GenerateCopyResponse{Content: content})
}

// ImportContacts parses an uploaded CSV into the wizard's contact list.
func (h *Handlers) ImportContacts(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "A CSV file upload is required",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	parsed, skipped, err := contacts.ParseCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, ImportContactsResponse{Contacts: parsed, Skipped: skipped})
}
