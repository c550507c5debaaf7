package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTemplates returns the caller's templates, most recently updated
// first.
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.templates.List(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTemplate creates a new template.
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	template, err := h.templates.Create(userID(c), req.Name, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// GetTemplate returns one template.
func (h *Handlers) GetTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	template, err := h.templates.Get(userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate rewrites a template.
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	template, err := h.templates.Update(userID(c), id, req.Name, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template.
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.templates.Delete(userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
