package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outrexo/internal/service"
)

// ListCampaigns returns the caller's campaigns newest first.
func (h *Handlers) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaigns.List(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// CreateCampaign persists the wizard draft: one campaign plus a QUEUED
// log per contact.
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	draft := service.NewDraft().
		SetName(req.Name).
		SetTemplate(req.TemplateID).
		SetContacts(req.Contacts)

	campaign, err := h.campaigns.Create(userID(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// GetCampaign returns one campaign with its logs.
func (h *Handlers) GetCampaign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	campaign, err := h.campaigns.Get(userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign removes a campaign and its logs.
func (h *Handlers) DeleteCampaign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.campaigns.Delete(userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartCampaignRun launches the sequential send loop for a campaign's
// queued logs in the background.
func (h *Handlers) StartCampaignRun(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	campaign, err := h.campaigns.Get(userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	template, err := h.templates.Get(userID(c), req.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.email.LoadUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	progress, err := h.runner.Start(user, campaign, template, req.Contacts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, progress.Snapshot())
}

// CampaignProgress reports the live counters of an active run.
func (h *Handlers) CampaignProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Ownership check before exposing progress
	if _, err := h.campaigns.Get(userID(c), id); err != nil {
		respondError(c, err)
		return
	}

	snapshot, found := h.runner.Progress(id)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "No send run for this campaign in this process",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
