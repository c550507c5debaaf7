package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outrexo/internal/service"
)

// SendEmail performs one per-recipient send attempt. The outcome is
// recorded on the referenced log row and campaign counters before the
// response goes out, whichever way it went.
func (h *Handlers) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Ownership check: the campaign must belong to the caller
	if _, err := h.campaigns.Get(userID(c), req.CampaignID); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.email.LoadUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	channel, err := h.email.SendOne(c.Request.Context(), user, req.To, req.Subject, req.HTMLBody, req.CampaignID, req.LogID)
	if err != nil {
		if service.IsNoChannelError(err) {
			respondError(c, err)
			return
		}
		logrus.Warnf("Delivery to %s failed: %v", req.To, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delivery_error",
			Message: "Failed to send email",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, SendEmailResponse{Success: true, Method: channel})
}
