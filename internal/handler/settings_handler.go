package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outrexo/internal/mailer"
	"outrexo/internal/model"
)

// SaveSMTPSettings verifies the submitted credentials against the
// server, then encrypts the password and persists the configuration.
// Nothing is stored when verification fails.
func (h *Handlers) SaveSMTPSettings(c *gin.Context) {
	var req SMTPSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	secure := req.Port == 465
	settings := mailer.SMTPSettings{
		Host:     req.Host,
		Port:     req.Port,
		Username: req.User,
		Password: req.Password,
		SSL:      secure,
	}

	if err := h.smtp.Verify(settings); err != nil {
		logrus.Warnf("SMTP verification failed for %s: %v", req.Host, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "smtp_verification_failed",
			Message: "Failed to verify SMTP connection. Please check your credentials.",
			Code:    http.StatusBadRequest,
		})
		return
	}

	encrypted, err := h.cipher.Encrypt(req.Password)
	if err != nil {
		logrus.Errorf("Failed to encrypt SMTP password: %v", err)
		respondError(c, err)
		return
	}

	updates := map[string]interface{}{
		"smtp_host":     req.Host,
		"smtp_port":     req.Port,
		"smtp_user":     req.User,
		"smtp_secure":   secure,
		"smtp_password": encrypted.Content,
		"smtp_iv":       encrypted.IV,
	}
	if err := h.db.Model(&model.User{}).Where("id = ?", userID(c)).Updates(updates).Error; err != nil {
		logrus.Errorf("Failed to persist SMTP settings: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SMTP credentials verified and saved.",
	})
}

// GetSMTPSettings returns the stored configuration without the secret.
func (h *Handlers) GetSMTPSettings(c *gin.Context) {
	user, err := h.email.LoadUser(userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SMTPSettingsResponse{
		Host:       user.SMTPHost,
		Port:       user.SMTPPort,
		User:       user.SMTPUser,
		Secure:     user.SMTPSecure,
		Configured: user.HasSMTPConfig(),
	})
}
