package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"outrexo/internal/ai"
	"outrexo/internal/auth"
	"outrexo/internal/crypto"
	"outrexo/internal/mailer"
	metricsPkg "outrexo/internal/metrics"
	"outrexo/internal/service"
)

const sessionCookie = "outrexo_session"

// Handlers contains all HTTP handlers
type Handlers struct {
	db         *gorm.DB
	users      *service.UserService
	templates  *service.TemplateService
	campaigns  *service.CampaignService
	email      *service.EmailService
	runner     *service.Runner
	stats      *service.StatsService
	tokens     *auth.TokenManager
	google     *auth.GoogleFlow
	copywriter *ai.Copywriter
	smtp       *mailer.SMTPChannel
	cipher     *crypto.Cipher
	metrics    *metricsPkg.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(
	db *gorm.DB,
	users *service.UserService,
	templates *service.TemplateService,
	campaigns *service.CampaignService,
	email *service.EmailService,
	runner *service.Runner,
	stats *service.StatsService,
	tokens *auth.TokenManager,
	google *auth.GoogleFlow,
	copywriter *ai.Copywriter,
	smtp *mailer.SMTPChannel,
	cipher *crypto.Cipher,
	metrics *metricsPkg.Metrics,
) *Handlers {
	return &Handlers{
		db:         db,
		users:      users,
		templates:  templates,
		campaigns:  campaigns,
		email:      email,
		runner:     runner,
		stats:      stats,
		tokens:     tokens,
		google:     google,
		copywriter: copywriter,
		smtp:       smtp,
		cipher:     cipher,
		metrics:    metrics,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/google", h.GoogleRedirect)
		api.GET("/auth/google/callback", h.GoogleCallback)

		authed := api.Group("", h.RequireAuth())
		{
			authed.GET("/templates", h.ListTemplates)
			authed.POST("/templates", h.CreateTemplate)
			authed.GET("/templates/:id", h.GetTemplate)
			authed.PUT("/templates/:id", h.UpdateTemplate)
			authed.DELETE("/templates/:id", h.DeleteTemplate)

			authed.GET("/campaigns", h.ListCampaigns)
			authed.POST("/campaigns", h.CreateCampaign)
			authed.GET("/campaigns/:id", h.GetCampaign)
			authed.DELETE("/campaigns/:id", h.DeleteCampaign)
			authed.POST("/campaigns/:id/send", h.StartCampaignRun)
			authed.GET("/campaigns/:id/progress", h.CampaignProgress)

			authed.POST("/email/send", h.SendEmail)

			authed.GET("/settings/smtp", h.GetSMTPSettings)
			authed.POST("/settings/smtp", h.SaveSMTPSettings)

			authed.GET("/stats", h.GetStats)
			authed.GET("/stats/activity", h.GetRecentActivity)

			authed.POST("/ai/generate", h.GenerateCopy)
			authed.POST("/contacts/import", h.ImportContacts)
		}
	}
}

// RequireAuth verifies the session token from the Authorization header
// or the session cookie and stores the caller's user id on the context.
func (h *Handlers) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := c.Cookie(sessionCookie); err == nil {
			token = cookie
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing session token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		userID, err := h.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid session token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// userID returns the authenticated caller's id.
func userID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid id parameter",
			Code:    http.StatusBadRequest,
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto the HTTP error taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
			Code:    http.StatusNotFound,
		})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
			Code:    http.StatusUnauthorized,
		})
	case errors.Is(err, service.ErrRunInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "run_in_progress",
			Message: err.Error(),
			Code:    http.StatusConflict,
		})
	case errors.Is(err, mailer.ErrNoChannel):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "configuration_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
			Code:    http.StatusInternalServerError,
		})
	}
}

func userResponse(id uint, name, email, image string) UserResponse {
	return UserResponse{ID: id, Name: name, Email: email, Image: image}
}
