package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const oauthStateCookie = "outrexo_oauth_state"

// Signup registers a credentials user and opens a session.
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.users.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logrus.Errorf("Failed to issue session token: %v", err)
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusCreated, SessionResponse{
		Token: token,
		User:  userResponse(user.ID, user.Name, user.Email, user.Image),
	})
}

// Login authenticates a credentials user and opens a session.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logrus.Errorf("Failed to issue session token: %v", err)
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, SessionResponse{
		Token: token,
		User:  userResponse(user.ID, user.Name, user.Email, user.Image),
	})
}

// GoogleRedirect sends the browser to the Google consent screen.
func (h *Handlers) GoogleRedirect(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "configuration_error",
			Message: "Google sign-in is not configured",
			Code:    http.StatusBadRequest,
		})
		return
	}

	state := randomState()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback finishes the OAuth flow: verifies state, exchanges the
// code, links the user and account, and opens a session.
func (h *Handlers) GoogleCallback(c *gin.Context) {
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "OAuth state mismatch",
			Code:    http.StatusBadRequest,
		})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Missing authorization code",
			Code:    http.StatusBadRequest,
		})
		return
	}

	profile, tokens, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		logrus.Errorf("Google code exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "oauth_error",
			Message: "Google sign-in failed",
			Code:    http.StatusBadGateway,
		})
		return
	}

	user, err := h.users.UpsertGoogleUser(profile, tokens)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logrus.Errorf("Failed to issue session token: %v", err)
		respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, SessionResponse{
		Token: token,
		User:  userResponse(user.ID, user.Name, user.Email, user.Image),
	})
}

func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for session security
		panic(err)
	}
	return hex.EncodeToString(b)
}
