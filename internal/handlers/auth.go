package handlers

import (
	"errors"
	"io"
	"net/http"

	"Tasker/internal/auth"
	"Tasker/internal/dto"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and token issuance.
type AuthHandler struct {
	verifier auth.Verifier
	issuer   *auth.TokenIssuer
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(verifier auth.Verifier, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{verifier: verifier, issuer: issuer}
}

// Login godoc
// @Summary      Login
// @Description  Validates credentials and returns a signed access token, also set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Empty body and missing fields are reported with distinct messages.
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "login payload is required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	subject, err := h.verifier.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := h.issuer.Issue(subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.AccessTokenCookie, token, int(h.issuer.TTL().Seconds()), "/", "", true, true) // secure, httpOnly
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
