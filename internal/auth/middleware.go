package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the cookie the login endpoint sets and the
// middleware reads.
const AccessTokenCookie = "access_token"

const contextKeySubject = "subject"

// SubjectFromContext returns the authenticated subject set by RequireToken.
// Empty if the request did not pass the middleware.
func SubjectFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeySubject)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// RequireToken returns a middleware that extracts the access token from
// the access_token cookie or the Authorization header, verifies it and
// stores the subject in the request context. Missing, expired, forged and
// malformed tokens are all rejected with the same 401 response.
func RequireToken(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		subject, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeySubject, subject)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}
