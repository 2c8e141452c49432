package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGatedRouter(t *testing.T) (*TokenIssuer, *gin.Engine) {
	t.Helper()
	issuer := newTestIssuer(t)

	r := gin.New()
	r.GET("/protected", RequireToken(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": SubjectFromContext(c)})
	})
	return issuer, r
}

func TestRequireToken_RejectsUniformly(t *testing.T) {
	_, r := newGatedRouter(t)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "expired token", token: signToken(t, testKey, expired)},
		{name: "token signed with another key", token: signToken(t, "another-secret-key-entirely-here", validClaims())},
		{name: "garbage token", token: "garbage"},
	}

	var firstBody string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.token})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", w.Code)
			}
			// The rejection must not reveal which check failed.
			if firstBody == "" {
				firstBody = w.Body.String()
			} else if w.Body.String() != firstBody {
				t.Errorf("rejection bodies differ: %q vs %q", w.Body.String(), firstBody)
			}
		})
	}
}

func TestRequireToken_AcceptsCookie(t *testing.T) {
	issuer, r := newGatedRouter(t)

	token, err := issuer.Issue("test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["subject"] != "test" {
		t.Errorf("got subject %q, want %q", body["subject"], "test")
	}
}

func TestRequireToken_AcceptsBearerHeader(t *testing.T) {
	issuer, r := newGatedRouter(t)

	token, err := issuer.Issue("test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestSubjectFromContext_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := SubjectFromContext(c); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
