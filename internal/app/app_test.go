package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Tasker/internal/auth"
	"Tasker/internal/config"
	"Tasker/internal/dto"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{}
	cfg.JWT.Key = "0123456789abcdef0123456789abcdef"
	cfg.JWT.Issuer = "tasker.local"
	cfg.JWT.Audience = "tasker-clients"
	cfg.Auth.Username = "test"
	cfg.Auth.Password = "password"

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("app init: %v", err)
	}
	return a
}

func doJSON(t *testing.T, a *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, a *App) string {
	t.Helper()
	w := doJSON(t, a, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "test", "password": "password"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: got status %d: %s", w.Code, w.Body.String())
	}
	var resp dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login returned no token")
	}
	return resp.Token
}

func TestNew_RequiresJWTSettings(t *testing.T) {
	cfg := config.Config{}
	cfg.Auth.Username = "test"
	cfg.Auth.Password = "password"

	if _, err := New(cfg); err == nil {
		t.Fatalf("want error without JWT settings, got nil")
	}
}

func TestLogin(t *testing.T) {
	a := newTestApp(t)

	t.Run("valid credentials return token and cookie", func(t *testing.T) {
		w := doJSON(t, a, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "test", "password": "password"})
		if w.Code != http.StatusOK {
			t.Fatalf("got status %d: %s", w.Code, w.Body.String())
		}
		cookie := w.Header().Get("Set-Cookie")
		if !strings.Contains(cookie, auth.AccessTokenCookie+"=") {
			t.Errorf("access_token cookie not set: %q", cookie)
		}
		if !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "Secure") {
			t.Errorf("cookie missing HttpOnly/Secure: %q", cookie)
		}
	})

	t.Run("wrong credentials are unauthorized", func(t *testing.T) {
		w := doJSON(t, a, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "test", "password": "nope"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})

	t.Run("empty body is distinguished from missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "login payload is required") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}

		w2 := doJSON(t, a, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "test"})
		if w2.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w2.Code)
		}
		if !strings.Contains(w2.Body.String(), "username and password are required") {
			t.Errorf("unexpected body: %s", w2.Body.String())
		}
	})
}

func TestTodosRequireToken(t *testing.T) {
	a := newTestApp(t)

	w := doJSON(t, a, http.MethodPost, "/api/v1/todos", "", gin.H{"title": "Buy milk"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestTodoFlow(t *testing.T) {
	a := newTestApp(t)
	token := login(t, a)

	// Create
	w := doJSON(t, a, http.MethodPost, "/api/v1/todos", token, gin.H{"title": "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got status %d: %s", w.Code, w.Body.String())
	}
	var created dto.TodoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Title != "Buy milk" || created.Completed {
		t.Fatalf("unexpected created item: %+v", created)
	}
	if created.ID == "" {
		t.Fatalf("created item has no id")
	}

	// Get
	w = doJSON(t, a, http.MethodGet, "/api/v1/todos/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: got status %d: %s", w.Code, w.Body.String())
	}

	// Update
	w = doJSON(t, a, http.MethodPut, "/api/v1/todos/"+created.ID, token, gin.H{
		"title":       "Buy oat milk",
		"description": "two cartons",
		"completed":   false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: got status %d: %s", w.Code, w.Body.String())
	}
	var updated dto.TodoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Title != "Buy oat milk" || updated.ID != created.ID {
		t.Fatalf("unexpected updated item: %+v", updated)
	}

	// Complete, twice: second must also succeed
	for i := 0; i < 2; i++ {
		w = doJSON(t, a, http.MethodPatch, "/api/v1/todos/"+created.ID+"/complete", token, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("complete #%d: got status %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	// List filtered to completed items
	w = doJSON(t, a, http.MethodGet, "/api/v1/todos?is_completed=true", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: got status %d: %s", w.Code, w.Body.String())
	}
	var list dto.ListTodosResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || !list.Items[0].Completed {
		t.Fatalf("unexpected list: %+v", list.Items)
	}

	// Delete, then the id is gone and a second delete is a 404
	w = doJSON(t, a, http.MethodDelete, "/api/v1/todos/"+created.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, a, http.MethodGet, "/api/v1/todos/"+created.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got status %d, want 404", w.Code)
	}
	w = doJSON(t, a, http.MethodDelete, "/api/v1/todos/"+created.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got status %d, want 404", w.Code)
	}
}

func TestTodoValidationOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := login(t, a)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing title", body: gin.H{"description": "no title"}},
		{name: "whitespace title", body: gin.H{"title": "   "}},
		{name: "past due date", body: gin.H{"title": "t", "due_date": "2000-01-01"}},
		{name: "unparseable due date", body: gin.H{"title": "t", "due_date": "next tuesday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, a, http.MethodPost, "/api/v1/todos", token, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCookieAuthenticatesRequests(t *testing.T) {
	a := newTestApp(t)
	token := login(t, a)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestApp(t)

	w := doJSON(t, a, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: got status %d", w.Code)
	}

	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Referrer-Policy":           "no-referrer",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s: got %q, want %q", header, got, value)
		}
	}
}

func TestServiceEndpoints(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/", "/health", "/version"} {
		w := doJSON(t, a, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", path, w.Code)
		}
	}
}
