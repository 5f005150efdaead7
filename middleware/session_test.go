package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-key-for-unit-tests"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(sessions *utils.SessionStore) *gin.Engine {
	r := gin.New()

	protected := r.Group("/api")
	protected.Use(SessionMiddleware(testSecret, sessions))
	protected.GET("/test", func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": s.ID})
	})
	return r
}

func TestSessionMiddlewareNoToken(t *testing.T) {
	r := setupTestRouter(utils.NewSessionStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/test", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSessionMiddlewareInvalidFormat(t *testing.T) {
	r := setupTestRouter(utils.NewSessionStore())

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSessionMiddlewareInvalidToken(t *testing.T) {
	r := setupTestRouter(utils.NewSessionStore())

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSessionMiddlewareBearerToken(t *testing.T) {
	sessions := utils.NewSessionStore()
	s := sessions.Create()
	token, err := utils.GenerateSessionToken(testSecret, s.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	setupTestRouter(sessions).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["session_id"] != s.ID {
		t.Errorf("expected session %s, got %s", s.ID, resp["session_id"])
	}
}

func TestSessionMiddlewareHeaderTokenRestoresSession(t *testing.T) {
	sessions := utils.NewSessionStore()
	token, _ := utils.GenerateSessionToken(testSecret, "dropped-session", time.Hour)

	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set(SessionHeader, token)
	w := httptest.NewRecorder()
	setupTestRouter(sessions).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := sessions.Get("dropped-session"); !ok {
		t.Error("expected session to be recreated from a valid token")
	}
}
