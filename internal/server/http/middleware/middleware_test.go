package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/orderdesk/internal/domain/model"
	pkgAuth "github.com/orderdesk/orderdesk/internal/pkg/auth"
	testhelpers "github.com/orderdesk/orderdesk/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authProbe(parser TokenParser, captured *model.Session) *gin.Engine {
	router := gin.New()
	router.GET("/probe", AuthRequired(parser), func(c *gin.Context) {
		if captured != nil {
			val, _ := c.Get(SessionContextKey)
			session, _ := val.(model.Session)
			*captured = session
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthRequiredMissingToken(t *testing.T) {
	router := authProbe(testhelpers.TokenParserStub{}, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	router := authProbe(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}, nil)
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	router := authProbe(testhelpers.TokenParserStub{Err: errors.New("storage down")}, nil)
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}

func TestAuthRequiredStoresSession(t *testing.T) {
	clientID := int64(4)
	want := model.Session{UserID: 9, Role: model.RoleClient, ClientID: &clientID}
	var got model.Session
	router := authProbe(testhelpers.TokenParserStub{Session: &want}, &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got.UserID != 9 || got.Role != model.RoleClient || got.ClientID == nil || *got.ClientID != clientID {
		t.Fatalf("unexpected stored session %+v", got)
	}
}

func TestAuthRequiredReadsCookie(t *testing.T) {
	var seenToken string
	parser := testhelpers.TokenParserStub{ParseFn: func(_ context.Context, token string) (*model.Session, error) {
		seenToken = token
		return &model.Session{UserID: 1, Role: model.RoleAdmin}, nil
	}}
	router := authProbe(parser, nil)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: "orderdesk_token", Value: "cookie-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if seenToken != "cookie-token" {
		t.Fatalf("expected cookie token to be used, got %q", seenToken)
	}
}

func TestSetAuthCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetAuthCookie(c, "abc")

	if got := w.Header().Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "orderdesk_token=abc") {
		t.Fatalf("unexpected cookie header %q", w.Header().Get("Set-Cookie"))
	}
}

func TestDecompressRequest(t *testing.T) {
	var received string
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/echo", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		received = string(data)
		c.Status(http.StatusOK)
	})

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(`{"ping":"pong"}`)); err != nil {
		t.Fatalf("failed to compress body: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to finish gzip stream: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if received != `{"ping":"pong"}` {
		t.Fatalf("unexpected body %q", received)
	}
}

func TestDecompressRequestRejectsGarbage(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var logged bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logged, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	out := logged.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/ping"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output:\n%s", want, out)
		}
	}
}
