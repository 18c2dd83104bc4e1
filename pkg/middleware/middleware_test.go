package middleware

import (
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/internal/model"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(NewRequestIDMiddleware())
	r.Use(mw...)
	r.Any("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})

	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeSessions map[string]*auth.Session

func (f fakeSessions) CurrentSession(_ context.Context, token string) (*auth.Session, error) {
	switch token {
	case "expired":
		return nil, auth.ErrSessionExpired
	case "broken":
		return nil, errors.New("db down")
	}

	s, ok := f[token]
	if !ok {
		return nil, auth.ErrSessionInvalid
	}

	return s, nil
}

func withCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}

	return req
}

func TestJWTMiddleware(t *testing.T) {
	sessions := fakeSessions{
		"good":       {ID: "alice", EmailVerified: true},
		"unverified": {ID: "bob"},
	}

	r := newEngine(NewJWTMiddleware(sessions, false))

	assert.Equal(t, http.StatusUnauthorized, do(r, withCookie("")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, withCookie("nope")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, withCookie("expired")).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, withCookie("broken")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, withCookie("unverified")).Code)

	w := do(r, withCookie("good"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alice"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	lenient := newEngine(NewJWTMiddleware(sessions, true))
	assert.Equal(t, http.StatusOK, do(lenient, withCookie("unverified")).Code)
}

type fakeProfiles map[string]*model.User

func (f fakeProfiles) Get(_ context.Context, id string) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("not found")
	}

	return u, nil
}

func TestRequireCapability(t *testing.T) {
	sessions := fakeSessions{
		"admin":    {ID: "a", EmailVerified: true},
		"user":     {ID: "u", EmailVerified: true},
		"inactive": {ID: "i", EmailVerified: true},
		"ghost":    {ID: "g", EmailVerified: true},
	}
	profiles := fakeProfiles{
		"a": {ID: "a", Role: model.RoleAdmin, IsActive: true},
		"u": {ID: "u", Role: model.RoleUser, IsActive: true},
		"i": {ID: "i", Role: model.RoleOwner},
	}

	r := newEngine(NewJWTMiddleware(sessions, false), RequireCapability(profiles, CanManageUsers))

	assert.Equal(t, http.StatusOK, do(r, withCookie("admin")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, withCookie("user")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, withCookie("inactive")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, withCookie("ghost")).Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 2})
	r := newEngine(l.Middleware())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, do(r, req).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, do(r, other).Code)

	unlimited := newEngine(NewRateLimiter(RateLimiterConfig{}).Middleware())
	for range 5 {
		assert.Equal(t, http.StatusOK, do(unlimited, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestBodySizeLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestIDMiddleware(), BodySizeLimiter(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this is too large"))).Code)
}

func TestBodySizeLimiterChunked(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestIDMiddleware(), BodySizeLimiter(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("this is too large")))
	req.ContentLength = -1

	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, req).Code)
}

func TestRequestIDReusesForwardedID(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "edge-1234abcd")
	assert.Equal(t, "edge-1234abcd", do(r, req).Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	id := do(r, req).Header().Get("X-Request-ID")
	assert.Len(t, id, 10)
	assert.NotEqual(t, "<script>", id)
}

func TestTurnstile(t *testing.T) {
	verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `"response":"pass"`) {
			io.WriteString(w, `{"success":true}`)
			return
		}
		io.WriteString(w, `{"success":false,"error-codes":["invalid-input-response"]}`)
	}))
	defer verifier.Close()

	r := newEngine(NewTurnstileMiddleware(TurnstileConfig{Enabled: true, Secret: "s", VerifyURL: verifier.URL}))

	req := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if token != "" {
			req.Header.Set("TurnstileToken", token)
		}
		return req
	}

	assert.Equal(t, http.StatusBadRequest, do(r, req("")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, req("fail")).Code)
	assert.Equal(t, http.StatusOK, do(r, req("pass")).Code)

	disabled := newEngine(NewTurnstileMiddleware(TurnstileConfig{}))
	require.Equal(t, http.StatusOK, do(disabled, req("")).Code)
}
