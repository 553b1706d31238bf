package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfaportal/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("generates one when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("honors an incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "upstream-id", seen)
	})
}

func TestMetadataClientIP(t *testing.T) {
	var ip string
	h := Metadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
	}))

	t.Run("falls back to the socket address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:54321"
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "192.0.2.10", ip)
	})

	t.Run("prefers the first forwarded hop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "203.0.113.7", ip)
	})
}

func TestSummarizeUserAgent(t *testing.T) {
	chrome := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	summary := summarizeUserAgent(chrome)
	assert.Contains(t, summary, "Chrome")
	assert.Contains(t, summary, "Windows")

	assert.Empty(t, summarizeUserAgent(""))
}

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (v *stubValidator) ValidateToken(string) (*TokenClaims, error) {
	return v.claims, v.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("missing header is 401", func(t *testing.T) {
		h := RequireAuth(&stubValidator{}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		h := RequireAuth(&stubValidator{err: errors.New("bad token")}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token injects the identity", func(t *testing.T) {
		validator := &stubValidator{claims: &TokenClaims{
			AccountID: "acc-1",
			Username:  "jperez",
			Role:      "Oficial",
		}}
		var gotAccount, gotRole string
		h := RequireAuth(validator, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAccount = requestcontext.AccountID(r.Context())
			gotRole = requestcontext.Role(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acc-1", gotAccount)
		assert.Equal(t, "Oficial", gotRole)
	})
}
