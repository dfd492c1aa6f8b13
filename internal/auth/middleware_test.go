package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, cfg Config, subject string, scopes []string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    subject,
		"iss":    cfg.Issuer,
		"scopes": scopes,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestMiddlewareExemptsHealthAndMetrics(t *testing.T) {
	middleware := NewMiddleware(Config{Secret: "test-secret", Issuer: "wellness.identity"})

	wrapped := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s without credentials = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	middleware := NewMiddleware(Config{Secret: "test-secret", Issuer: "wellness.identity"})

	wrapped := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/challenges", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /v1/challenges without credentials = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewarePassesClaimsToHandler(t *testing.T) {
	cfg := Config{Secret: "test-secret", Issuer: "wellness.identity"}
	middleware := NewMiddleware(cfg)

	var got *Claims
	wrapped := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/challenges", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, "user-1", []string{"points:read"}))
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request = %d, want %d", rec.Code, http.StatusOK)
	}
	if got == nil || got.Subject != "user-1" {
		t.Fatalf("claims = %+v, want subject user-1", got)
	}
	if !got.HasScope("points:read") {
		t.Fatal("expected points:read scope in claims")
	}
}
