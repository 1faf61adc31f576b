package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/verdant-oils/storefront-backend/pkg/auth"
	"github.com/verdant-oils/storefront-backend/pkg/config"
)

type fakeChecker struct {
	ok   bool
	err  error
	seen string
}

func (f *fakeChecker) HasSession(_ context.Context, tokenID string) (bool, error) {
	f.seen = tokenID
	return f.ok, f.err
}

func sessionTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "verdant-test",
		ExpirationMinutes: 60,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig) (string, string) {
	t.Helper()
	token, claims, err := pkgauth.MintSessionToken(cfg, time.Now(), 42, "asha@example.com")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, claims.ID
}

func TestSessionRejectsMissingToken(t *testing.T) {
	checker := &fakeChecker{ok: true}
	handler := Session(sessionTestConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if checker.seen != "" {
		t.Fatalf("checker should not be consulted without a token")
	}
}

func TestSessionRejectsGarbageToken(t *testing.T) {
	checker := &fakeChecker{ok: true}
	handler := Session(sessionTestConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionSeedsCustomerIdentity(t *testing.T) {
	cfg := sessionTestConfig()
	token, tokenID := mintToken(t, cfg)
	checker := &fakeChecker{ok: true}

	var gotID int
	var gotEmail string
	handler := Session(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = CustomerIDFromContext(r.Context())
		gotEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 42 {
		t.Fatalf("expected customer id 42 in context, got %d", gotID)
	}
	if gotEmail != "asha@example.com" {
		t.Fatalf("expected email in context, got %q", gotEmail)
	}
	if checker.seen != tokenID {
		t.Fatalf("expected checker consulted with token id %q, got %q", tokenID, checker.seen)
	}
}

func TestSessionRejectsRevokedToken(t *testing.T) {
	cfg := sessionTestConfig()
	token, _ := mintToken(t, cfg)
	checker := &fakeChecker{ok: false}

	handler := Session(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run for a revoked session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", rec.Code)
	}
}

func TestSessionSurfacesCheckerFailure(t *testing.T) {
	cfg := sessionTestConfig()
	token, _ := mintToken(t, cfg)
	checker := &fakeChecker{err: errors.New("redis down")}

	handler := Session(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run when the session store fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when session check fails, got %d", rec.Code)
	}
}

func TestOptionalSessionLetsGuestsThrough(t *testing.T) {
	checker := &fakeChecker{ok: true}
	var gotID int
	handler := OptionalSession(sessionTestConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = CustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest checkout, got %d", rec.Code)
	}
	if gotID != 0 {
		t.Fatalf("expected no customer id for guest, got %d", gotID)
	}
}

func TestOptionalSessionAttachesCustomer(t *testing.T) {
	cfg := sessionTestConfig()
	token, _ := mintToken(t, cfg)
	checker := &fakeChecker{ok: true}

	var gotID int
	handler := OptionalSession(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = CustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != 42 {
		t.Fatalf("expected customer id 42 attached, got %d", gotID)
	}
}

func TestOptionalSessionIgnoresBadToken(t *testing.T) {
	checker := &fakeChecker{ok: true}
	handler := OptionalSession(sessionTestConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through with bad token, got %d", rec.Code)
	}
}
