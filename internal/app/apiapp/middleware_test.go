package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redrepo "github.com/romatertia749-eng/StudNet/internal/repo/redis"
	authsvc "github.com/romatertia749-eng/StudNet/internal/services/auth"
)

func TestAuthMiddlewareRejectsMissingBearer(t *testing.T) {
	svc, cleanup := newAuthService(t)
	defer cleanup()

	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	svc, cleanup := newAuthService(t)
	defer cleanup()

	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called with a bad token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	svc, cleanup := newAuthService(t)
	defer cleanup()

	res, err := svc.LoginTelegram(context.Background(), "user_id=42")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/matches", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != 42 {
			t.Fatalf("unexpected user id: got %d want 42", identity.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestExtractBearerToken(t *testing.T) {
	for _, tc := range []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer ", ok: false},
		{header: "", ok: false},
	} {
		got, ok := extractBearerToken(tc.header)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("extractBearerToken(%q): got %q/%v want %q/%v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}

func newAuthService(t *testing.T) (*authsvc.Service, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	sessions := redrepo.NewSessionRepo(client)
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, sessions, "", 24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}
	return svc, cleanup
}
