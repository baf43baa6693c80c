package auth_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/romatertia749-eng/StudNet/internal/repo/redis"
	authsvc "github.com/romatertia749-eng/StudNet/internal/services/auth"
)

func TestRefreshRotation(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t, "")
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.LoginTelegram(ctx, "user_id=1001")
	if err != nil {
		t.Fatalf("login telegram: %v", err)
	}

	refreshRes, err := svc.Refresh(ctx, loginRes.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshRes.RefreshToken == loginRes.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}

	if _, err := svc.Refresh(ctx, loginRes.RefreshToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old refresh token should be unauthorized, got err=%v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, refreshRes.AccessToken); err != nil {
		t.Fatalf("new access token validation failed: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, cleanup := newAuthServiceForTest(t, "")
	defer cleanup()

	ctx := context.Background()
	loginRes, err := svc.LoginTelegram(ctx, "user_id=2002")
	if err != nil {
		t.Fatalf("login telegram: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestLoginVerifiesInitDataHash(t *testing.T) {
	const botToken = "12345:test-bot-token"

	svc, cleanup := newAuthServiceForTest(t, botToken)
	defer cleanup()

	ctx := context.Background()

	if _, err := svc.LoginTelegram(ctx, "user_id=3003&hash=deadbeef"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("forged init data should be unauthorized, got err=%v", err)
	}

	signed := signInitData(t, botToken, url.Values{
		"user_id":   {"3003"},
		"auth_date": {"1700000000"},
	})
	loginRes, err := svc.LoginTelegram(ctx, signed)
	if err != nil {
		t.Fatalf("login with signed init data: %v", err)
	}
	if loginRes.UserID != 3003 {
		t.Fatalf("unexpected user id: got %d want 3003", loginRes.UserID)
	}
}

func signInitData(t *testing.T, botToken string, values url.Values) string {
	t.Helper()

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretMAC := hmac.New(sha256.New, []byte("WebAppData"))
	secretMAC.Write([]byte(botToken))
	dataMAC := hmac.New(sha256.New, secretMAC.Sum(nil))
	dataMAC.Write([]byte(checkString))

	values.Set("hash", hex.EncodeToString(dataMAC.Sum(nil)))
	return values.Encode()
}

func newAuthServiceForTest(t *testing.T, botToken string) (*authsvc.Service, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	repo := redrepo.NewSessionRepo(client)
	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute)
	svc := authsvc.NewService(jwtManager, repo, botToken, 45*24*time.Hour)

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, cleanup
}
