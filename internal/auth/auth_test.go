package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokens_SaveKeepsRefreshWhenNotRotated(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens(NewMemoryStorage())

	if err := tokens.Save(ctx, "a1", "r1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tokens.Save(ctx, "a2", ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	access, _ := tokens.Access(ctx)
	refresh, _ := tokens.Refresh(ctx)
	if access != "a2" || refresh != "r1" {
		t.Fatalf("expected a2/r1, got %s/%s", access, refresh)
	}

	if err := tokens.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	access, _ = tokens.Access(ctx)
	refresh, _ = tokens.Refresh(ctx)
	if access != "" || refresh != "" {
		t.Fatalf("expected cleared tokens, got %q/%q", access, refresh)
	}
}

func TestPeekClaims(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           12,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := PeekClaims(signed)
	if err != nil {
		t.Fatalf("PeekClaims: %v", err)
	}
	if claims.UserID != 12 {
		t.Fatalf("expected user 12, got %d", claims.UserID)
	}
	if !claims.Expired(time.Now()) {
		t.Fatalf("expected expired claims")
	}

	if _, err := PeekClaims("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
