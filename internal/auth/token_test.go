package auth

import (
	"testing"
	"time"

	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/pkg/cerr"
)

func newTestIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer(&config.AuthEnv{JWTSecret: secret, TokenTTL: ttl})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := newTestIssuer("test-secret", time.Hour)

	token, expiresAt, err := issuer.Issue("u1", "USER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("got user id %s, want u1", claims.UserID)
	}
	if claims.SystemRole != "USER" {
		t.Errorf("got role %s, want USER", claims.SystemRole)
	}
	if claims.Issuer != "planwise" {
		t.Errorf("got issuer %s, want planwise", claims.Issuer)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := newTestIssuer("secret-a", time.Hour).Issue("u1", "USER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = newTestIssuer("secret-b", time.Hour).Verify(token)
	if !cerr.IsCode(err, cerr.Unauthenticated) {
		t.Fatalf("got %v, want Unauthenticated", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := newTestIssuer("test-secret", -time.Minute)

	token, _, err := issuer.Issue("u1", "USER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuer.Verify(token); !cerr.IsCode(err, cerr.Unauthenticated) {
		t.Fatalf("got %v, want Unauthenticated", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := newTestIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(token); !cerr.IsCode(err, cerr.Unauthenticated) {
			t.Errorf("Verify(%q): got %v, want Unauthenticated", token, err)
		}
	}
}
