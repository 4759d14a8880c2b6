package auth

import (
	"testing"

	"github.com/farmapunto/pos-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "farmapunto-pos",
		ExpirationMinutes: 60,
	}
}

func TestTerminalTokenRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := IssueTerminalToken(cfg, "cashier-1", "branch-1", "reg-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ParseTerminalToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "cashier-1" || claims.BranchID != "branch-1" || claims.RegisterID != "reg-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := IssueTerminalToken(cfg, "cashier-1", "branch-1", "reg-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	bad := cfg
	bad.Secret = "other-secret"
	if _, err := ParseTerminalToken(bad, token); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := IssueTerminalToken(cfg, "cashier-1", "branch-1", "reg-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseTerminalToken(other, token); err == nil {
		t.Fatal("expected issuer rejection")
	}
}

func TestParseRejectsMissingIdentity(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := IssueTerminalToken(cfg, "", "branch-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ParseTerminalToken(cfg, token); err == nil {
		t.Fatal("expected rejection of token without user and register")
	}
}
