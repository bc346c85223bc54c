package auth

import (
	"testing"
	"time"

	"github.com/erazemk/katalog/internal/model"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:   "test-secret-key",
		Issuer:   "katalog",
		Audience: "katalog",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testTokenConfig()

	token, expiresAt, err := GenerateToken(cfg, 7, "alice", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 23*time.Hour {
		t.Errorf("expected ~24h expiry, got %s", remaining)
	}

	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username 'alice', got %q", claims.Username)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", claims.Role)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testTokenConfig()
	token, _, _ := GenerateToken(cfg, 1, "alice", model.RoleUser)

	other := cfg
	other.Secret = "a-different-secret"
	if _, err := ValidateToken(other, token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Expiry = -time.Minute

	token, _, err := GenerateToken(cfg, 1, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(cfg, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateTokenWrongAudience(t *testing.T) {
	cfg := testTokenConfig()
	token, _, _ := GenerateToken(cfg, 1, "alice", model.RoleUser)

	other := cfg
	other.Audience = "some-other-service"
	if _, err := ValidateToken(other, token); err == nil {
		t.Error("expected error for wrong audience")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	cfg := testTokenConfig()
	token, _, _ := GenerateToken(cfg, 1, "alice", model.RoleUser)

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ValidateToken(other, token); err == nil {
		t.Error("expected error for wrong issuer")
	}
}
