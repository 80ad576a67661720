package jwt

import (
	"errors"
	"testing"
	"time"
)

const secret = "unit-test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateAccessToken(7, "user@example.com", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Expected email 'user@example.com', got '%s'", claims.Email)
	}
	if claims.Subject != "7" {
		t.Errorf("Expected subject '7', got '%s'", claims.Subject)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "user@example.com", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(7, "user@example.com", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateToken(token, secret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token", secret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
