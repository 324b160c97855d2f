package auth

import (
	"strings"
	"testing"

	"farm-backend/internal/config"
	"farm-backend/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "farm-backend"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager(testConfig("s3cret"))
	user := &models.User{ID: 7, Email: "owner@farm.test", Role: models.RoleAdmin}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 7 || claims.Email != user.Email || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager(testConfig("one")).GenerateToken(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := NewJWTManager(testConfig("two")).ValidateToken(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
	if _, err := NewJWTManager(testConfig("one")).ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token was accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !VerifyPassword(hash, "correct horse") {
		t.Error("VerifyPassword rejected the right password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"", false},
		{"12345", false},
		{"123456", true},
		{strings.Repeat("p", MaxPasswordLength), true},
		{strings.Repeat("p", MaxPasswordLength+1), false},
	}
	for _, tt := range tests {
		if err := CheckPassword(tt.password); (err == nil) != tt.ok {
			t.Errorf("CheckPassword(len %d) error = %v, want ok=%v", len(tt.password), err, tt.ok)
		}
	}
}
