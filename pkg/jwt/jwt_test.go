package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		expiration time.Duration
		secret     string
	}{
		{name: "session token", userID: "user-123", expiration: 7 * 24 * time.Hour, secret: "test-secret-key-32-characters!"},
		{name: "short expiration", userID: "user-456", expiration: time.Second, secret: "test-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.expiration, tt.secret)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}

			if token == "" {
				t.Fatal("GenerateToken() returned empty token")
			}

			claims, err := ValidateToken(token, tt.secret)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}

			if claims.UserID != tt.userID || claims.Subject != tt.userID {
				t.Errorf("claims user = %v/%v, want %v", claims.UserID, claims.Subject, tt.userID)
			}

			lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
			if lifetime != tt.expiration.Truncate(time.Second) {
				t.Errorf("token lifetime = %v, want %v", lifetime, tt.expiration)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := "test-user-id"
	secret := "validation-secret-key-32-chars"

	validToken, _ := GenerateToken(userID, time.Hour, secret)
	expiredToken, _ := GenerateToken(userID, -time.Hour, secret)
	noneToken, _ := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{UserID: userID}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	emptySubject, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &Claims{}).SignedString([]byte(secret))

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr bool
	}{
		{name: "valid token", token: validToken, secret: secret, wantErr: false},
		{name: "expired token", token: expiredToken, secret: secret, wantErr: true},
		{name: "wrong secret", token: validToken, secret: "wrong-secret", wantErr: true},
		{name: "unsigned token", token: noneToken, secret: secret, wantErr: true},
		{name: "missing user id", token: emptySubject, secret: secret, wantErr: true},
		{name: "invalid token format", token: "invalid.token.format", secret: secret, wantErr: true},
		{name: "empty token", token: "", secret: secret, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr {
				if err == nil {
					t.Error("ValidateToken() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}

			if claims.UserID != userID {
				t.Errorf("ValidateToken() userID = %v, want %v", claims.UserID, userID)
			}
		})
	}
}

func TestTokenExpiration(t *testing.T) {
	secret := "expiration-test-secret"

	token, err := GenerateToken("expiration-test-user", time.Second, secret)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ValidateToken(token, secret); err != nil {
		t.Fatalf("ValidateToken() immediate validation error = %v", err)
	}

	time.Sleep(2 * time.Second)

	if _, err := ValidateToken(token, secret); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func BenchmarkValidateToken(b *testing.B) {
	secret := "benchmark-secret-key"
	token, _ := GenerateToken("benchmark-user", 15*time.Minute, secret)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := ValidateToken(token, secret); err != nil {
			b.Fatalf("ValidateToken() error = %v", err)
		}
	}
}
