package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret []byte, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerifySuccess(t *testing.T) {
	secret := []byte("secret-key")
	v := NewJWTVerifier(secret)

	token := signHS256(t, secret, &Claims{UserID: "user-1", Role: "teacher"})
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("expected valid token, got error %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "teacher" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestVerifyMissing(t *testing.T) {
	v := NewJWTVerifier([]byte("secret"))
	if _, err := v.Verify(""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewJWTVerifier([]byte("secret-a"))
	token := signHS256(t, []byte("other-secret"), &Claims{UserID: "u", Role: "student"})

	if _, err := v.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyUnexpectedMethod(t *testing.T) {
	v := NewJWTVerifier([]byte("secret-a"))

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{UserID: "u"}).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	secret := []byte("secret-b")
	v := NewJWTVerifier(secret)

	token := signHS256(t, secret, &Claims{
		UserID: "u",
		Role:   "teacher",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	if _, err := v.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMissingUserID(t *testing.T) {
	secret := []byte("secret-c")
	v := NewJWTVerifier(secret)

	token := signHS256(t, secret, &Claims{Role: "teacher"})
	if _, err := v.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty user id, got %v", err)
	}
}

func TestExtractBearer(t *testing.T) {
	const token = "abc123"
	value, err := ExtractBearer("Bearer " + token)
	if err != nil || value != token {
		t.Fatalf("unexpected result %q err=%v", value, err)
	}

	for _, header := range []string{"", "Token " + token, "Bearer"} {
		if _, err := ExtractBearer(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
