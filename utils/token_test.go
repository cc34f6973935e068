package utils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
)

func TestGenerateClientToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateClientToken("64f000000000000000000001", "+212600000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("generated token does not verify: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	if claims["user_id"] != "64f000000000000000000001" {
		t.Fatalf("unexpected user_id claim: %v", claims["user_id"])
	}
	if claims["phone"] != "+212600000000" {
		t.Fatalf("unexpected phone claim: %v", claims["phone"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatal("missing exp claim")
	}
}

func TestGenerateClientTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateClientToken("id", "+212600000000"); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}
