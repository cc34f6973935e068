package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"alloplombier-be/utils"
)

func testContext(t *testing.T, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c, w
}

func TestAuthClientValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateClientToken("64f000000000000000000001", "+212600000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, w := testContext(t, "Bearer "+token)
	AuthClient()(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got status %d", w.Code)
	}
	id, ok := GetIdentity(c)
	if !ok {
		t.Fatal("identity not set")
	}
	if id.Role != RoleClient {
		t.Fatalf("unexpected role: %v", id.Role)
	}
	if id.UID != "64f000000000000000000001" {
		t.Fatalf("unexpected UID: %v", id.UID)
	}
	if id.Phone != "+212600000000" {
		t.Fatalf("unexpected phone: %v", id.Phone)
	}
}

func TestAuthClientMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, w := testContext(t, "")
	AuthClient()(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Fatal("expected the chain to be aborted")
	}
}

func TestAuthClientBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, w := testContext(t, "Bearer not-a-jwt")
	AuthClient()(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthClientWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "right-secret")
	token, err := utils.GenerateClientToken("64f000000000000000000001", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("JWT_SECRET", "wrong-secret")
	c, w := testContext(t, "Bearer "+token)
	AuthClient()(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if _, ok := GetIdentity(c); ok {
		t.Fatal("identity must not be set on failure")
	}
}
