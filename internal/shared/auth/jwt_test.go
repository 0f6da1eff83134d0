package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTValidatorValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	validator := NewJWTValidator(testSecret)
	validator.now = func() time.Time { return now }

	token := signToken(t, Claims{
		Roles: []string{" admin "},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := validator.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	identity := claims.Identity()
	if identity.UserID != "user_1" || !identity.IsAdmin() {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if claims.SessionID == "" {
		t.Fatal("expected derived session id")
	}
}

func TestJWTValidatorRejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	validator := NewJWTValidator(testSecret)
	validator.now = func() time.Time { return now }

	expired := signToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	}})
	noSubject := signToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}})

	cases := map[string]struct {
		token string
		want  error
	}{
		"empty":      {token: " ", want: ErrMissingToken},
		"garbage":    {token: "not-a-jwt", want: ErrInvalidToken},
		"expired":    {token: expired, want: ErrInvalidToken},
		"no subject": {token: noSubject, want: ErrInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := validator.Validate(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewJWTValidatorWithPublicKeyRequiresKey(t *testing.T) {
	if _, err := NewJWTValidatorWithPublicKey("", "", ""); err == nil {
		t.Fatal("expected configuration error")
	}
	if _, err := NewJWTValidatorWithPublicKey("", "not a pem", ""); err == nil {
		t.Fatal("expected pem parse error")
	}
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/admin/reservations?token=query-token", nil)
	if got := ExtractToken(req, ""); got != "query-token" {
		t.Fatalf("expected query token, got %q", got)
	}
	req.Header.Set("Authorization", "bearer header-token")
	if got := ExtractToken(req, ""); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}
	if got := ExtractBearerTokenFromHeader("Basic abc"); got != "" {
		t.Fatalf("expected empty token for basic auth, got %q", got)
	}
}

func TestIdentityRoles(t *testing.T) {
	if (Identity{Roles: []string{RoleAdmin}}).IsAdmin() {
		t.Fatal("anonymous identity must never be admin")
	}
	if !(Identity{UserID: "u", Roles: []string{"CUSTOMER"}}).Authenticated() {
		t.Fatal("identity with user id should be authenticated")
	}
}
