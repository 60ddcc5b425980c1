package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/volunteerhub/server/internal/model"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken(testSecret, 42, model.RoleMinistry, 30)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(testSecret, access.Token, time.Now().UTC())
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleMinistry {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleMinistry)
	}
}

func TestAccessTokenExpiryBoundary(t *testing.T) {
	access, err := NewAccessToken(testSecret, 7, model.RoleIndividual, 30)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	// One second before expiry the token is still good.
	if _, err := ParseAccessToken(testSecret, access.Token, access.Exp.Add(-time.Second)); err != nil {
		t.Errorf("token rejected one second before expiry: %v", err)
	}
	// At the expiry instant it is already dead.
	if _, err := ParseAccessToken(testSecret, access.Token, access.Exp); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("token at expiry: got %v, want ErrTokenExpired", err)
	}
	if _, err := ParseAccessToken(testSecret, access.Token, access.Exp.Add(time.Hour)); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("token after expiry: got %v, want ErrTokenExpired", err)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken(testSecret, 7, model.RoleCompany, 30)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("other-secret", access.Token, time.Now().UTC()); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret: got %v, want ErrTokenInvalid", err)
	}
}

func TestParseAccessTokenTampered(t *testing.T) {
	access, err := NewAccessToken(testSecret, 7, model.RoleIndividual, 30)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tampered := access.Token[:len(access.Token)-2] + "xx"
	if _, err := ParseAccessToken(testSecret, tampered, time.Now().UTC()); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("tampered token: got %v, want ErrTokenInvalid", err)
	}
	if _, err := ParseAccessToken(testSecret, "garbage", time.Now().UTC()); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage token: got %v, want ErrTokenInvalid", err)
	}
}

// signRaw builds a token straight from the given claims so the tests can
// produce structurally broken tokens that NewAccessToken never emits.
func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestParseAccessTokenStructuralFailures(t *testing.T) {
	now := time.Now().UTC()
	exp := now.Add(time.Hour).Unix()

	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing sub", jwt.MapClaims{"role": "ministry", "exp": exp}},
		{"missing role", jwt.MapClaims{"sub": 1, "exp": exp}},
		{"missing exp", jwt.MapClaims{"sub": 1, "role": "ministry"}},
		{"zero sub", jwt.MapClaims{"sub": 0, "role": "ministry", "exp": exp}},
		{"unknown role", jwt.MapClaims{"sub": 1, "role": "superadmin", "exp": exp}},
		{"non-numeric sub", jwt.MapClaims{"sub": "abc", "role": "ministry", "exp": exp}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := signRaw(t, tc.claims)
			if _, err := ParseAccessToken(testSecret, raw, now); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("got %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestParseAccessTokenRejectsUnsignedAlg(t *testing.T) {
	claims := jwt.MapClaims{"sub": 1, "role": "ministry", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, raw, time.Now().UTC()); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("alg=none token: got %v, want ErrTokenInvalid", err)
	}
}

func TestParseAccessTokenStringSubject(t *testing.T) {
	// Some issuers encode the subject as a numeric string; accept it.
	raw := signRaw(t, jwt.MapClaims{"sub": "42", "role": "company", "exp": time.Now().Add(time.Hour).Unix()})
	claims, err := ParseAccessToken(testSecret, raw, time.Now().UTC())
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}
