package utils // package utils provides helpers for token issuing and validation

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/volunteerhub/server/internal/model"
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string.  Access tokens are
// short-lived and carried in the Authorization header of protected calls;
// no server-side session state exists, so every call revalidates the token.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

var (
    // ErrTokenInvalid covers signature failures, wrong signing algorithms
    // and structurally broken tokens (missing sub or role claims).
    ErrTokenInvalid = errors.New("invalid token")
    // ErrTokenExpired is returned when the token's expiry is at or before
    // the validation instant.
    ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the identity extracted from a validated access token.
type TokenClaims struct {
    UserID uint64
    Role   model.Role
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's role, and a TTL in minutes.  The
// JWT carries the standard claims: subject (sub), role, expiration (exp)
// and issued at (iat).
func NewAccessToken(secret string, userID uint64, role model.Role, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role.String(),
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature of a raw access token and checks
// its claims against the given instant.  It rejects tokens signed with
// anything but HMAC, tokens missing the sub or role claims, tokens whose
// role falls outside the closed role set, and tokens whose expiry is at or
// before now.  Claim validation is done here rather than by the jwt
// library so that the expiry boundary is exact and testable against an
// injected clock.
func ParseAccessToken(secret, raw string, now time.Time) (TokenClaims, error) {
    tok, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    }, jwt.WithoutClaimsValidation())
    if err != nil || !tok.Valid {
        return TokenClaims{}, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrTokenInvalid
    }

    var userID uint64
    switch sub := claims["sub"].(type) {
    case float64:
        // JSON numbers decode as float64.
        userID = uint64(sub)
    case string:
        n, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return TokenClaims{}, ErrTokenInvalid
        }
        userID = n
    default:
        return TokenClaims{}, ErrTokenInvalid
    }
    if userID == 0 {
        return TokenClaims{}, ErrTokenInvalid
    }

    roleStr, ok := claims["role"].(string)
    if !ok {
        return TokenClaims{}, ErrTokenInvalid
    }
    role, err := model.ParseRole(roleStr)
    if err != nil {
        return TokenClaims{}, ErrTokenInvalid
    }

    expVal, ok := claims["exp"].(float64)
    if !ok {
        return TokenClaims{}, ErrTokenInvalid
    }
    if !now.UTC().Before(time.Unix(int64(expVal), 0)) {
        return TokenClaims{}, ErrTokenExpired
    }

    return TokenClaims{UserID: userID, Role: role}, nil
}
