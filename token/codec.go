// Package token implements the signed-token codec: issuance and verification
// of self-contained HS256 JWTs carrying a principal's identity snapshot.
//
// Verification failures are reported through three sentinel errors —
// ErrMalformed, ErrSignatureInvalid, ErrExpired — so callers can classify a
// rejection without inspecting library internals. The signature is always
// verified before claim validation; a tampered token is reported as
// ErrSignatureInvalid, never as an expiry or claims error.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Verification failure classes.
var (
	// ErrMalformed indicates the token string could not be split or decoded.
	ErrMalformed = errors.New("token: malformed")

	// ErrSignatureInvalid indicates the recomputed signature did not match.
	ErrSignatureInvalid = errors.New("token: signature invalid")

	// ErrExpired indicates the token is past its expiry.
	ErrExpired = errors.New("token: expired")
)

// Claims is the payload embedded in issued tokens. Subject carries the
// principal's unique key; UID and Roles are a snapshot taken at issuance
// and may go stale if the principal changes before expiry.
type Claims struct {
	gojwt.RegisteredClaims
	UID   string   `json:"uid"`
	Roles []string `json:"roles"`
}

// Codec issues and verifies signed tokens. It is safe for concurrent use;
// all methods are pure functions over the input and the configured secret.
type Codec struct {
	cfg Config
}

// NewCodec creates a token codec. Config validation errors are fatal
// misconfigurations and should abort startup.
func NewCodec(cfg *Config) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: *cfg}, nil
}

// Issue creates a signed token asserting the given identity for ttl.
func (c *Codec) Issue(subject, uid string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		UID:   uid,
		Roles: roles,
	}
	t := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// IssueAccess creates a signed access token using the configured access TTL.
func (c *Codec) IssueAccess(subject, uid string, roles []string) (string, error) {
	return c.Issue(subject, uid, roles, c.cfg.AccessTokenTTL)
}

// IssueRefresh creates a signed refresh token using the configured refresh TTL.
func (c *Codec) IssueRefresh(subject, uid string, roles []string) (string, error) {
	return c.Issue(subject, uid, roles, c.cfg.RefreshTokenTTL)
}

// AccessTokenTTL returns the configured access token lifetime.
func (c *Codec) AccessTokenTTL() time.Duration {
	return c.cfg.AccessTokenTTL
}

// ParseAndVerify verifies a token string and returns its claims.
// The returned error wraps exactly one of ErrMalformed, ErrSignatureInvalid
// or ErrExpired.
func (c *Codec) ParseAndVerify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := gojwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !t.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// keyFunc rejects any signing method other than the one tokens are issued
// with before handing out the verification key.
func (c *Codec) keyFunc(t *gojwt.Token) (interface{}, error) {
	if t.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %s", ErrSignatureInvalid, t.Method.Alg())
	}
	return []byte(c.cfg.Secret), nil
}

// classify maps library parse errors onto the codec's failure classes.
// Signature failures take precedence over claim validation failures.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		return err
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}

// FailureClass returns a short label for a verification failure, used for
// low-severity diagnostics. Unknown errors report as "malformed".
func FailureClass(err error) string {
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "malformed"
	}
}
