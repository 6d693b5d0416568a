package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"example.com/attendance/internal/clock"
)

// DefaultTTL is how long an issued check-in token stays valid.
const DefaultTTL = 5 * time.Minute

// ErrMissingSecret is returned when signing or verifying without a configured secret.
var ErrMissingSecret = errors.New("check-in token secret not configured")

// claims carries the wire payload inside an HS256 JWT.
type claims struct {
	Email          string    `json:"email"`
	MembershipType string    `json:"membershipType"`
	CheckInID      string    `json:"checkInId"`
	Issued         time.Time `json:"timestamp"`
	Expires        time.Time `json:"expiresAt"`
	jwt.RegisteredClaims
}

func (c claims) token() CheckInToken {
	return CheckInToken{
		Email:          c.Email,
		MembershipType: c.MembershipType,
		CheckInID:      c.CheckInID,
		IssuedAt:       c.Issued,
		ExpiresAt:      c.Expires,
	}
}

// ParseSigned verifies an HS256 compact token and returns its payload.
// Expiry is left to Validator so the boundary rule stays exact.
func ParseSigned(raw string, secret []byte) (CheckInToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CheckInToken{}, fmt.Errorf("%w: empty token", ErrInvalidFormat)
	}
	if len(secret) == 0 {
		return CheckInToken{}, fmt.Errorf("%w: %w", ErrInvalidSignature, ErrMissingSecret)
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return CheckInToken{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return CheckInToken{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return CheckInToken{}, ErrInvalidSignature
	}
	return c.token(), nil
}

// Signer produces HS256 compact tokens.
type Signer struct {
	secret []byte
}

// NewSigner constructs a Signer.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign encodes tok as a signed compact token.
func (s *Signer) Sign(tok CheckInToken) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	c := claims{
		Email:          tok.Email,
		MembershipType: tok.MembershipType,
		CheckInID:      tok.CheckInID,
		Issued:         tok.IssuedAt,
		Expires:        tok.ExpiresAt,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tok.CheckInID,
			Subject:   tok.Email,
			IssuedAt:  jwt.NewNumericDate(tok.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Issuer mints fresh check-in tokens for members.
type Issuer struct {
	clock  clock.Clock
	signer *Signer
	ttl    time.Duration
}

// NewIssuer constructs an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(clk clock.Clock, signer *Signer, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{clock: clk, signer: signer, ttl: ttl}
}

// Issue creates a token for the member and returns it with its signed encoding.
func (i *Issuer) Issue(email, membershipType string) (CheckInToken, string, error) {
	now := i.clock.Now()
	tok := CheckInToken{
		Email:          strings.TrimSpace(email),
		MembershipType: strings.TrimSpace(membershipType),
		CheckInID:      uuid.NewString(),
		IssuedAt:       now,
		ExpiresAt:      now.Add(i.ttl),
	}
	signed, err := i.signer.Sign(tok)
	if err != nil {
		return CheckInToken{}, "", err
	}
	return tok, signed, nil
}
