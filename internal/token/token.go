// Package token validates the time-limited check-in tokens presented at the front desk.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"example.com/attendance/internal/clock"
)

var (
	// ErrInvalidFormat is returned when a payload is unparseable or misses required fields.
	ErrInvalidFormat = errors.New("invalid check-in token format")
	// ErrExpired is returned when the token is presented after its expiry.
	ErrExpired = errors.New("check-in token expired")
	// ErrInvalidSignature wraps signature and signing-method failures of signed tokens.
	ErrInvalidSignature = errors.New("invalid check-in token signature")
)

// Human-readable reasons surfaced to the front desk.
const (
	ReasonInvalidFormat    = "Invalid QR code format"
	ReasonExpired          = "QR code has expired"
	ReasonInvalidSignature = "Invalid QR code signature"
)

// CheckInToken is a decoded, not yet validated check-in claim.
type CheckInToken struct {
	Email          string    `json:"email" validate:"required"`
	MembershipType string    `json:"membershipType" validate:"required"`
	CheckInID      string    `json:"checkInId" validate:"required"`
	IssuedAt       time.Time `json:"timestamp" validate:"required"`
	ExpiresAt      time.Time `json:"expiresAt" validate:"required"`
}

// Result is the outcome of a validation. Payload is set iff Valid; Reason and Err iff not.
type Result struct {
	Valid   bool          `json:"isValid"`
	Payload *CheckInToken `json:"userData,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Err     error         `json:"-"`
}

func invalid(reason string, err error) Result {
	return Result{Reason: reason, Err: err}
}

// Decode parses the JSON wire payload. Structural completeness is checked by Validate.
func Decode(data []byte) (CheckInToken, error) {
	var tok CheckInToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return CheckInToken{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return tok, nil
}

// Option configures a Validator.
type Option func(*Validator)

// WithSecret sets the HMAC secret used to verify signed tokens.
func WithSecret(secret string) Option {
	return func(v *Validator) {
		v.secret = []byte(secret)
	}
}

// Validator applies the check-in token rules against a Clock.
type Validator struct {
	clock    clock.Clock
	secret   []byte
	validate *validator.Validate
}

// NewValidator constructs a Validator.
func NewValidator(clk clock.Clock, opts ...Option) *Validator {
	v := &Validator{
		clock:    clk,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks structure first, then expiry. A token expiring exactly now is still valid.
func (v *Validator) Validate(tok CheckInToken) Result {
	if err := v.validate.Struct(tok); err != nil {
		return invalid(ReasonInvalidFormat, fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	if v.clock.Now().After(tok.ExpiresAt) {
		return invalid(ReasonExpired, ErrExpired)
	}
	payload := tok
	return Result{Valid: true, Payload: &payload}
}

// ValidatePayload decodes a raw JSON payload and validates it.
func (v *Validator) ValidatePayload(data []byte) Result {
	tok, err := Decode(data)
	if err != nil {
		return invalid(ReasonInvalidFormat, err)
	}
	return v.Validate(tok)
}

// ValidateSigned verifies a signed compact token before applying the token rules.
func (v *Validator) ValidateSigned(raw string) Result {
	tok, err := ParseSigned(raw, v.secret)
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return invalid(ReasonInvalidFormat, err)
		}
		return invalid(ReasonInvalidSignature, err)
	}
	return v.Validate(tok)
}
