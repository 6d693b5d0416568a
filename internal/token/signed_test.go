package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"example.com/attendance/internal/clock"
)

const testSecret = "front-desk-secret"

func TestSignedRoundTrip(t *testing.T) {
	tok := validToken()
	signed, err := NewSigner(testSecret).Sign(tok)
	require.NoError(t, err)

	v := NewValidator(clock.Fixed(testNow), WithSecret(testSecret))
	res := v.ValidateSigned(signed)

	require.True(t, res.Valid, res.Reason)
	require.Equal(t, tok.CheckInID, res.Payload.CheckInID)
	require.True(t, tok.ExpiresAt.Equal(res.Payload.ExpiresAt))
}

func TestSignedTokenKeepsExactExpiryBoundary(t *testing.T) {
	tok := validToken()
	tok.ExpiresAt = testNow
	signed, err := NewSigner(testSecret).Sign(tok)
	require.NoError(t, err)

	v := NewValidator(clock.Fixed(testNow), WithSecret(testSecret))
	require.True(t, v.ValidateSigned(signed).Valid)

	later := NewValidator(clock.Fixed(testNow.Add(time.Millisecond)), WithSecret(testSecret))
	res := later.ValidateSigned(signed)
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrExpired)
}

func TestSignedTokenWithWrongSecretIsRejected(t *testing.T) {
	signed, err := NewSigner("someone-else").Sign(validToken())
	require.NoError(t, err)

	res := NewValidator(clock.Fixed(testNow), WithSecret(testSecret)).ValidateSigned(signed)

	require.False(t, res.Valid)
	require.Equal(t, ReasonInvalidSignature, res.Reason)
	require.ErrorIs(t, res.Err, ErrInvalidSignature)
}

func TestSignedTokenTamperedPayloadIsRejected(t *testing.T) {
	signed, err := NewSigner(testSecret).Sign(validToken())
	require.NoError(t, err)

	other, err := NewSigner(testSecret).Sign(CheckInToken{
		Email:          "intruder@vikinghammer.test",
		MembershipType: "premium",
		CheckInID:      "chk-9",
		IssuedAt:       testNow,
		ExpiresAt:      testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	otherParts := strings.Split(other, ".")
	forged := strings.Join([]string{parts[0], otherParts[1], parts[2]}, ".")

	res := NewValidator(clock.Fixed(testNow), WithSecret(testSecret)).ValidateSigned(forged)
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrInvalidSignature)
}

func TestSignedTokenRejectsNoneAlgorithm(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email":          "loki@vikinghammer.test",
		"membershipType": "basic",
		"checkInId":      "chk-3",
		"timestamp":      testNow.Format(time.RFC3339),
		"expiresAt":      testNow.Add(time.Hour).Format(time.RFC3339),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	res := NewValidator(clock.Fixed(testNow), WithSecret(testSecret)).ValidateSigned(unsigned)
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrInvalidSignature)
}

func TestSignedGarbageIsFormatError(t *testing.T) {
	v := NewValidator(clock.Fixed(testNow), WithSecret(testSecret))

	for _, raw := range []string{"", "   ", "not.a.jwt", "abc"} {
		res := v.ValidateSigned(raw)
		require.False(t, res.Valid, raw)
		require.ErrorIs(t, res.Err, ErrInvalidFormat, raw)
	}
}

func TestSignedValidationWithoutSecret(t *testing.T) {
	signed, err := NewSigner(testSecret).Sign(validToken())
	require.NoError(t, err)

	res := NewValidator(clock.Fixed(testNow)).ValidateSigned(signed)
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrInvalidSignature)
	require.ErrorIs(t, res.Err, ErrMissingSecret)
}

func TestSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("").Sign(validToken())
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssuerMintsValidTokens(t *testing.T) {
	clk := clock.Fixed(testNow)
	issuer := NewIssuer(clk, NewSigner(testSecret), 0)

	tok, signed, err := issuer.Issue(" freydis@vikinghammer.test ", "premium")
	require.NoError(t, err)
	require.Equal(t, "freydis@vikinghammer.test", tok.Email)
	require.NotEmpty(t, tok.CheckInID)
	require.True(t, tok.IssuedAt.Equal(testNow))
	require.True(t, tok.ExpiresAt.Equal(testNow.Add(DefaultTTL)))

	res := NewValidator(clk, WithSecret(testSecret)).ValidateSigned(signed)
	require.True(t, res.Valid, res.Reason)
	require.Equal(t, tok.CheckInID, res.Payload.CheckInID)

	_, second, err := issuer.Issue("freydis@vikinghammer.test", "premium")
	require.NoError(t, err)
	require.NotEqual(t, signed, second)
}
