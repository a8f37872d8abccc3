// Package claims decodes the structured claims embedded in a Meridian
// bearer credential without contacting the network.
//
// Decoded claims are advisory: the backend is the source of truth for
// authorization, and the client uses the role claim only for UI gating.
// Signature verification is deliberately not performed here; a credential
// that fails to decode may still be sent to the backend for server-side
// validation.
package claims

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// Claims is the structured record embedded in a credential's payload
// segment.
type Claims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
	Role      string `json:"role,omitempty"`
	UserID    int64  `json:"uid,omitempty"`
}

// Expired reports whether the credential's expiry is at or before now.
// A zero ExpiresAt is treated as expired: a credential without an expiry
// claim is not usable for a network-free session restore.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// DecodeError indicates a credential that could not be decoded.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode credential claims: %s", e.cause.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// signatureAlgorithms lists the algorithms the backend is known to issue
// tokens with. Parsing rejects anything else.
var signatureAlgorithms = []jose.SignatureAlgorithm{
	jose.HS256, jose.HS384, jose.HS512,
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.EdDSA,
}

// Decode parses the three-segment credential and returns its claims.
// The signature is not verified. Malformed input returns a *DecodeError;
// callers must treat that as "no usable claims", not a fatal condition.
func Decode(raw string) (*Claims, error) {
	token, err := jwt.ParseSigned(raw, signatureAlgorithms)
	if err != nil {
		return nil, &DecodeError{cause: err}
	}

	var c Claims
	if err := token.UnsafeClaimsWithoutVerification(&c); err != nil {
		return nil, &DecodeError{cause: err}
	}
	return &c, nil
}
