package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// VerificationCodeTTL is how long a delivery verification code stays valid
// after issuance.
const VerificationCodeTTL = 24 * time.Hour

// VerificationCode is the one-time proof-of-delivery secret. It is issued to
// a specific delivery identity when the order enters transit and must be
// presented unexpired, by that identity, to complete delivery.
type VerificationCode struct {
	value     string
	expiresAt time.Time
	issuedTo  kernel.UUID
}

// NewVerificationCode issues a random six-digit code scoped to the given
// delivery identity.
func NewVerificationCode(issuedTo kernel.UUID, now time.Time) (VerificationCode, error) {
	if err := issuedTo.Validate(); err != nil {
		return VerificationCode{}, err
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return VerificationCode{}, fmt.Errorf("generate verification code: %w", err)
	}

	return VerificationCode{
		value:     fmt.Sprintf("%06d", n.Int64()),
		expiresAt: now.Add(VerificationCodeTTL),
		issuedTo:  issuedTo,
	}, nil
}

// RestoreVerificationCode reconstructs a code from persistence.
func RestoreVerificationCode(value string, expiresAt time.Time, issuedTo kernel.UUID) VerificationCode {
	return VerificationCode{value: value, expiresAt: expiresAt, issuedTo: issuedTo}
}

// Value returns the code secret.
func (v VerificationCode) Value() string { return v.value }

// ExpiresAt returns when the code stops being accepted.
func (v VerificationCode) ExpiresAt() time.Time { return v.expiresAt }

// IssuedTo returns the delivery identity the code is scoped to.
func (v VerificationCode) IssuedTo() kernel.UUID { return v.issuedTo }

// Verify checks the supplied code against this one. All four conditions must
// hold: a code was supplied, it is unexpired, the presenting identity is the
// one it was issued to, and the values match. Each failure reports a distinct
// reason so the caller can re-prompt precisely.
func (v VerificationCode) Verify(supplied string, presentedBy kernel.UUID, now time.Time) error {
	if supplied == "" {
		return NewVerificationError("verification code is required")
	}
	if now.After(v.expiresAt) {
		return NewVerificationError("verification code has expired")
	}
	if !v.issuedTo.IsEqual(presentedBy) {
		return NewVerificationError("verification code was issued to a different delivery identity")
	}
	if v.value != supplied {
		return NewVerificationError("verification code does not match")
	}
	return nil
}
