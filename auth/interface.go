package auth

import (
	"context"
	"time"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

//go:generate mockgen -package=mocks -destination=./mocks/mocks.go -source=./interface.go

// ContractCaller executes read-only calls against other contracts.
type ContractCaller interface {
	StaticCall(ctx context.Context, target types.Address, data []byte) ([]byte, error)
}

// KeyMaterial is a registered public key. Zero Expiry means the key does not expire.
type KeyMaterial struct {
	PublicKey []byte
	Expiry    time.Time
}

// Expired returns true if the key is not usable at now.
func (k KeyMaterial) Expired(now time.Time) bool {
	return !k.Expiry.IsZero() && !now.Before(k.Expiry)
}

// KeyRegistry resolves public keys for email and identity token credentials.
// Lookups for unknown keys return an error wrapping ErrKeyNotRegistered.
type KeyRegistry interface {
	DKIMKey(ctx context.Context, domain, selector string) (KeyMaterial, error)
	OpenIDKey(ctx context.Context, issuer, kid string) (KeyMaterial, error)
	IsAudienceAllowed(ctx context.Context, issuer, audience string) (bool, error)
}

// EmailVerifier checks the DKIM signature of a canonicalized header.
type EmailVerifier interface {
	VerifyDKIM(publicKey, header, signature []byte) error
}

// TokenVerifier checks the signature of a compact identity token.
// signingInput and signature are the raw base64url segments of the token.
type TokenVerifier interface {
	VerifyToken(publicKey []byte, signingInput, signature string) error
}
