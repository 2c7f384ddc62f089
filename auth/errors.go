package auth

import "errors"

// Malformed proofs. These are detected while decoding and before any lookup.
var (
	ErrMalformedProof              = errors.New("malformed proof")
	ErrInvalidSignatureLength      = errors.New("invalid signature length")
	ErrInvalidSValue               = errors.New("invalid s value")
	ErrInvalidVValue               = errors.New("invalid v value")
	ErrUnsupportedCredentialType   = errors.New("unsupported credential type")
	ErrCredentialVerifierNotLoaded = errors.New("credential verifier not configured")
)

// Policy violations.
var (
	ErrInsufficientWeight = errors.New("insufficient weight")
	ErrSignerIsAddress0   = errors.New("signer is address 0")
	ErrSignerMismatch     = errors.New("signer mismatch")
	ErrSessionKeyExpired  = errors.New("session key expired")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrKeyNotRegistered   = errors.New("key not registered")
	ErrKeyExpired         = errors.New("key expired")
)
