package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce,omitempty"`
}

// IdentityToken holds the fields of a compact identity token needed for
// verification. The signature is not checked by ParseIdentityToken.
type IdentityToken struct {
	KeyID        string
	Issuer       string
	Subject      string
	Audience     []string
	Nonce        string
	ExpiresAt    time.Time
	SigningInput string
	Signature    string
}

// ParseIdentityToken parses a compact RS256 token without verifying it.
func ParseIdentityToken(raw string) (*IdentityToken, error) {
	claims := &tokenClaims{}
	token, parts, err := jwt.NewParser().ParseUnverified(raw, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: identity token: %w", ErrMalformedProof, err)
	}
	if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return nil, fmt.Errorf("%w: identity token alg %s", ErrUnsupportedCredentialType, token.Method.Alg())
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" || claims.Issuer == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: identity token without kid, iss or sub", ErrMalformedProof)
	}
	rst := &IdentityToken{
		KeyID:        kid,
		Issuer:       claims.Issuer,
		Subject:      claims.Subject,
		Audience:     claims.Audience,
		Nonce:        claims.Nonce,
		SigningInput: strings.Join(parts[:2], "."),
		Signature:    parts[2],
	}
	if claims.ExpiresAt != nil {
		rst.ExpiresAt = claims.ExpiresAt.Time
	}
	return rst, nil
}

// Binding is the key id bound to the issuer and subject.
func (t *IdentityToken) Binding() types.Hash32 {
	return keyset.IdentityBinding(t.Issuer, t.Subject)
}

func (v *Verifier) verifyToken(ctx context.Context, digest types.Hash32, token *IdentityToken) error {
	if v.tokens == nil || v.registry == nil {
		return fmt.Errorf("%w: identity token", ErrCredentialVerifierNotLoaded)
	}
	if !strings.EqualFold(token.Nonce, DigestSubject(digest)) {
		return fmt.Errorf("%w: token nonce does not match digest", ErrInvalidCredential)
	}
	if token.ExpiresAt.IsZero() || !v.clock.Now().Before(token.ExpiresAt) {
		return fmt.Errorf("%w: token expired at %s", ErrInvalidCredential, token.ExpiresAt)
	}
	if len(token.Audience) == 0 {
		return fmt.Errorf("%w: token without audience", ErrInvalidCredential)
	}
	for _, aud := range token.Audience {
		allowed, err := v.registry.IsAudienceAllowed(ctx, token.Issuer, aud)
		if err != nil {
			return fmt.Errorf("audience %s for %s: %w", aud, token.Issuer, err)
		}
		if !allowed {
			return fmt.Errorf("%w: audience %s not allowed for %s", ErrInvalidCredential, aud, token.Issuer)
		}
	}
	key, err := v.registry.OpenIDKey(ctx, token.Issuer, token.KeyID)
	if err != nil {
		return fmt.Errorf("openid key %s/%s: %w", token.Issuer, token.KeyID, err)
	}
	if key.Expired(v.clock.Now()) {
		return fmt.Errorf("%w: openid key %s/%s", ErrKeyExpired, token.Issuer, token.KeyID)
	}
	if err := v.tokens.VerifyToken(key.PublicKey, token.SigningInput, token.Signature); err != nil {
		return fmt.Errorf("%w: token signature: %w", ErrInvalidCredential, err)
	}
	return nil
}
