package credentials

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spacemeshos/go-smartaccount/hash"
)

// ErrNotRSAKey is returned for public keys of other algorithms.
var ErrNotRSAKey = errors.New("not an rsa public key")

// KeyCache parses DER encoded RSA public keys and keeps recent results.
type KeyCache struct {
	cache *lru.Cache[[32]byte, *rsa.PublicKey]
}

// NewKeyCache creates a cache for size keys.
func NewKeyCache(size int) (*KeyCache, error) {
	cache, err := lru.New[[32]byte, *rsa.PublicKey](size)
	if err != nil {
		return nil, fmt.Errorf("create key cache: %w", err)
	}
	return &KeyCache{cache: cache}, nil
}

// Parse accepts PKIX and PKCS#1 encodings.
func (c *KeyCache) Parse(der []byte) (*rsa.PublicKey, error) {
	id := hash.Sum256(der)
	if key, ok := c.cache.Get(id); ok {
		return key, nil
	}
	key, err := parseRSA(der)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, key)
	return key, nil
}

func parseRSA(der []byte) (*rsa.PublicKey, error) {
	if key, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotRSAKey, parsed)
	}
	return key, nil
}

// DKIMVerifier checks rsa-sha256 DKIM signatures over a canonicalized header.
type DKIMVerifier struct {
	keys *KeyCache
}

// VerifyDKIM implements auth.EmailVerifier.
func (v *DKIMVerifier) VerifyDKIM(publicKey, header, signature []byte) error {
	key, err := v.keys.Parse(publicKey)
	if err != nil {
		return err
	}
	digest := hash.Sum256(header)
	return rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature)
}

// RS256Verifier checks RS256 identity tokens.
type RS256Verifier struct {
	keys *KeyCache
}

// VerifyToken implements auth.TokenVerifier.
func (v *RS256Verifier) VerifyToken(publicKey []byte, signingInput, signature string) error {
	key, err := v.keys.Parse(publicKey)
	if err != nil {
		return err
	}
	return jwt.SigningMethodRS256.Verify(signingInput, signature, key)
}
