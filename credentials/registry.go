// Package credentials provides in-process implementations of the key registry
// and the signature verifiers used for email and identity token keys.
package credentials

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/auth"
)

// Config for the credential registry.
type Config struct {
	// CacheSize is the number of parsed public keys kept in memory.
	CacheSize int `mapstructure:"cache-size"`
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{CacheSize: 256}
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("cache-size", c.CacheSize)
	return nil
}

type keyID struct {
	namespace string
	id        string
}

// Opt for configuring Registry.
type Opt func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(r *Registry) {
		r.logger = logger
	}
}

// Registry stores DKIM keys per (domain, selector), identity provider keys per
// (issuer, key id) and the audiences accepted for every issuer.
type Registry struct {
	logger *zap.Logger
	keys   *KeyCache

	mu        sync.RWMutex
	dkim      map[keyID]auth.KeyMaterial
	openid    map[keyID]auth.KeyMaterial
	audiences map[keyID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config, opts ...Opt) (*Registry, error) {
	keys, err := NewKeyCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		logger:    zap.NewNop(),
		keys:      keys,
		dkim:      make(map[keyID]auth.KeyMaterial),
		openid:    make(map[keyID]auth.KeyMaterial),
		audiences: make(map[keyID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RegisterDKIMKey registers a DER encoded RSA key for the domain and selector.
// A zero expiry registers a key that does not expire.
func (r *Registry) RegisterDKIMKey(domain, selector string, publicKey []byte, expiry time.Time) error {
	if _, err := r.keys.Parse(publicKey); err != nil {
		return fmt.Errorf("dkim key %s/%s: %w", domain, selector, err)
	}
	r.mu.Lock()
	r.dkim[keyID{domain, selector}] = auth.KeyMaterial{PublicKey: publicKey, Expiry: expiry}
	registeredKeys.WithLabelValues("dkim").Set(float64(len(r.dkim)))
	r.mu.Unlock()
	r.logger.Debug("registered dkim key",
		zap.String("domain", domain),
		zap.String("selector", selector),
		zap.Time("expiry", expiry),
	)
	return nil
}

// RevokeDKIMKey removes the key for the domain and selector.
func (r *Registry) RevokeDKIMKey(domain, selector string) {
	r.mu.Lock()
	delete(r.dkim, keyID{domain, selector})
	registeredKeys.WithLabelValues("dkim").Set(float64(len(r.dkim)))
	r.mu.Unlock()
}

// RegisterOpenIDKey registers a DER encoded RSA key for the issuer and key id.
func (r *Registry) RegisterOpenIDKey(issuer, kid string, publicKey []byte, expiry time.Time) error {
	if _, err := r.keys.Parse(publicKey); err != nil {
		return fmt.Errorf("openid key %s/%s: %w", issuer, kid, err)
	}
	r.mu.Lock()
	r.openid[keyID{issuer, kid}] = auth.KeyMaterial{PublicKey: publicKey, Expiry: expiry}
	registeredKeys.WithLabelValues("openid").Set(float64(len(r.openid)))
	r.mu.Unlock()
	r.logger.Debug("registered openid key", zap.String("issuer", issuer), zap.String("kid", kid))
	return nil
}

// AllowAudience accepts tokens from the issuer for the audience.
func (r *Registry) AllowAudience(issuer, audience string) {
	r.mu.Lock()
	r.audiences[keyID{issuer, audience}] = struct{}{}
	r.mu.Unlock()
}

// DKIMKey implements auth.KeyRegistry.
func (r *Registry) DKIMKey(_ context.Context, domain, selector string) (auth.KeyMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.dkim[keyID{domain, selector}]
	if !ok {
		return auth.KeyMaterial{}, fmt.Errorf("%w: dkim %s/%s", auth.ErrKeyNotRegistered, domain, selector)
	}
	return key, nil
}

// OpenIDKey implements auth.KeyRegistry.
func (r *Registry) OpenIDKey(_ context.Context, issuer, kid string) (auth.KeyMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.openid[keyID{issuer, kid}]
	if !ok {
		return auth.KeyMaterial{}, fmt.Errorf("%w: openid %s/%s", auth.ErrKeyNotRegistered, issuer, kid)
	}
	return key, nil
}

// IsAudienceAllowed implements auth.KeyRegistry.
func (r *Registry) IsAudienceAllowed(_ context.Context, issuer, audience string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.audiences[keyID{issuer, audience}]
	return ok, nil
}

// DKIMVerifier returns a verifier that shares the parsed key cache.
func (r *Registry) DKIMVerifier() *DKIMVerifier {
	return &DKIMVerifier{keys: r.keys}
}

// TokenVerifier returns a verifier that shares the parsed key cache.
func (r *Registry) TokenVerifier() *RS256Verifier {
	return &RS256Verifier{keys: r.keys}
}

// VerifierOpts returns the auth options that wire the registry and its verifiers.
func (r *Registry) VerifierOpts() []auth.Opt {
	return []auth.Opt{
		auth.WithKeyRegistry(r),
		auth.WithEmailVerifier(r.DKIMVerifier()),
		auth.WithTokenVerifier(r.TokenVerifier()),
	}
}
