// Package auth verifies proofs against a keyset commitment and accumulates the
// weight of every role that signed.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/policy"
)

// Domain binds session permits to a chain and an account.
type Domain struct {
	ChainID uint64
	Account types.Address
}

// Opt for configuring Verifier.
type Opt func(*Verifier)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithClock sets the clock used for session and credential expiry.
func WithClock(clock clockwork.Clock) Opt {
	return func(v *Verifier) {
		v.clock = clock
	}
}

// WithContractCaller enables contract signers.
func WithContractCaller(caller ContractCaller) Opt {
	return func(v *Verifier) {
		v.caller = caller
	}
}

// WithKeyRegistry sets the registry of email and identity token keys.
func WithKeyRegistry(registry KeyRegistry) Opt {
	return func(v *Verifier) {
		v.registry = registry
	}
}

// WithEmailVerifier enables email credentials.
func WithEmailVerifier(emails EmailVerifier) Opt {
	return func(v *Verifier) {
		v.emails = emails
	}
}

// WithTokenVerifier enables identity token credentials.
func WithTokenVerifier(tokens TokenVerifier) Opt {
	return func(v *Verifier) {
		v.tokens = tokens
	}
}

// WithThresholds sets the thresholds used for session permits.
func WithThresholds(thresholds policy.Thresholds) Opt {
	return func(v *Verifier) {
		v.thresholds = thresholds
	}
}

// WithSessionWeightCeiling caps the AssetsOp weight of any session key.
func WithSessionWeightCeiling(ceiling uint32) Opt {
	return func(v *Verifier) {
		v.sessionCeiling = ceiling
	}
}

// Verifier dispatches bundle entries to the verifier of their key kind.
type Verifier struct {
	logger         *zap.Logger
	clock          clockwork.Clock
	caller         ContractCaller
	registry       KeyRegistry
	emails         EmailVerifier
	tokens         TokenVerifier
	thresholds     policy.Thresholds
	sessionCeiling uint32
}

// NewVerifier creates a Verifier. Native keys are always supported, other kinds
// require their collaborators.
func NewVerifier(opts ...Opt) *Verifier {
	v := &Verifier{
		logger:         zap.NewNop(),
		clock:          clockwork.NewRealClock(),
		thresholds:     policy.DefaultThresholds(),
		sessionCeiling: policy.MaxWeight,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the proof for digest and returns the accumulated weight.
// The keys presented in the proof must fold into keysetHash.
func (v *Verifier) Verify(
	ctx context.Context,
	dom Domain,
	digest types.Hash32,
	proof []byte,
	keysetHash types.Hash32,
) (keyset.RoleWeight, error) {
	if len(proof) == 0 {
		return keyset.RoleWeight{}, fmt.Errorf("%w: empty proof", ErrMalformedProof)
	}
	var (
		weight keyset.RoleWeight
		err    error
		kind   = "bundle"
	)
	switch proof[0] {
	case EnvelopeBundle:
		var entries []Entry
		entries, err = DecodeBundle(proof[1:])
		if err == nil {
			weight, err = v.verifyEntries(ctx, digest, entries, keysetHash)
		}
	case EnvelopeSession:
		kind = "session"
		weight, err = v.verifySession(ctx, dom, digest, proof[1:], keysetHash)
	default:
		kind = "unknown"
		err = fmt.Errorf("%w: envelope %d", ErrUnsupportedCredentialType, proof[0])
	}
	if err != nil {
		envelopeVerifications.WithLabelValues(kind, errorLabel(err)).Inc()
		v.logger.Debug("proof rejected",
			log.ZHash32("digest", digest),
			zap.String("envelope", kind),
			zap.Error(err),
		)
		return keyset.RoleWeight{}, err
	}
	envelopeVerifications.WithLabelValues(kind, "ok").Inc()
	return weight, nil
}

// Authorize verifies the proof and checks that at least one requirement is met.
func (v *Verifier) Authorize(
	ctx context.Context,
	dom Domain,
	digest types.Hash32,
	proof []byte,
	keysetHash types.Hash32,
	reqs ...policy.Requirement,
) (keyset.RoleWeight, error) {
	weight, err := v.Verify(ctx, dom, digest, proof, keysetHash)
	if err != nil {
		return keyset.RoleWeight{}, err
	}
	if !weight.MeetsAny(reqs...) {
		return weight, fmt.Errorf("%w: need any of %v", ErrInsufficientWeight, reqs)
	}
	return weight, nil
}

func (v *Verifier) verifyEntries(
	ctx context.Context,
	digest types.Hash32,
	entries []Entry,
	keysetHash types.Hash32,
) (keyset.RoleWeight, error) {
	var (
		folder keyset.Folder
		total  keyset.RoleWeight
	)
	for i := range entries {
		entry := &entries[i]
		folder.Append(entry.Key)
		if !entry.Signed {
			continue
		}
		if err := v.verifyEntry(ctx, digest, entry); err != nil {
			credentialVerifications.WithLabelValues(entry.Key.Kind.String(), "invalid").Inc()
			return keyset.RoleWeight{}, fmt.Errorf("entry %d (%s): %w", i, entry.Key.Kind, err)
		}
		credentialVerifications.WithLabelValues(entry.Key.Kind.String(), "ok").Inc()
		total = total.Add(entry.Key.Weight)
	}
	if got := folder.Sum(); got != keysetHash {
		return keyset.RoleWeight{}, fmt.Errorf("%w: folded %s, stored %s",
			keyset.ErrKeysetMismatch, got.Hex(), keysetHash.Hex())
	}
	return total, nil
}

func (v *Verifier) verifyEntry(ctx context.Context, digest types.Hash32, entry *Entry) error {
	switch entry.Key.Kind {
	case keyset.KindNative:
		return verifyNative(digest, entry.Key.Address, entry.Signature)
	case keyset.KindContract:
		return v.verifyContract(ctx, digest, entry.Key.Address, entry.Signature)
	case keyset.KindEmail:
		return v.verifyEmail(ctx, digest, entry.Email)
	case keyset.KindIdentityToken:
		return v.verifyToken(ctx, digest, entry.Token)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCredentialType, entry.Key.Kind)
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, keyset.ErrKeysetMismatch):
		return "keyset_mismatch"
	case errors.Is(err, ErrSessionKeyExpired):
		return "session_expired"
	case errors.Is(err, ErrInsufficientWeight):
		return "insufficient_weight"
	case errors.Is(err, ErrMalformedProof),
		errors.Is(err, ErrInvalidSignatureLength),
		errors.Is(err, ErrInvalidSValue),
		errors.Is(err, ErrInvalidVValue),
		errors.Is(err, ErrUnsupportedCredentialType):
		return "malformed"
	default:
		return "invalid"
	}
}
