package auth

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/policy"
)

// SessionProof delegates AssetsOp weight to a session key until Expiry.
// Permit is a bundle, without the envelope tag, that signs the permit digest.
type SessionProof struct {
	Expiry    uint64
	Session   types.Address
	WeightCap uint32
	Permit    []byte
	Signature []byte
}

// DecodeSessionProof decodes the session envelope without the tag.
func DecodeSessionProof(buf []byte) (*SessionProof, error) {
	r := &reader{buf: buf}
	proof := &SessionProof{
		Expiry:    r.u64(),
		Session:   r.address(),
		WeightCap: r.u32(),
		Permit:    r.sized(),
		Signature: r.sized(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("session proof: %w", r.err)
	}
	if !r.empty() {
		return nil, fmt.Errorf("%w: session proof has %d trailing bytes", ErrMalformedProof, len(buf)-r.off)
	}
	if len(proof.Signature) != SignatureLength {
		return nil, fmt.Errorf("%w: session signature %d", ErrInvalidSignatureLength, len(proof.Signature))
	}
	return proof, nil
}

// Encode returns the session envelope including the tag.
func (p *SessionProof) Encode() []byte {
	buf := []byte{EnvelopeSession}
	buf = binary.BigEndian.AppendUint64(buf, p.Expiry)
	buf = append(buf, p.Session.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, p.WeightCap)
	buf = appendSized(buf, p.Permit)
	return appendSized(buf, p.Signature)
}

// PermitDigest is keccak256(chainID ‖ account ‖ session ‖ expiry ‖ weightCap).
func PermitDigest(dom Domain, session types.Address, expiry uint64, weightCap uint32) types.Hash32 {
	chain := uint256.NewInt(dom.ChainID).Bytes32()
	buf := make([]byte, 0, 32+2*types.AddressLength+8+4)
	buf = append(buf, chain[:]...)
	buf = append(buf, dom.Account.Bytes()...)
	buf = append(buf, session.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, expiry)
	buf = binary.BigEndian.AppendUint32(buf, weightCap)
	return hash.Sum(buf)
}

func (v *Verifier) verifySession(
	ctx context.Context,
	dom Domain,
	digest types.Hash32,
	buf []byte,
	keysetHash types.Hash32,
) (keyset.RoleWeight, error) {
	proof, err := DecodeSessionProof(buf)
	if err != nil {
		return keyset.RoleWeight{}, err
	}
	permit, err := DecodeBundle(proof.Permit)
	if err != nil {
		return keyset.RoleWeight{}, fmt.Errorf("session permit: %w", err)
	}
	if now := uint64(v.clock.Now().Unix()); now >= proof.Expiry {
		return keyset.RoleWeight{}, fmt.Errorf("%w: expiry %d, now %d", ErrSessionKeyExpired, proof.Expiry, now)
	}
	permitDigest := PermitDigest(dom, proof.Session, proof.Expiry, proof.WeightCap)
	weight, err := v.verifyEntries(ctx, permitDigest, permit, keysetHash)
	if err != nil {
		return keyset.RoleWeight{}, fmt.Errorf("session permit: %w", err)
	}
	required := policy.Requirement{Role: policy.Owner, Threshold: v.thresholds.Owner}
	if !weight.Meets(required) {
		return keyset.RoleWeight{}, fmt.Errorf("%w: session permit has owner weight %d, need %d",
			ErrInsufficientWeight, weight.Owner, required.Threshold)
	}
	if err := verifyNative(digest, proof.Session, proof.Signature); err != nil {
		return keyset.RoleWeight{}, fmt.Errorf("session signature: %w", err)
	}
	return keyset.RoleWeight{AssetsOp: min(proof.WeightCap, v.sessionCeiling)}, nil
}
