package keyset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
	"github.com/spacemeshos/go-smartaccount/policy"
)

var (
	// ErrUnknownKind is returned for key kinds outside of the closed set.
	ErrUnknownKind = errors.New("unknown key kind")
	// ErrWeightOutOfRange is returned when a role weight exceeds policy.MaxWeight.
	ErrWeightOutOfRange = errors.New("role weight out of range")
)

// Kind tags the credential type of a key.
type Kind uint8

const (
	// KindNative is a secp256k1 key identified by its address.
	KindNative Kind = iota
	// KindContract is a contract that validates signatures on its own.
	KindContract
	// KindEmail is an inbox proven with a DKIM signed email.
	KindEmail
	// KindIdentityToken is a subject proven with an identity provider token.
	KindIdentityToken
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindContract:
		return "contract"
	case KindEmail:
		return "email"
	case KindIdentityToken:
		return "identity-token"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PayloadSize is the size of the serialized key payload.
func (k Kind) PayloadSize() (int, error) {
	switch k {
	case KindNative, KindContract:
		return types.AddressLength, nil
	case KindEmail, KindIdentityToken:
		return types.Hash32Length, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
}

// RoleWeight is the weight a key contributes to each role.
type RoleWeight struct {
	Owner        uint32
	AssetsOp     uint32
	Guardian     uint32
	Synchronizer uint32
}

// RoleWeightSize is the size of the serialized RoleWeight.
const RoleWeightSize = 16

// Weight returns the weight for the role.
func (w RoleWeight) Weight(role policy.Role) uint32 {
	switch role {
	case policy.Owner:
		return w.Owner
	case policy.AssetsOp:
		return w.AssetsOp
	case policy.Guardian:
		return w.Guardian
	case policy.Synchronizer:
		return w.Synchronizer
	default:
		return 0
	}
}

// Add sums weights per role. Sums saturate at math.MaxUint32.
func (w RoleWeight) Add(other RoleWeight) RoleWeight {
	return RoleWeight{
		Owner:        saturatingAdd(w.Owner, other.Owner),
		AssetsOp:     saturatingAdd(w.AssetsOp, other.AssetsOp),
		Guardian:     saturatingAdd(w.Guardian, other.Guardian),
		Synchronizer: saturatingAdd(w.Synchronizer, other.Synchronizer),
	}
}

func saturatingAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

// Meets returns true if the weight for the requirement role reaches its threshold.
func (w RoleWeight) Meets(req policy.Requirement) bool {
	return w.Weight(req.Role) >= req.Threshold
}

// MeetsAny returns true if at least one requirement is met, or if there are no
// requirements.
func (w RoleWeight) MeetsAny(reqs ...policy.Requirement) bool {
	if len(reqs) == 0 {
		return true
	}
	for _, req := range reqs {
		if w.Meets(req) {
			return true
		}
	}
	return false
}

// Validate checks that every weight is in [0, policy.MaxWeight].
func (w RoleWeight) Validate() error {
	for _, role := range []policy.Role{policy.Owner, policy.AssetsOp, policy.Guardian, policy.Synchronizer} {
		if v := w.Weight(role); v > policy.MaxWeight {
			return fmt.Errorf("%w: %s weight %d", ErrWeightOutOfRange, role, v)
		}
	}
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (w RoleWeight) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("owner", w.Owner)
	encoder.AddUint32("assets-op", w.AssetsOp)
	encoder.AddUint32("guardian", w.Guardian)
	encoder.AddUint32("synchronizer", w.Synchronizer)
	return nil
}

// Key is a member of the keyset. Address is set for native and contract keys,
// ID for email handles and identity token bindings.
type Key struct {
	Kind    Kind
	Address types.Address
	ID      types.Hash32
	Weight  RoleWeight
}

// NewNative creates a key for a secp256k1 signer.
func NewNative(address types.Address, weight RoleWeight) Key {
	return Key{Kind: KindNative, Address: address, Weight: weight}
}

// NewContract creates a key for a contract signer.
func NewContract(address types.Address, weight RoleWeight) Key {
	return Key{Kind: KindContract, Address: address, Weight: weight}
}

// NewEmail creates a key for an email inbox. The address is stored only as a
// peppered hash.
func NewEmail(email string, pepper types.Hash32, weight RoleWeight) Key {
	return Key{Kind: KindEmail, ID: EmailHandle(email, pepper), Weight: weight}
}

// NewIdentityToken creates a key for an identity provider subject.
func NewIdentityToken(issuer, subject string, weight RoleWeight) Key {
	return Key{Kind: KindIdentityToken, ID: IdentityBinding(issuer, subject), Weight: weight}
}

// EmailHandle is keccak256(lowercase(email) ‖ pepper).
func EmailHandle(email string, pepper types.Hash32) types.Hash32 {
	return hash.Sum([]byte(strings.ToLower(email)), pepper[:])
}

// IdentityBinding is keccak256(issuer ‖ 0x00 ‖ subject).
func IdentityBinding(issuer, subject string) types.Hash32 {
	return hash.Sum([]byte(issuer), []byte{0}, []byte(subject))
}

// Payload returns the kind specific identifier of the key.
func (k Key) Payload() []byte {
	switch k.Kind {
	case KindNative, KindContract:
		return k.Address.Bytes()
	case KindEmail, KindIdentityToken:
		return k.ID.Bytes()
	default:
		return nil
	}
}

// Validate checks the kind and the weights.
func (k Key) Validate() error {
	if _, err := k.Kind.PayloadSize(); err != nil {
		return err
	}
	return k.Weight.Validate()
}

func (k Key) String() string {
	return fmt.Sprintf("%s:0x%x", k.Kind, k.Payload())
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (k Key) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("kind", k.Kind.String())
	encoder.AddString("id", fmt.Sprintf("0x%x", k.Payload()))
	return encoder.AddObject("weight", k.Weight)
}
