package policy

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// MaxWeight is the upper bound of any role weight and any threshold.
const MaxWeight = 100

const (
	// OwnerThreshold is required for owner actions.
	OwnerThreshold = 100
	// AssetsOpThreshold is required for forwarding calls and value.
	AssetsOpThreshold = 100
	// GuardianThreshold is required for immediate guardian recovery.
	GuardianThreshold = 100
	// GuardianTimeLockThreshold is required to start a delayed recovery.
	GuardianTimeLockThreshold = 50
	// OwnerCancelTimeLockThreshold is required to cancel a pending recovery.
	OwnerCancelTimeLockThreshold = 100
)

// Role is a group of keys that act together.
type Role uint8

const (
	Owner Role = iota
	AssetsOp
	Guardian
	Synchronizer
)

// String returns the name of the role.
func (r Role) String() string {
	switch r {
	case Owner:
		return "owner"
	case AssetsOp:
		return "assets-op"
	case Guardian:
		return "guardian"
	case Synchronizer:
		return "synchronizer"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid returns true if r is one of the known roles.
func (r Role) Valid() bool {
	return r <= Synchronizer
}

// Requirement is a weighted quorum for a role.
type Requirement struct {
	Role      Role
	Threshold uint32
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s>=%d", r.Role, r.Threshold)
}

// Action is an operation that the controller authorizes.
type Action uint8

const (
	ActionUpdateKeysetHash Action = iota
	ActionUpdateKeysetHashWithTimeLock
	ActionUnlockKeysetHash
	ActionCancelLockKeysetHash
	ActionUpdateTimeLockDuring
	ActionUpdateImplementation
	ActionAddHook
	ActionRemoveHook
	ActionAddPermission
	ActionRemovePermission
	// ActionCall forwards value or a call to another address.
	ActionCall
	// ActionDelegateCall runs foreign code in the context of the account.
	ActionDelegateCall
	// ActionSessionPermit delegates weight to a session key.
	ActionSessionPermit
	// ActionIsValidSignature answers a signature check on behalf of the account.
	ActionIsValidSignature
)

var actionNames = [...]string{
	ActionUpdateKeysetHash:             "update-keyset-hash",
	ActionUpdateKeysetHashWithTimeLock: "update-keyset-hash-with-timelock",
	ActionUnlockKeysetHash:             "unlock-keyset-hash",
	ActionCancelLockKeysetHash:         "cancel-lock-keyset-hash",
	ActionUpdateTimeLockDuring:         "update-timelock-during",
	ActionUpdateImplementation:         "update-implementation",
	ActionAddHook:                      "add-hook",
	ActionRemoveHook:                   "remove-hook",
	ActionAddPermission:                "add-permission",
	ActionRemovePermission:             "remove-permission",
	ActionCall:                         "call",
	ActionDelegateCall:                 "delegate-call",
	ActionSessionPermit:                "session-permit",
	ActionIsValidSignature:             "is-valid-signature",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Thresholds are the default weights required per action class.
type Thresholds struct {
	Owner               uint32 `mapstructure:"owner"`
	AssetsOp            uint32 `mapstructure:"assets-op"`
	Guardian            uint32 `mapstructure:"guardian"`
	GuardianTimeLock    uint32 `mapstructure:"guardian-timelock"`
	OwnerCancelTimeLock uint32 `mapstructure:"owner-cancel-timelock"`
}

// DefaultThresholds returns the fixed protocol thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Owner:               OwnerThreshold,
		AssetsOp:            AssetsOpThreshold,
		Guardian:            GuardianThreshold,
		GuardianTimeLock:    GuardianTimeLockThreshold,
		OwnerCancelTimeLock: OwnerCancelTimeLockThreshold,
	}
}

// Validate checks that every threshold is reachable and non zero, and that
// cancelling a delayed recovery needs at least the weight that started it.
func (t Thresholds) Validate() error {
	for _, v := range []struct {
		name  string
		value uint32
	}{
		{"owner", t.Owner},
		{"assets-op", t.AssetsOp},
		{"guardian", t.Guardian},
		{"guardian-timelock", t.GuardianTimeLock},
		{"owner-cancel-timelock", t.OwnerCancelTimeLock},
	} {
		if v.value == 0 || v.value > MaxWeight {
			return fmt.Errorf("threshold %s must be in (0, %d], got %d", v.name, MaxWeight, v.value)
		}
	}
	if t.GuardianTimeLock > t.Guardian {
		return errors.New("guardian timelock threshold must not exceed immediate guardian threshold")
	}
	if t.OwnerCancelTimeLock < t.GuardianTimeLock {
		return fmt.Errorf("owner cancel threshold %d is below guardian timelock threshold %d",
			t.OwnerCancelTimeLock, t.GuardianTimeLock)
	}
	return nil
}

// Requirements returns the requirements for the action. Any one of them is
// sufficient. An empty result means the action needs no signature.
func (t Thresholds) Requirements(action Action) []Requirement {
	switch action {
	case ActionUpdateKeysetHash:
		return []Requirement{{Owner, t.Owner}, {Guardian, t.Guardian}}
	case ActionUpdateKeysetHashWithTimeLock:
		return []Requirement{{Guardian, t.GuardianTimeLock}}
	case ActionUnlockKeysetHash:
		return nil
	case ActionCancelLockKeysetHash:
		return []Requirement{{Owner, t.OwnerCancelTimeLock}}
	case ActionUpdateTimeLockDuring, ActionUpdateImplementation,
		ActionAddHook, ActionRemoveHook,
		ActionAddPermission, ActionRemovePermission,
		ActionSessionPermit, ActionDelegateCall:
		return []Requirement{{Owner, t.Owner}}
	case ActionCall, ActionIsValidSignature:
		return []Requirement{{AssetsOp, t.AssetsOp}}
	default:
		panic(fmt.Sprintf("unknown action %d", action))
	}
}

// Threshold returns the weight the role needs to perform the action.
// The second value is false if the role can't perform the action.
func (t Thresholds) Threshold(role Role, action Action) (uint32, bool) {
	for _, req := range t.Requirements(action) {
		if req.Role == role {
			return req.Threshold, true
		}
	}
	return 0, false
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (t Thresholds) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("owner", t.Owner)
	encoder.AddUint32("assets-op", t.AssetsOp)
	encoder.AddUint32("guardian", t.Guardian)
	encoder.AddUint32("guardian-timelock", t.GuardianTimeLock)
	encoder.AddUint32("owner-cancel-timelock", t.OwnerCancelTimeLock)
	return nil
}
