package policy

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

//go:generate scalegen -types Requirement

var (
	// ErrImmutableSelectorSigWeight is returned when changing the permission of
	// a selector that belongs to the controller interface.
	ErrImmutableSelectorSigWeight = errors.New("immutable selector sig weight")
	// ErrInvalidRequirement is returned for unknown roles or out of range thresholds.
	ErrInvalidRequirement = errors.New("invalid requirement")
	// ErrPermissionNotExists is returned when removing a missing permission.
	ErrPermissionNotExists = errors.New("permission not exists")
)

// Selectors of the controller interface.
var (
	SelectorUpdateKeysetHash             = types.SelectorOf("updateKeysetHash(uint32,bytes32)")
	SelectorUpdateKeysetHashWithTimeLock = types.SelectorOf("updateKeysetHashWithTimeLock(uint32,bytes32)")
	SelectorUnlockKeysetHash             = types.SelectorOf("unlockKeysetHash(uint32)")
	SelectorCancelLockKeysetHash         = types.SelectorOf("cancelLockKeysetHash(uint32)")
	SelectorUpdateTimeLockDuring         = types.SelectorOf("updateTimeLockDuring(uint32,uint32)")
	SelectorUpdateImplementation         = types.SelectorOf("updateImplementation(uint32,address)")
	SelectorAddHook                      = types.SelectorOf("addHook(bytes4,address)")
	SelectorRemoveHook                   = types.SelectorOf("removeHook(bytes4)")
	SelectorAddPermission                = types.SelectorOf("addPermission(bytes4,uint8,uint32)")
	SelectorRemovePermission             = types.SelectorOf("removePermission(bytes4)")
	SelectorExecute                      = types.SelectorOf("execute((uint8,bool,address,uint256,uint256,bytes)[],uint32,bytes)")
	SelectorIsValidSignature             = types.SelectorOf("isValidSignature(bytes32,bytes)")
)

var selectorActions = map[types.Selector]Action{
	SelectorUpdateKeysetHash:             ActionUpdateKeysetHash,
	SelectorUpdateKeysetHashWithTimeLock: ActionUpdateKeysetHashWithTimeLock,
	SelectorUnlockKeysetHash:             ActionUnlockKeysetHash,
	SelectorCancelLockKeysetHash:         ActionCancelLockKeysetHash,
	SelectorUpdateTimeLockDuring:         ActionUpdateTimeLockDuring,
	SelectorUpdateImplementation:         ActionUpdateImplementation,
	SelectorAddHook:                      ActionAddHook,
	SelectorRemoveHook:                   ActionRemoveHook,
	SelectorAddPermission:                ActionAddPermission,
	SelectorRemovePermission:             ActionRemovePermission,
	SelectorExecute:                      ActionCall,
	SelectorIsValidSignature:             ActionIsValidSignature,
}

// ActionOf returns the controller action bound to the selector.
func ActionOf(sel types.Selector) (Action, bool) {
	action, ok := selectorActions[sel]
	return action, ok
}

// IsImmutable returns true if the selector belongs to the controller interface.
func IsImmutable(sel types.Selector) bool {
	_, ok := selectorActions[sel]
	return ok
}

// Validate checks the role and the threshold range.
func (r Requirement) Validate() error {
	if !r.Role.Valid() {
		return fmt.Errorf("%w: unknown role %d", ErrInvalidRequirement, r.Role)
	}
	if r.Threshold == 0 || r.Threshold > MaxWeight {
		return fmt.Errorf("%w: threshold %d out of (0, %d]", ErrInvalidRequirement, r.Threshold, MaxWeight)
	}
	return nil
}

// Permissions are custom requirements installed for hook selectors.
type Permissions map[types.Selector]Requirement

// Add installs or replaces the requirement for the selector.
func (p Permissions) Add(sel types.Selector, req Requirement) error {
	if IsImmutable(sel) {
		return fmt.Errorf("%w: %s", ErrImmutableSelectorSigWeight, sel)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	p[sel] = req
	return nil
}

// Remove deletes the requirement for the selector.
func (p Permissions) Remove(sel types.Selector) error {
	if IsImmutable(sel) {
		return fmt.Errorf("%w: %s", ErrImmutableSelectorSigWeight, sel)
	}
	if _, ok := p[sel]; !ok {
		return fmt.Errorf("%w: %s", ErrPermissionNotExists, sel)
	}
	delete(p, sel)
	return nil
}

// Lookup returns the custom requirement for the selector.
func (p Permissions) Lookup(sel types.Selector) (Requirement, bool) {
	req, ok := p[sel]
	return req, ok
}

// Clone returns a copy that can be mutated independently.
func (p Permissions) Clone() Permissions {
	if p == nil {
		return Permissions{}
	}
	return maps.Clone(p)
}

// Sorted returns selectors in ascending byte order.
func (p Permissions) Sorted() []types.Selector {
	return slices.SortedFunc(maps.Keys(p), compareSelectors)
}

func compareSelectors(a, b types.Selector) int {
	return slices.Compare(a[:], b[:])
}
