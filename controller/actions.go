package controller

import (
	"encoding/binary"
	"fmt"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
	"github.com/spacemeshos/go-smartaccount/policy"
)

// Action changes the account state. Meta actions are gated by the meta nonce,
// configuration actions are only reachable from a batch.
type Action interface {
	Kind() policy.Action
	appendPayload([]byte) []byte
}

// UpdateKeysetHash replaces the keyset hash and clears a pending lock.
type UpdateKeysetHash struct {
	KeysetHash types.Hash32
}

// UpdateKeysetHashWithTimeLock starts a delayed keyset update.
type UpdateKeysetHashWithTimeLock struct {
	KeysetHash types.Hash32
}

// UnlockKeysetHash activates the pending keyset hash once the timelock passed.
type UnlockKeysetHash struct{}

// CancelLockKeysetHash discards the pending keyset hash.
type CancelLockKeysetHash struct{}

// UpdateTimeLockDuring sets the timelock delay in seconds.
type UpdateTimeLockDuring struct {
	LockDuring uint32
}

// UpdateImplementation replaces the account implementation.
type UpdateImplementation struct {
	Implementation types.Address
}

// AddHook registers Target for Selector.
type AddHook struct {
	Selector types.Selector
	Target   types.Address
}

// RemoveHook removes the hook for Selector.
type RemoveHook struct {
	Selector types.Selector
}

// AddPermission installs a custom requirement for Selector.
type AddPermission struct {
	Selector    types.Selector
	Requirement policy.Requirement
}

// RemovePermission removes the custom requirement for Selector.
type RemovePermission struct {
	Selector types.Selector
}

func (UpdateKeysetHash) Kind() policy.Action {
	return policy.ActionUpdateKeysetHash
}

func (UpdateKeysetHashWithTimeLock) Kind() policy.Action {
	return policy.ActionUpdateKeysetHashWithTimeLock
}

func (UnlockKeysetHash) Kind() policy.Action {
	return policy.ActionUnlockKeysetHash
}

func (CancelLockKeysetHash) Kind() policy.Action {
	return policy.ActionCancelLockKeysetHash
}

func (UpdateTimeLockDuring) Kind() policy.Action {
	return policy.ActionUpdateTimeLockDuring
}

func (UpdateImplementation) Kind() policy.Action {
	return policy.ActionUpdateImplementation
}

func (AddHook) Kind() policy.Action {
	return policy.ActionAddHook
}

func (RemoveHook) Kind() policy.Action {
	return policy.ActionRemoveHook
}

func (AddPermission) Kind() policy.Action {
	return policy.ActionAddPermission
}

func (RemovePermission) Kind() policy.Action {
	return policy.ActionRemovePermission
}

func (a UpdateKeysetHash) appendPayload(dst []byte) []byte {
	return append(dst, a.KeysetHash[:]...)
}

func (a UpdateKeysetHashWithTimeLock) appendPayload(dst []byte) []byte {
	return append(dst, a.KeysetHash[:]...)
}

func (UnlockKeysetHash) appendPayload(dst []byte) []byte     { return dst }
func (CancelLockKeysetHash) appendPayload(dst []byte) []byte { return dst }

func (a UpdateTimeLockDuring) appendPayload(dst []byte) []byte {
	return binary.BigEndian.AppendUint32(dst, a.LockDuring)
}

func (a UpdateImplementation) appendPayload(dst []byte) []byte {
	return append(dst, a.Implementation[:]...)
}

func (a AddHook) appendPayload(dst []byte) []byte {
	dst = append(dst, a.Selector[:]...)
	return append(dst, a.Target[:]...)
}

func (a RemoveHook) appendPayload(dst []byte) []byte {
	return append(dst, a.Selector[:]...)
}

func (a AddPermission) appendPayload(dst []byte) []byte {
	dst = append(dst, a.Selector[:]...)
	dst = append(dst, byte(a.Requirement.Role))
	return binary.BigEndian.AppendUint32(dst, a.Requirement.Threshold)
}

func (a RemovePermission) appendPayload(dst []byte) []byte {
	return append(dst, a.Selector[:]...)
}

var actionSelectors = map[policy.Action]types.Selector{
	policy.ActionUpdateKeysetHash:             policy.SelectorUpdateKeysetHash,
	policy.ActionUpdateKeysetHashWithTimeLock: policy.SelectorUpdateKeysetHashWithTimeLock,
	policy.ActionUnlockKeysetHash:             policy.SelectorUnlockKeysetHash,
	policy.ActionCancelLockKeysetHash:         policy.SelectorCancelLockKeysetHash,
	policy.ActionUpdateTimeLockDuring:         policy.SelectorUpdateTimeLockDuring,
	policy.ActionUpdateImplementation:         policy.SelectorUpdateImplementation,
	policy.ActionAddHook:                      policy.SelectorAddHook,
	policy.ActionRemoveHook:                   policy.SelectorRemoveHook,
	policy.ActionAddPermission:                policy.SelectorAddPermission,
	policy.ActionRemovePermission:             policy.SelectorRemovePermission,
}

// SelectorOf returns the selector of the action.
func SelectorOf(action Action) types.Selector {
	return actionSelectors[action.Kind()]
}

// IsMetaAction returns true for actions gated by the meta nonce.
func IsMetaAction(action Action) bool {
	switch action.Kind() {
	case policy.ActionUpdateKeysetHash,
		policy.ActionUpdateKeysetHashWithTimeLock,
		policy.ActionUnlockKeysetHash,
		policy.ActionCancelLockKeysetHash,
		policy.ActionUpdateTimeLockDuring,
		policy.ActionUpdateImplementation:
		return true
	default:
		return false
	}
}

// MetaDigest is keccak256(metaNonce ‖ account ‖ selector ‖ payload).
func MetaDigest(metaNonce uint32, addr types.Address, action Action) types.Hash32 {
	buf := binary.BigEndian.AppendUint32(nil, metaNonce)
	buf = append(buf, addr[:]...)
	sel := SelectorOf(action)
	buf = append(buf, sel[:]...)
	buf = action.appendPayload(buf)
	return hash.Sum(buf)
}

// EncodeAccountCall returns selector ‖ metaNonce ‖ payload for meta actions and
// selector ‖ payload for configuration actions.
func EncodeAccountCall(metaNonce uint32, action Action) []byte {
	sel := SelectorOf(action)
	buf := append([]byte(nil), sel[:]...)
	if IsMetaAction(action) {
		buf = binary.BigEndian.AppendUint32(buf, metaNonce)
	}
	return action.appendPayload(buf)
}

type callReader struct {
	buf   []byte
	short bool
}

func (r *callReader) take(n int) []byte {
	if len(r.buf) < n {
		r.short = true
		r.buf = nil
		return make([]byte, n)
	}
	rst := r.buf[:n]
	r.buf = r.buf[n:]
	return rst
}

func (r *callReader) u32() uint32 { return binary.BigEndian.Uint32(r.take(4)) }

func (r *callReader) selector() (sel types.Selector) {
	copy(sel[:], r.take(types.SelectorLength))
	return sel
}

func (r *callReader) hash() types.Hash32 { return types.BytesToHash32(r.take(types.Hash32Length)) }

func (r *callReader) address() types.Address {
	return types.BytesToAddress(r.take(types.AddressLength))
}

// DecodeAccountCall parses call data produced by EncodeAccountCall.
// The meta nonce is zero for configuration actions.
func DecodeAccountCall(data []byte) (Action, uint32, error) {
	sel, ok := types.SelectorFromCalldata(data)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrMalformedCall, len(data))
	}
	kind, ok := policy.ActionOf(sel)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown selector %s", ErrMalformedCall, sel)
	}
	r := &callReader{buf: data[types.SelectorLength:]}
	var (
		action    Action
		metaNonce uint32
	)
	switch kind {
	case policy.ActionUpdateKeysetHash:
		metaNonce = r.u32()
		action = UpdateKeysetHash{KeysetHash: r.hash()}
	case policy.ActionUpdateKeysetHashWithTimeLock:
		metaNonce = r.u32()
		action = UpdateKeysetHashWithTimeLock{KeysetHash: r.hash()}
	case policy.ActionUnlockKeysetHash:
		metaNonce = r.u32()
		action = UnlockKeysetHash{}
	case policy.ActionCancelLockKeysetHash:
		metaNonce = r.u32()
		action = CancelLockKeysetHash{}
	case policy.ActionUpdateTimeLockDuring:
		metaNonce = r.u32()
		action = UpdateTimeLockDuring{LockDuring: r.u32()}
	case policy.ActionUpdateImplementation:
		metaNonce = r.u32()
		action = UpdateImplementation{Implementation: r.address()}
	case policy.ActionAddHook:
		action = AddHook{Selector: r.selector(), Target: r.address()}
	case policy.ActionRemoveHook:
		action = RemoveHook{Selector: r.selector()}
	case policy.ActionAddPermission:
		add := AddPermission{Selector: r.selector()}
		add.Requirement.Role = policy.Role(r.take(1)[0])
		add.Requirement.Threshold = r.u32()
		action = add
	case policy.ActionRemovePermission:
		action = RemovePermission{Selector: r.selector()}
	default:
		return nil, 0, fmt.Errorf("%w: %s is not an account action", ErrMalformedCall, kind)
	}
	if r.short {
		return nil, 0, fmt.Errorf("%w: truncated %s", ErrMalformedCall, kind)
	}
	if len(r.buf) != 0 {
		return nil, 0, fmt.Errorf("%w: %d trailing bytes in %s", ErrMalformedCall, len(r.buf), kind)
	}
	return action, metaNonce, nil
}
