package account

import (
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/policy"
)

// Event is emitted by an applied request for observers.
type Event interface {
	zapcore.ObjectMarshaler
	Name() string
}

// KeysetHashUpdated is emitted when the keyset hash changes.
type KeysetHashUpdated struct {
	KeysetHash types.Hash32
}

func (KeysetHashUpdated) Name() string { return "keyset_hash_updated" }

func (e KeysetHashUpdated) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("keyset_hash", e.KeysetHash.Hex())
	return nil
}

// KeysetHashLocked is emitted when a delayed keyset update starts.
type KeysetHashLocked struct {
	PendingKeysetHash types.Hash32
	UnlockAfter       uint64
}

func (KeysetHashLocked) Name() string { return "keyset_hash_locked" }

func (e KeysetHashLocked) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("pending", e.PendingKeysetHash.Hex())
	encoder.AddUint64("unlock_after", e.UnlockAfter)
	return nil
}

// KeysetHashUnlocked is emitted when a pending keyset hash becomes active.
type KeysetHashUnlocked struct {
	KeysetHash types.Hash32
}

func (KeysetHashUnlocked) Name() string { return "keyset_hash_unlocked" }

func (e KeysetHashUnlocked) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("keyset_hash", e.KeysetHash.Hex())
	return nil
}

// LockCanceled is emitted when owners discard a pending keyset hash.
type LockCanceled struct {
	PendingKeysetHash types.Hash32
}

func (LockCanceled) Name() string { return "lock_canceled" }

func (e LockCanceled) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("pending", e.PendingKeysetHash.Hex())
	return nil
}

// TimeLockDuringUpdated is emitted when the timelock delay changes.
type TimeLockDuringUpdated struct {
	LockDuring uint32
}

func (TimeLockDuringUpdated) Name() string { return "timelock_during_updated" }

func (e TimeLockDuringUpdated) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("lock_during", e.LockDuring)
	return nil
}

// ImplementationUpdated is emitted when the implementation changes.
type ImplementationUpdated struct {
	Implementation types.Address
}

func (ImplementationUpdated) Name() string { return "implementation_updated" }

func (e ImplementationUpdated) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("implementation", e.Implementation.Hex())
	return nil
}

// HookAdded is emitted when a hook is registered.
type HookAdded struct {
	Selector types.Selector
	Target   types.Address
}

func (HookAdded) Name() string { return "hook_added" }

func (e HookAdded) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("selector", e.Selector.String())
	encoder.AddString("target", e.Target.Hex())
	return nil
}

// HookRemoved is emitted when a hook is removed.
type HookRemoved struct {
	Selector types.Selector
}

func (HookRemoved) Name() string { return "hook_removed" }

func (e HookRemoved) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("selector", e.Selector.String())
	return nil
}

// PermissionAdded is emitted when a custom permission is installed.
type PermissionAdded struct {
	Selector    types.Selector
	Requirement policy.Requirement
}

func (PermissionAdded) Name() string { return "permission_added" }

func (e PermissionAdded) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("selector", e.Selector.String())
	encoder.AddString("requirement", e.Requirement.String())
	return nil
}

// PermissionRemoved is emitted when a custom permission is removed.
type PermissionRemoved struct {
	Selector types.Selector
}

func (PermissionRemoved) Name() string { return "permission_removed" }

func (e PermissionRemoved) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("selector", e.Selector.String())
	return nil
}

// TxExecuted is emitted for every successful batch entry.
type TxExecuted struct {
	Digest types.Hash32
	Index  int
}

func (TxExecuted) Name() string { return "tx_executed" }

func (e TxExecuted) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("digest", e.Digest.Hex())
	encoder.AddInt("index", e.Index)
	return nil
}

// TxFailed is emitted for a failed entry that does not revert the batch.
type TxFailed struct {
	Digest types.Hash32
	Index  int
	Reason string
}

func (TxFailed) Name() string { return "tx_failed" }

func (e TxFailed) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("digest", e.Digest.Hex())
	encoder.AddInt("index", e.Index)
	encoder.AddString("reason", e.Reason)
	return nil
}

// PayFeeFailed is emitted when the fee of a batch could not be paid.
type PayFeeFailed struct {
	Digest types.Hash32
	Token  types.Address
	Amount string
	Reason string
}

func (PayFeeFailed) Name() string { return "pay_fee_failed" }

func (e PayFeeFailed) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("digest", e.Digest.Hex())
	encoder.AddString("token", e.Token.Hex())
	encoder.AddString("amount", e.Amount)
	encoder.AddString("reason", e.Reason)
	return nil
}

// Receipt is the outcome of an applied request.
type Receipt struct {
	Digest types.Hash32
	Events []Event
}

// Emit appends an event.
func (r *Receipt) Emit(event Event) {
	r.Events = append(r.Events, event)
}
