// Package account holds the state governed by a keyset and the events emitted
// when it changes.
package account

import (
	"maps"
	"slices"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/policy"
)

//go:generate scalegen -types Lock,HookEntry,PermissionEntry

// MaxTableEntries bounds hooks and permissions in the encoded state.
const MaxTableEntries = 1024

// Lock is a pending keyset update started by guardians.
type Lock struct {
	Locked            bool
	PendingKeysetHash types.Hash32
	// UnlockAfter is a unix timestamp in seconds.
	UnlockAfter uint64
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (l Lock) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddBool("locked", l.Locked)
	encoder.AddString("pending", l.PendingKeysetHash.Hex())
	encoder.AddUint64("unlock_after", l.UnlockAfter)
	return nil
}

// HookEntry is the encoded form of a hook table row.
type HookEntry struct {
	Selector types.Selector
	Target   types.Address
}

// PermissionEntry is the encoded form of a permission table row.
type PermissionEntry struct {
	Selector    types.Selector
	Requirement policy.Requirement
}

// State is the mutable state of one account.
type State struct {
	KeysetHash     types.Hash32
	MetaNonce      uint32
	Nonce          uint32
	Implementation types.Address
	Lock           Lock
	// LockDuring is the timelock delay in seconds.
	LockDuring  uint32
	Hooks       map[types.Selector]types.Address
	Permissions policy.Permissions
}

// New returns the state of a freshly deployed account.
func New(keysetHash types.Hash32, implementation types.Address, lockDuring uint32) *State {
	return &State{
		KeysetHash:     keysetHash,
		Implementation: implementation,
		LockDuring:     lockDuring,
		Hooks:          map[types.Selector]types.Address{},
		Permissions:    policy.Permissions{},
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	cp := *s
	cp.Hooks = maps.Clone(s.Hooks)
	if cp.Hooks == nil {
		cp.Hooks = map[types.Selector]types.Address{}
	}
	cp.Permissions = s.Permissions.Clone()
	return &cp
}

// Hook returns the hook registered for the selector.
func (s *State) Hook(sel types.Selector) (types.Address, bool) {
	target, ok := s.Hooks[sel]
	return target, ok
}

// HookEntries returns the hook table sorted by selector.
func (s *State) HookEntries() []HookEntry {
	selectors := slices.SortedFunc(maps.Keys(s.Hooks), func(a, b types.Selector) int {
		return slices.Compare(a[:], b[:])
	})
	entries := make([]HookEntry, 0, len(selectors))
	for _, sel := range selectors {
		entries = append(entries, HookEntry{Selector: sel, Target: s.Hooks[sel]})
	}
	return entries
}

func (s *State) permissionEntries() []PermissionEntry {
	entries := make([]PermissionEntry, 0, len(s.Permissions))
	for _, sel := range s.Permissions.Sorted() {
		entries = append(entries, PermissionEntry{Selector: sel, Requirement: s.Permissions[sel]})
	}
	return entries
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s *State) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("keyset_hash", s.KeysetHash.Hex())
	encoder.AddUint32("meta_nonce", s.MetaNonce)
	encoder.AddUint32("nonce", s.Nonce)
	encoder.AddString("implementation", s.Implementation.Hex())
	encoder.AddUint32("lock_during", s.LockDuring)
	encoder.AddInt("hooks", len(s.Hooks))
	encoder.AddInt("permissions", len(s.Permissions))
	return encoder.AddObject("lock", s.Lock)
}

// EncodeScale implements scale codec interface. Tables are encoded as lists
// sorted by selector so equal states have equal encodings.
func (s *State) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, s.KeysetHash[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, s.MetaNonce)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, s.Nonce)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, s.Implementation[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := s.Lock.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, s.LockDuring)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSliceWithLimit(enc, s.HookEntries(), MaxTableEntries)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeStructSliceWithLimit(enc, s.permissionEntries(), MaxTableEntries)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (s *State) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := scale.DecodeByteArray(dec, s.KeysetHash[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.MetaNonce = field
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.Nonce = field
	}
	{
		n, err := scale.DecodeByteArray(dec, s.Implementation[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := s.Lock.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.LockDuring = field
	}
	{
		entries, n, err := scale.DecodeStructSliceWithLimit[HookEntry](dec, MaxTableEntries)
		if err != nil {
			return total, err
		}
		total += n
		s.Hooks = make(map[types.Selector]types.Address, len(entries))
		for _, entry := range entries {
			s.Hooks[entry.Selector] = entry.Target
		}
	}
	{
		entries, n, err := scale.DecodeStructSliceWithLimit[PermissionEntry](dec, MaxTableEntries)
		if err != nil {
			return total, err
		}
		total += n
		s.Permissions = make(policy.Permissions, len(entries))
		for _, entry := range entries {
			s.Permissions[entry.Selector] = entry.Requirement
		}
	}
	return total, nil
}
