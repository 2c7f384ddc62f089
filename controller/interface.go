package controller

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/auth"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/policy"
)

//go:generate mockgen -package=mocks -destination=./mocks/mocks.go -source=./interface.go

// Host executes calls on behalf of the account. A failed call leaves no
// effects, RevertToSnapshot undoes every call made after Snapshot. A zero
// gasLimit forwards all available gas.
type Host interface {
	Call(ctx context.Context, target types.Address, value *uint256.Int, gasLimit uint64, data []byte) ([]byte, error)
	DelegateCall(ctx context.Context, target types.Address, gasLimit uint64, data []byte) ([]byte, error)
	Snapshot() int
	RevertToSnapshot(id int)
}

// Whitelist is the external allow-list of implementations and hooks.
type Whitelist interface {
	IsImplementationAllowed(ctx context.Context, addr types.Address) (bool, error)
	IsHookAllowed(ctx context.Context, addr types.Address) (bool, error)
}

// Verifier checks proofs against the keyset hash.
type Verifier interface {
	Verify(
		ctx context.Context,
		dom auth.Domain,
		digest types.Hash32,
		proof []byte,
		keysetHash types.Hash32,
	) (keyset.RoleWeight, error)
	Authorize(
		ctx context.Context,
		dom auth.Domain,
		digest types.Hash32,
		proof []byte,
		keysetHash types.Hash32,
		reqs ...policy.Requirement,
	) (keyset.RoleWeight, error)
}

// Store persists account states.
type Store interface {
	Get(addr types.Address) (*account.State, error)
	Put(addr types.Address, state *account.State) error
}
