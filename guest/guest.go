// Package guest executes batches for accounts that have no state yet. Batches
// are not authorized and have no nonce, so only plain calls are accepted.
package guest

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/transaction"
)

//go:generate mockgen -package=guest -destination=./mocks.go -source=./guest.go

// Host executes plain calls.
type Host interface {
	Call(ctx context.Context, target types.Address, value *uint256.Int, gasLimit uint64, data []byte) ([]byte, error)
	Snapshot() int
	RevertToSnapshot(id int)
}

// Opt is for configuring Guest.
type Opt func(*Guest)

// WithLogger sets logger for Guest.
func WithLogger(logger *zap.Logger) Opt {
	return func(g *Guest) {
		g.logger = logger
	}
}

// WithChainID sets the chain id mixed into the batch digest.
func WithChainID(chainID uint64) Opt {
	return func(g *Guest) {
		g.chainID = chainID
	}
}

// Guest is the stateless sibling of the controller.
type Guest struct {
	logger  *zap.Logger
	chainID uint64
	host    Host
}

// New creates a Guest that forwards calls to host.
func New(host Host, opts ...Opt) *Guest {
	g := &Guest{
		logger:  zap.NewNop(),
		chainID: 1,
		host:    host,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Digest is keccak256(chainID ‖ batchHash).
func Digest(chainID uint64, txs []transaction.Transaction) types.Hash32 {
	batch := transaction.Batch{Transactions: txs}
	chain := uint256.NewInt(chainID).Bytes32()
	batchHash := batch.Hash()
	return hash.Sum(chain[:], batchHash[:])
}

// Execute runs txs. The signature is accepted as is. Any entry other than
// transaction.Call rejects the whole batch with *transaction.InvalidCallTypeError.
func (g *Guest) Execute(ctx context.Context, txs []transaction.Transaction, signature []byte) (*account.Receipt, error) {
	for i := range txs {
		if txs[i].CallType != transaction.Call {
			return nil, fmt.Errorf("entry %d: %w", i, &transaction.InvalidCallTypeError{Code: uint8(txs[i].CallType)})
		}
	}
	digest := Digest(g.chainID, txs)
	receipt := &account.Receipt{Digest: digest}
	snapshot := g.host.Snapshot()
	for i := range txs {
		tx := &txs[i]
		if _, err := g.host.Call(ctx, tx.Target, tx.GetValue(), tx.GasLimit, tx.Data); err != nil {
			if tx.RevertOnError {
				g.host.RevertToSnapshot(snapshot)
				return nil, &transaction.TxFailedError{Digest: digest, Index: i, Reason: err}
			}
			receipt.Emit(account.TxFailed{Digest: digest, Index: i, Reason: err.Error()})
			continue
		}
		receipt.Emit(account.TxExecuted{Digest: digest, Index: i})
	}
	g.logger.Debug("guest batch executed",
		log.ZHash32("digest", digest),
		zap.Int("entries", len(txs)),
		zap.Int("signature_len", len(signature)),
	)
	return receipt, nil
}
