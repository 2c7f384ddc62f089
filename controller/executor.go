package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/auth"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/policy"
	"github.com/spacemeshos/go-smartaccount/transaction"
)

const erc20ABI = `[{
	"type": "function",
	"name": "transfer",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "to", "type": "address"},
		{"name": "amount", "type": "uint256"}
	],
	"outputs": [{"name": "", "type": "bool"}]
}]`

var erc20 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// EncodeTransfer returns the call data of an erc20 transfer.
func EncodeTransfer(to types.Address, amount *uint256.Int) ([]byte, error) {
	return erc20.Pack("transfer", to, amount.ToBig())
}

type step struct {
	tx        *transaction.Transaction
	action    Action
	metaNonce uint32
	selector  types.Selector
}

// decodeSteps rejects malformed entries before any state is read.
func decodeSteps(batch *transaction.Batch) ([]step, error) {
	steps := make([]step, len(batch.Transactions))
	for i := range batch.Transactions {
		tx := &batch.Transactions[i]
		steps[i].tx = tx
		if !tx.CallType.Valid() {
			return nil, fmt.Errorf("entry %d: %w", i, &transaction.InvalidCallTypeError{Code: uint8(tx.CallType)})
		}
		switch tx.CallType {
		case transaction.CallAccountLayer:
			action, metaNonce, err := DecodeAccountCall(tx.Data)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			steps[i].action = action
			steps[i].metaNonce = metaNonce
		case transaction.CallHooks:
			sel, ok := tx.Selector()
			if !ok {
				return nil, fmt.Errorf("%w: entry %d has no selector", ErrMalformedCall, i)
			}
			steps[i].selector = sel
		}
	}
	return steps, nil
}

func (c *Controller) requirements(st *step) []policy.Requirement {
	switch st.tx.CallType {
	case transaction.DelegateCall:
		return c.cfg.Thresholds.Requirements(policy.ActionDelegateCall)
	case transaction.CallAccountLayer:
		return c.cfg.Thresholds.Requirements(st.action.Kind())
	case transaction.CallHooks:
		if req, ok := c.state.Permissions.Lookup(st.selector); ok {
			return []policy.Requirement{req}
		}
	}
	return c.cfg.Thresholds.Requirements(policy.ActionCall)
}

func (c *Controller) needsHost(batch *transaction.Batch) bool {
	if batch.Fee != nil {
		return true
	}
	for i := range batch.Transactions {
		if batch.Transactions[i].CallType != transaction.CallAccountLayer {
			return true
		}
	}
	return false
}

// Execute applies a batch signed over transaction.Digest. The nonce must be
// the current nonce. Every entry is authorized by the same proof. An entry that
// fails with RevertOnError set aborts the batch with *transaction.TxFailedError
// and reverts the host to the state before the batch. Other failures are
// reported as TxFailed events.
func (c *Controller) Execute(
	ctx context.Context,
	batch *transaction.Batch,
	nonce uint32,
	proof []byte,
) (*account.Receipt, error) {
	steps, err := decodeSteps(batch)
	if err != nil {
		requests.WithLabelValues("execute", "malformed").Inc()
		return nil, err
	}
	if c.host == nil && c.needsHost(batch) {
		return nil, ErrHostNotConfigured
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	receipt, err := c.execute(ctx, batch, steps, nonce, proof)
	if err != nil {
		requests.WithLabelValues("execute", resultLabel(err)).Inc()
		c.logger.Debug("batch rejected",
			zap.Uint32("nonce", nonce),
			zap.Int("entries", len(steps)),
			zap.Error(err),
		)
		return nil, err
	}
	requests.WithLabelValues("execute", "ok").Inc()
	batchSize.Observe(float64(len(steps)))
	c.logger.Info("batch executed",
		log.ZHash32("digest", receipt.Digest),
		zap.Uint32("nonce", nonce),
		zap.Int("entries", len(steps)),
		zap.Int("events", len(receipt.Events)),
	)
	return receipt, nil
}

func (c *Controller) execute(
	ctx context.Context,
	batch *transaction.Batch,
	steps []step,
	nonce uint32,
	proof []byte,
) (*account.Receipt, error) {
	if nonce != c.state.Nonce {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrInvalidNonce, nonce, c.state.Nonce)
	}
	digest := transaction.Digest(c.cfg.ChainID, batch, nonce)
	weight, err := c.verifier.Verify(ctx, c.domain(), digest, proof, c.state.KeysetHash)
	if err != nil {
		return nil, err
	}
	// ungated batches and batches paying a fee need AssetsOp.
	gated := false
	for i := range steps {
		reqs := c.requirements(&steps[i])
		if len(reqs) == 0 {
			continue
		}
		gated = true
		if !weight.MeetsAny(reqs...) {
			return nil, fmt.Errorf("%w: entry %d needs any of %v, have %+v",
				auth.ErrInsufficientWeight, i, reqs, weight)
		}
	}
	if !gated || batch.Fee != nil {
		reqs := c.cfg.Thresholds.Requirements(policy.ActionCall)
		if !weight.MeetsAny(reqs...) {
			return nil, fmt.Errorf("%w: batch needs any of %v, have %+v", auth.ErrInsufficientWeight, reqs, weight)
		}
	}

	snapshot := -1
	if c.host != nil {
		snapshot = c.host.Snapshot()
	}
	revert := func() {
		if snapshot >= 0 {
			c.host.RevertToSnapshot(snapshot)
		}
	}

	receipt := &account.Receipt{Digest: digest}
	working := c.state.Clone()
	for i := range steps {
		staged := working.Clone()
		events := &account.Receipt{Digest: digest}
		err := c.run(ctx, staged, &steps[i], events)
		if err == nil {
			working = staged
			receipt.Events = append(receipt.Events, events.Events...)
			receipt.Emit(account.TxExecuted{Digest: digest, Index: i})
			entries.WithLabelValues(steps[i].tx.CallType.String(), "ok").Inc()
			continue
		}
		entries.WithLabelValues(steps[i].tx.CallType.String(), "failed").Inc()
		if steps[i].tx.RevertOnError {
			revert()
			return nil, &transaction.TxFailedError{Digest: digest, Index: i, Reason: err}
		}
		c.logger.Debug("batch entry failed",
			log.ZHash32("digest", digest),
			zap.Int("index", i),
			zap.Error(err),
		)
		receipt.Emit(account.TxFailed{Digest: digest, Index: i, Reason: err.Error()})
	}
	working.Nonce++

	if fee := batch.Fee; fee != nil {
		if err := c.payFee(ctx, fee); err != nil {
			c.logger.Warn("fee payment failed",
				log.ZHash32("digest", digest),
				log.ZAddress("token", fee.Token),
				zap.Error(err),
			)
			receipt.Emit(account.PayFeeFailed{
				Digest: digest,
				Token:  fee.Token,
				Amount: feeAmount(fee).Dec(),
				Reason: err.Error(),
			})
		}
	}
	if err := c.commit(working); err != nil {
		revert()
		return nil, err
	}
	return receipt, nil
}

func (c *Controller) run(ctx context.Context, state *account.State, st *step, receipt *account.Receipt) error {
	tx := st.tx
	switch tx.CallType {
	case transaction.Call:
		_, err := c.host.Call(ctx, tx.Target, tx.GetValue(), tx.GasLimit, tx.Data)
		return err
	case transaction.DelegateCall:
		_, err := c.host.DelegateCall(ctx, tx.Target, tx.GasLimit, tx.Data)
		return err
	case transaction.CallAccountLayer:
		if IsMetaAction(st.action) && st.metaNonce != state.MetaNonce {
			return fmt.Errorf("%w (%w): got %d, expected %d",
				ErrInvalidMetaNonce, ErrInvalidNonce, st.metaNonce, state.MetaNonce)
		}
		return c.apply(ctx, state, st.action, receipt)
	case transaction.CallHooks:
		hook, ok := state.Hook(st.selector)
		if !ok {
			return fmt.Errorf("%w: %s", ErrHookNotFound, st.selector)
		}
		_, err := c.host.DelegateCall(ctx, hook, tx.GasLimit, tx.Data)
		return err
	default:
		return &transaction.InvalidCallTypeError{Code: uint8(tx.CallType)}
	}
}

func feeAmount(fee *transaction.Fee) *uint256.Int {
	if fee.Amount == nil {
		return new(uint256.Int)
	}
	return fee.Amount
}

func (c *Controller) payFee(ctx context.Context, fee *transaction.Fee) error {
	amount := feeAmount(fee)
	if fee.Native() {
		_, err := c.host.Call(ctx, fee.Receiver, amount, 0, nil)
		return err
	}
	data, err := EncodeTransfer(fee.Receiver, amount)
	if err != nil {
		return err
	}
	_, err = c.host.Call(ctx, fee.Token, new(uint256.Int), 0, data)
	return err
}

// Fallback forwards calls to selectors outside of the controller interface
// to the registered hook.
func (c *Controller) Fallback(ctx context.Context, data []byte) ([]byte, error) {
	sel, ok := types.SelectorFromCalldata(data)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedCall, len(data))
	}
	c.mu.Lock()
	hook, ok := c.state.Hook(sel)
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHookNotFound, sel)
	}
	if c.host == nil {
		return nil, ErrHostNotConfigured
	}
	c.logger.Debug("forwarding to hook", log.ZSelector("selector", sel), log.ZAddress("hook", hook))
	return c.host.DelegateCall(ctx, hook, 0, data)
}

// IsValidSignature returns auth.MagicValue if the proof carries the AssetsOp
// weight for digest.
func (c *Controller) IsValidSignature(ctx context.Context, digest types.Hash32, proof []byte) ([4]byte, error) {
	c.mu.Lock()
	keysetHash := c.state.KeysetHash
	c.mu.Unlock()
	reqs := c.cfg.Thresholds.Requirements(policy.ActionIsValidSignature)
	if _, err := c.verifier.Authorize(ctx, c.domain(), digest, proof, keysetHash, reqs...); err != nil {
		requests.WithLabelValues("is_valid_signature", resultLabel(err)).Inc()
		return [4]byte{}, err
	}
	requests.WithLabelValues("is_valid_signature", "ok").Inc()
	return auth.MagicValue, nil
}
