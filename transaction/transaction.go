// Package transaction defines call batches executed by the controller and the
// digest that authorizes them.
package transaction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
)

var (
	// ErrInvalidCallType is returned for call types outside of the closed set
	// or not allowed by the executor.
	ErrInvalidCallType = errors.New("invalid call type")
	// ErrTxFailed is returned when a revert-on-error entry fails.
	ErrTxFailed = errors.New("tx failed")
)

// CallType selects how an entry of the batch is dispatched.
type CallType uint8

const (
	// Call forwards a call with value to the target.
	Call CallType = iota
	// DelegateCall runs target code in the context of the account.
	DelegateCall
	// CallAccountLayer re-enters the controller with an account action.
	CallAccountLayer
	// CallHooks dispatches to the hook registered for the selector of data.
	CallHooks
)

func (c CallType) String() string {
	switch c {
	case Call:
		return "call"
	case DelegateCall:
		return "delegate-call"
	case CallAccountLayer:
		return "call-account-layer"
	case CallHooks:
		return "call-hooks"
	default:
		return fmt.Sprintf("call-type(%d)", uint8(c))
	}
}

// Valid returns true for known call types.
func (c CallType) Valid() bool {
	return c <= CallHooks
}

// InvalidCallTypeError carries the rejected call type code.
type InvalidCallTypeError struct {
	Code uint8
}

func (e *InvalidCallTypeError) Error() string {
	return fmt.Sprintf("%s: %d", ErrInvalidCallType, e.Code)
}

func (e *InvalidCallTypeError) Unwrap() error {
	return ErrInvalidCallType
}

// TxFailedError reports the entry that aborted the batch.
type TxFailedError struct {
	Digest types.Hash32
	Index  int
	Reason error
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("%s: digest %s index %d: %v", ErrTxFailed, e.Digest.Hex(), e.Index, e.Reason)
}

func (e *TxFailedError) Unwrap() []error {
	return []error{ErrTxFailed, e.Reason}
}

// Transaction is a single entry of a batch.
type Transaction struct {
	CallType      CallType
	RevertOnError bool
	Target        types.Address
	GasLimit      uint64
	Value         *uint256.Int
	Data          []byte
}

// GetValue returns the value, zero if unset.
func (tx *Transaction) GetValue() *uint256.Int {
	if tx.Value == nil {
		return new(uint256.Int)
	}
	return tx.Value
}

// Selector returns the first four bytes of Data.
func (tx *Transaction) Selector() (types.Selector, bool) {
	return types.SelectorFromCalldata(tx.Data)
}

// AppendEncoded appends callType ‖ revertOnError ‖ target ‖ gasLimit ‖ value ‖
// len(data) ‖ data.
func (tx *Transaction) AppendEncoded(dst []byte) []byte {
	dst = append(dst, byte(tx.CallType))
	if tx.RevertOnError {
		dst = append(dst, 1)
	} else {
		dst = append(dst, 0)
	}
	dst = append(dst, tx.Target.Bytes()...)
	dst = binary.BigEndian.AppendUint64(dst, tx.GasLimit)
	value := tx.GetValue().Bytes32()
	dst = append(dst, value[:]...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(tx.Data)))
	return append(dst, tx.Data...)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (tx *Transaction) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("call_type", tx.CallType.String())
	encoder.AddBool("revert_on_error", tx.RevertOnError)
	encoder.AddString("target", tx.Target.Hex())
	encoder.AddUint64("gas_limit", tx.GasLimit)
	encoder.AddString("value", tx.GetValue().Dec())
	encoder.AddInt("data_len", len(tx.Data))
	return nil
}

// Fee is paid after the batch. A zero Token means the native currency.
// Receiver is chosen by the submitter and is not covered by the digest.
type Fee struct {
	Token    types.Address
	Amount   *uint256.Int
	Receiver types.Address
}

// Native returns true if the fee is paid in the native currency.
func (f *Fee) Native() bool {
	return f.Token == types.EmptyAddress
}

// Batch is the unit authorized by one signature and one nonce.
type Batch struct {
	Transactions []Transaction
	Fee          *Fee
}

// Encode returns len(txs) ‖ tx0 ‖ tx1 ‖ ...
func (b *Batch) Encode() []byte {
	buf := binary.BigEndian.AppendUint32(nil, uint32(len(b.Transactions)))
	for i := range b.Transactions {
		buf = b.Transactions[i].AppendEncoded(buf)
	}
	return buf
}

// Hash is keccak256 of the encoded transactions.
func (b *Batch) Hash() types.Hash32 {
	return hash.Sum(b.Encode())
}

// Digest is keccak256(chainID ‖ batchHash ‖ nonce [‖ feeToken ‖ feeAmount]).
func Digest(chainID uint64, batch *Batch, nonce uint32) types.Hash32 {
	buf := make([]byte, 0, 32+32+4+20+32)
	buf = appendChainID(buf, chainID)
	batchHash := batch.Hash()
	buf = append(buf, batchHash[:]...)
	buf = binary.BigEndian.AppendUint32(buf, nonce)
	if batch.Fee != nil {
		buf = append(buf, batch.Fee.Token.Bytes()...)
		amount := new(uint256.Int)
		if batch.Fee.Amount != nil {
			amount = batch.Fee.Amount
		}
		encoded := amount.Bytes32()
		buf = append(buf, encoded[:]...)
	}
	return hash.Sum(buf)
}

func appendChainID(dst []byte, chainID uint64) []byte {
	encoded := uint256.NewInt(chainID).Bytes32()
	return append(dst, encoded[:]...)
}
