package types

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spacemeshos/go-scale"
)

type (
	// Address is an alias to the 20-byte ledger address.
	Address = common.Address
	// Hash32 is an alias to the 32-byte keccak hash.
	Hash32 = common.Hash
)

const (
	// AddressLength is the number of bytes in an address.
	AddressLength = common.AddressLength
	// Hash32Length is the number of bytes in a hash.
	Hash32Length = common.HashLength
	// SelectorLength is the number of bytes in a function selector.
	SelectorLength = 4
)

// EmptyAddress is the zero address.
var EmptyAddress Address

// EmptyHash32 is the zero hash.
var EmptyHash32 Hash32

// BytesToAddress returns an address from the right-most 20 bytes of b.
func BytesToAddress(b []byte) Address {
	return common.BytesToAddress(b)
}

// BytesToHash32 returns a hash from the right-most 32 bytes of b.
func BytesToHash32(b []byte) Hash32 {
	return common.BytesToHash(b)
}

// HexToAddress parses a hex encoded address, with or without 0x prefix.
func HexToAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// HexToHash32 parses a hex encoded 32-byte hash, with or without 0x prefix.
func HexToHash32(s string) (Hash32, error) {
	raw, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return Hash32{}, fmt.Errorf("decode hash %q: %w", s, err)
	}
	if len(raw) != Hash32Length {
		return Hash32{}, fmt.Errorf("invalid hash length %d for %q", len(raw), s)
	}
	return common.BytesToHash(raw), nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Selector is the 4-byte identifier of a function in a call payload.
type Selector [SelectorLength]byte

// SelectorOf computes the selector for the canonical function signature,
// e.g. "updateKeysetHash(uint32,bytes32)".
func SelectorOf(signature string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(signature))[:SelectorLength])
	return sel
}

// SelectorFromCalldata returns the selector of a call payload.
func SelectorFromCalldata(data []byte) (Selector, bool) {
	var sel Selector
	if len(data) < SelectorLength {
		return sel, false
	}
	copy(sel[:], data)
	return sel, true
}

// Bytes returns the selector as a byte slice.
func (s Selector) Bytes() []byte { return s[:] }

// String returns the 0x prefixed hex form of the selector.
func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// EncodeScale implements scale codec interface.
func (s *Selector) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, s[:])
}

// DecodeScale implements scale codec interface.
func (s *Selector) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, s[:])
}
