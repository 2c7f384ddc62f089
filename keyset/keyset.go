// Package keyset implements the keyset commitment: an ordered hash chain over
// serialized keys.
//
// The chain starts from an empty value and every key is folded as
//
//	h(i) = keccak256(h(i-1) ‖ kind ‖ payload ‖ weights)
//
// so proving any subset of signers requires the complete ordered keyset.
package keyset

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/hash"
)

// ErrKeysetMismatch is returned when the presented keys do not fold into the
// stored keyset hash.
var ErrKeysetMismatch = errors.New("keyset mismatch")

// AppendSerialized appends kind ‖ payload ‖ weights to dst.
func AppendSerialized(dst []byte, key Key) []byte {
	dst = append(dst, byte(key.Kind))
	dst = append(dst, key.Payload()...)
	return AppendWeight(dst, key.Weight)
}

// AppendWeight appends the four role weights as big-endian uint32.
func AppendWeight(dst []byte, w RoleWeight) []byte {
	dst = binary.BigEndian.AppendUint32(dst, w.Owner)
	dst = binary.BigEndian.AppendUint32(dst, w.AssetsOp)
	dst = binary.BigEndian.AppendUint32(dst, w.Guardian)
	return binary.BigEndian.AppendUint32(dst, w.Synchronizer)
}

// DecodeWeight reads a RoleWeight from the first RoleWeightSize bytes of buf.
func DecodeWeight(buf []byte) (RoleWeight, error) {
	if len(buf) < RoleWeightSize {
		return RoleWeight{}, fmt.Errorf("role weight needs %d bytes, got %d", RoleWeightSize, len(buf))
	}
	return RoleWeight{
		Owner:        binary.BigEndian.Uint32(buf[0:]),
		AssetsOp:     binary.BigEndian.Uint32(buf[4:]),
		Guardian:     binary.BigEndian.Uint32(buf[8:]),
		Synchronizer: binary.BigEndian.Uint32(buf[12:]),
	}, nil
}

// Serialize returns the canonical byte form of the key.
func Serialize(key Key) []byte {
	return AppendSerialized(make([]byte, 0, 1+types.Hash32Length+RoleWeightSize), key)
}

// Folder accumulates the commitment one key at a time.
// The zero value is ready to use.
type Folder struct {
	acc   types.Hash32
	count int
	buf   []byte
}

// Append folds the next key into the accumulator.
func (f *Folder) Append(key Key) {
	f.buf = f.buf[:0]
	if f.count > 0 {
		f.buf = append(f.buf, f.acc[:]...)
	}
	f.buf = AppendSerialized(f.buf, key)
	f.acc = hash.Sum(f.buf)
	f.count++
}

// Len is the number of folded keys.
func (f *Folder) Len() int {
	return f.count
}

// Sum returns the current commitment. An empty folder returns the zero hash.
func (f *Folder) Sum() types.Hash32 {
	return f.acc
}

// Fold computes the keyset hash for the ordered keys.
func Fold(keys []Key) types.Hash32 {
	var f Folder
	for _, key := range keys {
		f.Append(key)
	}
	return f.Sum()
}

// ReconstructAndVerify folds the keys and compares the result with claimed.
func ReconstructAndVerify(keys []Key, claimed types.Hash32) error {
	if got := Fold(keys); got != claimed {
		return fmt.Errorf("%w: folded %s, stored %s", ErrKeysetMismatch, got.Hex(), claimed.Hex())
	}
	return nil
}
