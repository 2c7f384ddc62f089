package hash

import (
	"github.com/minio/sha256-simd"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

const (
	// Size is the size of every hash produced by this package (32 bytes).
	Size = types.Hash32Length
)

// Sum256 is an alias to minio sha256.Sum256. Used where an external format
// fixes sha256 (e.g. DKIM rsa-sha256).
var Sum256 = sha256.Sum256

// Sum computes keccak256 over the concatenation of chunks.
func Sum(chunks ...[]byte) types.Hash32 {
	hasher := GetHasher()
	defer PutHasher(hasher)
	for _, chunk := range chunks {
		hasher.Write(chunk)
	}
	var rst types.Hash32
	hasher.Read(rst[:])
	return rst
}
