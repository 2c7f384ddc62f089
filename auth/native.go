package auth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

// MagicValue is returned by isValidSignature for valid signatures.
var MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

var secp256k1HalfN = new(big.Int).Rsh(crypto.S256().Params().N, 1)

const erc1271ABI = `[{
	"type": "function",
	"name": "isValidSignature",
	"stateMutability": "view",
	"inputs": [
		{"name": "hash", "type": "bytes32"},
		{"name": "signature", "type": "bytes"}
	],
	"outputs": [{"name": "magicValue", "type": "bytes4"}]
}]`

var erc1271 = mustParseABI(erc1271ABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Recover returns the signer of the digest. sig is r ‖ s ‖ v with v in {27, 28}
// and s in the lower half of the curve order.
func Recover(digest types.Hash32, sig []byte) (types.Address, error) {
	if len(sig) != SignatureLength {
		return types.Address{}, fmt.Errorf("%w: %d", ErrInvalidSignatureLength, len(sig))
	}
	s := new(big.Int).SetBytes(sig[32:64])
	if s.Cmp(secp256k1HalfN) > 0 {
		return types.Address{}, ErrInvalidSValue
	}
	v := sig[64]
	if v != 27 && v != 28 {
		return types.Address{}, fmt.Errorf("%w: %d", ErrInvalidVValue, v)
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	normalized[64] = v - 27
	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %w", ErrSignerIsAddress0, err)
	}
	signer := crypto.PubkeyToAddress(*pub)
	if signer == types.EmptyAddress {
		return types.Address{}, ErrSignerIsAddress0
	}
	return signer, nil
}

// Sign produces a signature in the format accepted by Recover.
func Sign(digest types.Hash32, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

func verifyNative(digest types.Hash32, expected types.Address, sig []byte) error {
	signer, err := Recover(digest, sig)
	if err != nil {
		return err
	}
	if signer != expected {
		return fmt.Errorf("%w: recovered %s, expected %s", ErrSignerMismatch, signer.Hex(), expected.Hex())
	}
	return nil
}

// EncodeIsValidSignature returns the call data of isValidSignature(bytes32,bytes).
func EncodeIsValidSignature(digest types.Hash32, sig []byte) ([]byte, error) {
	return erc1271.Pack("isValidSignature", [32]byte(digest), sig)
}

// EncodeMagicValue returns the abi encoded return value of isValidSignature.
func EncodeMagicValue(magic [4]byte) ([]byte, error) {
	return erc1271.Methods["isValidSignature"].Outputs.Pack(magic)
}

func (v *Verifier) verifyContract(ctx context.Context, digest types.Hash32, contract types.Address, sig []byte) error {
	if v.caller == nil {
		return fmt.Errorf("%w: contract", ErrCredentialVerifierNotLoaded)
	}
	data, err := EncodeIsValidSignature(digest, sig)
	if err != nil {
		return fmt.Errorf("%w: pack isValidSignature: %w", ErrMalformedProof, err)
	}
	out, err := v.caller.StaticCall(ctx, contract, data)
	if err != nil {
		return fmt.Errorf("%w: isValidSignature on %s: %w", ErrInvalidCredential, contract.Hex(), err)
	}
	values, err := erc1271.Unpack("isValidSignature", out)
	if err != nil || len(values) != 1 {
		return fmt.Errorf("%w: unexpected isValidSignature output from %s", ErrInvalidCredential, contract.Hex())
	}
	magic, ok := values[0].([4]byte)
	if !ok || magic != MagicValue {
		return fmt.Errorf("%w: %s rejected signature", ErrInvalidCredential, contract.Hex())
	}
	return nil
}
