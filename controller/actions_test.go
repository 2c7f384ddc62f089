package controller_test

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/controller"
	"github.com/spacemeshos/go-smartaccount/policy"
)

func TestAccountCallEncoding(t *testing.T) {
	for _, tc := range []struct {
		action controller.Action
		meta   bool
		size   int
	}{
		{controller.UpdateKeysetHash{KeysetHash: types.Hash32{1}}, true, 4 + 4 + 32},
		{controller.UpdateKeysetHashWithTimeLock{KeysetHash: types.Hash32{2}}, true, 4 + 4 + 32},
		{controller.UnlockKeysetHash{}, true, 4 + 4},
		{controller.CancelLockKeysetHash{}, true, 4 + 4},
		{controller.UpdateTimeLockDuring{LockDuring: 3600}, true, 4 + 4 + 4},
		{controller.UpdateImplementation{Implementation: types.Address{3}}, true, 4 + 4 + 20},
		{controller.AddHook{Selector: types.Selector{1, 2, 3, 4}, Target: types.Address{4}}, false, 4 + 4 + 20},
		{controller.RemoveHook{Selector: types.Selector{1, 2, 3, 4}}, false, 4 + 4},
		{controller.AddPermission{
			Selector:    types.Selector{1, 2, 3, 4},
			Requirement: policy.Requirement{Role: policy.AssetsOp, Threshold: 40},
		}, false, 4 + 4 + 1 + 4},
		{controller.RemovePermission{Selector: types.Selector{1, 2, 3, 4}}, false, 4 + 4},
	} {
		t.Run(tc.action.Kind().String(), func(t *testing.T) {
			require.Equal(t, tc.meta, controller.IsMetaAction(tc.action))
			data := controller.EncodeAccountCall(7, tc.action)
			require.Len(t, data, tc.size)
			sel := controller.SelectorOf(tc.action)
			require.Equal(t, sel[:], data[:4])

			action, metaNonce, err := controller.DecodeAccountCall(data)
			require.NoError(t, err)
			require.Equal(t, tc.action, action)
			if tc.meta {
				require.EqualValues(t, 7, metaNonce)
			} else {
				require.Zero(t, metaNonce)
			}

			_, _, err = controller.DecodeAccountCall(data[:len(data)-1])
			require.ErrorIs(t, err, controller.ErrMalformedCall)
			_, _, err = controller.DecodeAccountCall(append(data, 0))
			require.ErrorIs(t, err, controller.ErrMalformedCall)
		})
	}
}

func TestDecodeAccountCallRejects(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{1, 2, 3},
		{0xde, 0xad, 0xbe, 0xef},
		policy.SelectorExecute.Bytes(),
		policy.SelectorIsValidSignature.Bytes(),
	} {
		_, _, err := controller.DecodeAccountCall(data)
		require.ErrorIs(t, err, controller.ErrMalformedCall, hex.EncodeToString(data))
	}
}

func TestMetaDigest(t *testing.T) {
	action := controller.UpdateTimeLockDuring{LockDuring: 0x0e10}
	addr := types.Address{0xac}
	sel := policy.SelectorUpdateTimeLockDuring

	preimage := []byte{0, 0, 0, 5}
	preimage = append(preimage, addr[:]...)
	preimage = append(preimage, sel[:]...)
	preimage = append(preimage, 0, 0, 0x0e, 0x10)
	require.Equal(t, types.BytesToHash32(crypto.Keccak256(preimage)), controller.MetaDigest(5, addr, action))

	require.NotEqual(t, controller.MetaDigest(5, addr, action), controller.MetaDigest(6, addr, action))
	require.NotEqual(t, controller.MetaDigest(5, addr, action), controller.MetaDigest(5, types.Address{0xad}, action))
	require.NotEqual(t,
		controller.MetaDigest(0, addr, controller.UnlockKeysetHash{}),
		controller.MetaDigest(0, addr, controller.CancelLockKeysetHash{}),
	)
}
