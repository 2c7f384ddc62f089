package account

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-smartaccount/codec"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/policy"
)

func sampleState() *State {
	s := New(types.Hash32{1}, types.Address{2}, 3600)
	s.MetaNonce = 7
	s.Nonce = 300
	s.Lock = Lock{Locked: true, PendingKeysetHash: types.Hash32{3}, UnlockAfter: 1_700_000_000}
	s.Hooks[types.Selector{0xaa}] = types.Address{4}
	s.Hooks[types.Selector{0x01}] = types.Address{5}
	s.Permissions[types.Selector{0xaa}] = policy.Requirement{Role: policy.Synchronizer, Threshold: 40}
	return s
}

func TestStateCodec(t *testing.T) {
	s := sampleState()
	buf, err := codec.Encode(s)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, codec.Decode(buf, &decoded))
	require.Empty(t, cmp.Diff(s, &decoded))
}

func TestStateCodecFuzz(t *testing.T) {
	f := fuzz.NewWithSeed(1001).NilChance(0).NumElements(0, 16)
	for range 50 {
		var s State
		f.Fuzz(&s)
		buf, err := codec.Encode(&s)
		require.NoError(t, err)

		var decoded State
		require.NoError(t, codec.Decode(buf, &decoded))
		require.Empty(t, cmp.Diff(&s, &decoded))
		require.Equal(t, buf, codec.MustEncode(s.Clone()))
	}
}

func TestStateEncodingDeterministic(t *testing.T) {
	a := sampleState()
	b := sampleState()
	// insertion order differs
	b.Hooks = map[types.Selector]types.Address{
		{0x01}: {5},
		{0xaa}: {4},
	}
	require.Equal(t, codec.MustEncode(a), codec.MustEncode(b))
}

func TestStateClone(t *testing.T) {
	s := sampleState()
	cp := s.Clone()
	require.Empty(t, cmp.Diff(s, cp))

	cp.Hooks[types.Selector{0xbb}] = types.Address{9}
	cp.Permissions[types.Selector{0xbb}] = policy.Requirement{Role: policy.Owner, Threshold: 1}
	cp.Lock.Locked = false
	require.NotContains(t, s.Hooks, types.Selector{0xbb})
	require.NotContains(t, s.Permissions, types.Selector{0xbb})
	require.True(t, s.Lock.Locked)
}

func TestCloneZeroState(t *testing.T) {
	var s State
	cp := s.Clone()
	require.NotNil(t, cp.Hooks)
	require.NotNil(t, cp.Permissions)
}

func TestReceipt(t *testing.T) {
	var r Receipt
	r.Emit(KeysetHashUpdated{KeysetHash: types.Hash32{1}})
	r.Emit(TxFailed{Index: 2, Reason: "revert"})
	require.Len(t, r.Events, 2)
	require.Equal(t, "keyset_hash_updated", r.Events[0].Name())
	require.Equal(t, "tx_failed", r.Events[1].Name())
}
