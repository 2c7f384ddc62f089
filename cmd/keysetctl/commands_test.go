package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/controller"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/policy"
	"github.com/spacemeshos/go-smartaccount/store"
)

func run(tb testing.TB, fs afero.Fs, args ...string) (string, error) {
	tb.Helper()
	root := rootCommand(fs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHashCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := writeKeyset(t, fs, "keyset.toml", testKeyset)
	keys, err := loadKeyset(fs, path)
	require.NoError(t, err)

	out, err := run(t, fs, "hash", "--keyset", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(keys)+1)
	require.Equal(t, keyset.Fold(keys).Hex(), lines[len(lines)-1])
	require.Contains(t, lines[0], "native:0x00000000000000000000000000000000000000aa")
}

func TestMetaDigestCommand(t *testing.T) {
	addr := types.Address{19: 0x11}
	newHash := types.Hash32{31: 0x22}
	out, err := run(t, nil, "meta-digest", "update-keyset-hash",
		"--account", addr.Hex(), "--meta-nonce", "3", "--keyset-hash", newHash.Hex())
	require.NoError(t, err)

	action := controller.UpdateKeysetHash{KeysetHash: newHash}
	require.Equal(t, fmt.Sprintf("digest\t%s\ncalldata\t0x%x\n",
		controller.MetaDigest(3, addr, action).Hex(),
		controller.EncodeAccountCall(3, action),
	), out)

	out, err = run(t, nil, "meta-digest", "update-timelock-during", "--account", addr.Hex(), "--new-lock-during", "2h")
	require.NoError(t, err)
	require.Contains(t, out,
		controller.MetaDigest(0, addr, controller.UpdateTimeLockDuring{LockDuring: 7200}).Hex())

	for _, args := range [][]string{
		{"meta-digest", "add-hook", "--account", addr.Hex()},
		{"meta-digest", "update-keyset-hash", "--account", addr.Hex()},
		{"meta-digest", "update-timelock-during", "--account", addr.Hex(), "--new-lock-during", "1500ms"},
		{"meta-digest", "unlock", "--account", "0x01"},
	} {
		_, err := run(t, nil, args...)
		require.Error(t, err, args)
	}

	// 1300000h is above the u32 range of seconds
	_, err = run(t, nil, "meta-digest", "update-timelock-during", "--account", addr.Hex(), "--new-lock-during", "1300000h")
	require.ErrorContains(t, err, "must not exceed 4294967295 seconds")
}

func TestStateCommand(t *testing.T) {
	dir := t.TempDir()
	addr := types.Address{19: 0x33}
	state := account.New(types.Hash32{1}, types.Address{2}, 3600)
	state.MetaNonce = 2
	state.Nonce = 7
	state.Hooks[types.Selector{1, 2, 3, 4}] = types.Address{5}
	state.Permissions[types.Selector{9, 9, 9, 9}] = policy.Requirement{Role: policy.Owner, Threshold: 50}

	cfg := store.DefaultConfig()
	cfg.Path = filepath.Join(dir, cfg.Path)
	db, err := store.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Put(addr, state))
	require.NoError(t, db.Close())

	out, err := run(t, nil, "state", "--data-folder", dir, "--account", addr.Hex(), "--log-level", "error")
	require.NoError(t, err)
	require.Contains(t, out, "keyset-hash\t"+state.KeysetHash.Hex())
	require.Contains(t, out, "meta-nonce\t2\n")
	require.Contains(t, out, "nonce\t7\n")
	require.Contains(t, out, "lock-during\t1h0m0s\n")
	require.Contains(t, out, "hook\t0x01020304\t"+types.Address{5}.Hex())
	require.Contains(t, out, "permission\t0x09090909")
	require.NotContains(t, out, "pending-keyset-hash")

	out, err = run(t, nil, "accounts", "--data-folder", dir, "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%s\t%s\tmeta-nonce=2 nonce=7\n", addr.Hex(), state.KeysetHash.Hex()), out)

	_, err = run(t, nil, "state", "--data-folder", dir, "--account", types.Address{1}.Hex(), "--log-level", "error")
	require.ErrorIs(t, err, store.ErrNotFound)
}
