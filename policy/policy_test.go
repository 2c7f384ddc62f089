package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	require.NoError(t, th.Validate())

	for _, tc := range []struct {
		action    Action
		role      Role
		threshold uint32
		ok        bool
	}{
		{ActionUpdateKeysetHash, Owner, OwnerThreshold, true},
		{ActionUpdateKeysetHash, Guardian, GuardianThreshold, true},
		{ActionUpdateKeysetHash, AssetsOp, 0, false},
		{ActionUpdateKeysetHashWithTimeLock, Guardian, GuardianTimeLockThreshold, true},
		{ActionUpdateKeysetHashWithTimeLock, Owner, 0, false},
		{ActionCancelLockKeysetHash, Owner, OwnerCancelTimeLockThreshold, true},
		{ActionCancelLockKeysetHash, Guardian, 0, false},
		{ActionUpdateImplementation, Owner, OwnerThreshold, true},
		{ActionUpdateTimeLockDuring, Owner, OwnerThreshold, true},
		{ActionAddHook, Owner, OwnerThreshold, true},
		{ActionCall, AssetsOp, AssetsOpThreshold, true},
		{ActionCall, Owner, 0, false},
		{ActionDelegateCall, Owner, OwnerThreshold, true},
		{ActionDelegateCall, AssetsOp, 0, false},
		{ActionUnlockKeysetHash, Owner, 0, false},
	} {
		t.Run(tc.action.String()+"/"+tc.role.String(), func(t *testing.T) {
			threshold, ok := th.Threshold(tc.role, tc.action)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.threshold, threshold)
		})
	}
	require.Empty(t, th.Requirements(ActionUnlockKeysetHash))
}

func TestTimelockCheaperThanCancel(t *testing.T) {
	th := DefaultThresholds()
	require.Less(t, th.GuardianTimeLock, th.Guardian)
	require.GreaterOrEqual(t, th.OwnerCancelTimeLock, th.GuardianTimeLock)
}

func TestThresholdsValidate(t *testing.T) {
	th := DefaultThresholds()
	th.Owner = 0
	require.ErrorContains(t, th.Validate(), "owner")

	th = DefaultThresholds()
	th.AssetsOp = MaxWeight + 1
	require.ErrorContains(t, th.Validate(), "assets-op")

	th = DefaultThresholds()
	th.Guardian = 60
	th.GuardianTimeLock = 70
	require.Error(t, th.Validate())

	th = DefaultThresholds()
	th.GuardianTimeLock = 50
	th.OwnerCancelTimeLock = 10
	require.ErrorContains(t, th.Validate(), "owner cancel threshold 10")

	th.OwnerCancelTimeLock = 50
	require.NoError(t, th.Validate())
}

func TestPermissions(t *testing.T) {
	hook := types.SelectorOf("onERC721Received(address,address,uint256,bytes)")
	perms := Permissions{}

	require.NoError(t, perms.Add(hook, Requirement{Role: Synchronizer, Threshold: 40}))
	req, ok := perms.Lookup(hook)
	require.True(t, ok)
	require.Equal(t, Requirement{Role: Synchronizer, Threshold: 40}, req)

	require.ErrorIs(t, perms.Add(hook, Requirement{Role: Role(9), Threshold: 40}), ErrInvalidRequirement)
	require.ErrorIs(t, perms.Add(hook, Requirement{Role: Owner, Threshold: 0}), ErrInvalidRequirement)
	require.ErrorIs(t, perms.Add(hook, Requirement{Role: Owner, Threshold: 101}), ErrInvalidRequirement)

	clone := perms.Clone()
	require.NoError(t, perms.Remove(hook))
	_, ok = perms.Lookup(hook)
	require.False(t, ok)
	_, ok = clone.Lookup(hook)
	require.True(t, ok, "clone must not share storage")

	require.ErrorIs(t, perms.Remove(hook), ErrPermissionNotExists)
}

func TestPermissionsImmutableSelectors(t *testing.T) {
	perms := Permissions{}
	for sel, action := range selectorActions {
		t.Run(action.String(), func(t *testing.T) {
			require.True(t, IsImmutable(sel))
			require.ErrorIs(t, perms.Add(sel, Requirement{Role: AssetsOp, Threshold: 1}), ErrImmutableSelectorSigWeight)
			require.ErrorIs(t, perms.Remove(sel), ErrImmutableSelectorSigWeight)
		})
	}
	require.Empty(t, perms)
}

func TestSelectors(t *testing.T) {
	// well known erc1271 selector
	require.Equal(t, types.Selector{0x16, 0x26, 0xba, 0x7e}, SelectorIsValidSignature)
	action, ok := ActionOf(SelectorUpdateKeysetHash)
	require.True(t, ok)
	require.Equal(t, ActionUpdateKeysetHash, action)
}

func TestPermissionsSorted(t *testing.T) {
	perms := Permissions{
		{0x03}: {Role: Owner, Threshold: 1},
		{0x01}: {Role: Owner, Threshold: 1},
		{0x02}: {Role: Owner, Threshold: 1},
	}
	require.Equal(t, []types.Selector{{0x01}, {0x02}, {0x03}}, perms.Sorted())
}
