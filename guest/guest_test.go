package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/log/logtest"
	"github.com/spacemeshos/go-smartaccount/transaction"
)

func call(target byte, revert bool) transaction.Transaction {
	return transaction.Transaction{
		CallType:      transaction.Call,
		RevertOnError: revert,
		Target:        types.Address{target},
		Value:         uint256.NewInt(uint64(target)),
	}
}

func TestGuestRejectsCallTypes(t *testing.T) {
	for _, ct := range []transaction.CallType{
		transaction.DelegateCall,
		transaction.CallAccountLayer,
		transaction.CallHooks,
		17,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			g := New(NewMockHost(gomock.NewController(t)), WithLogger(logtest.New(t)))
			_, err := g.Execute(context.Background(), []transaction.Transaction{
				call(1, true),
				{CallType: ct},
			}, nil)
			var invalid *transaction.InvalidCallTypeError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, uint8(ct), invalid.Code)
		})
	}
}

func TestGuestExecute(t *testing.T) {
	host := NewMockHost(gomock.NewController(t))
	g := New(host, WithLogger(logtest.New(t)), WithChainID(7))
	txs := []transaction.Transaction{call(1, true), call(2, false), call(3, true)}
	digest := Digest(7, txs)

	host.EXPECT().Snapshot().Return(4)
	host.EXPECT().Call(gomock.Any(), types.Address{1}, uint256.NewInt(1), uint64(0), gomock.Nil()).Return(nil, nil)
	host.EXPECT().Call(gomock.Any(), types.Address{2}, uint256.NewInt(2), uint64(0), gomock.Nil()).
		Return(nil, errors.New("reverted"))
	host.EXPECT().Call(gomock.Any(), types.Address{3}, uint256.NewInt(3), uint64(0), gomock.Nil()).Return(nil, nil)

	receipt, err := g.Execute(context.Background(), txs, []byte("any signature"))
	require.NoError(t, err)
	require.Equal(t, []account.Event{
		account.TxExecuted{Digest: digest, Index: 0},
		account.TxFailed{Digest: digest, Index: 1, Reason: "reverted"},
		account.TxExecuted{Digest: digest, Index: 2},
	}, receipt.Events)
	require.NotEqual(t, digest, Digest(1, txs))
}

func TestGuestRevertOnError(t *testing.T) {
	host := NewMockHost(gomock.NewController(t))
	g := New(host)
	failure := errors.New("out of gas")
	gomock.InOrder(
		host.EXPECT().Snapshot().Return(2),
		host.EXPECT().Call(gomock.Any(), types.Address{1}, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
		host.EXPECT().Call(gomock.Any(), types.Address{2}, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, failure),
		host.EXPECT().RevertToSnapshot(2),
	)
	_, err := g.Execute(context.Background(), []transaction.Transaction{call(1, true), call(2, true), call(3, true)}, nil)
	var failed *transaction.TxFailedError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, 1, failed.Index)
	require.ErrorIs(t, err, failure)
}
