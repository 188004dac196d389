package vault

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err      error
	res      *result.Invoke
	expanded *result.Invoke

	batches    [][]stackitem.Item
	terminated []uuid.UUID
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.expanded, t.err
}

func (t *testInv) TraverseIterator(_ uuid.UUID, _ *result.Iterator, _ int) ([]stackitem.Item, error) {
	if len(t.batches) == 0 {
		return nil, nil
	}
	b := t.batches[0]
	t.batches = t.batches[1:]
	return b, nil
}

func (t *testInv) TerminateSession(id uuid.UUID) error {
	t.terminated = append(t.terminated, id)
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func transferItem(seed string, rcv util.Uint160, amount int64, executed bool) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(seed),
		stackitem.Make(rcv.BytesBE()),
		stackitem.Make(amount),
		stackitem.Make(executed),
		stackitem.Make(0),
	})
}

func TestReaderErrors(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.BalanceOf(util.Uint160{})
	require.Error(t, err)
	_, err = r.GetTransaction(util.Uint160{}, "tx1")
	require.Error(t, err)

	ti.err = nil
	ti.res = &result.Invoke{State: "FAULT", FaultException: "invalid amount, must be greater than 0"}
	_, err = r.BalanceOf(util.Uint160{})
	require.Error(t, err)

	ti.res = halt(stackitem.Make([]stackitem.Item{stackitem.Make(1)}))
	_, err = r.GetTransaction(util.Uint160{}, "tx1")
	require.Error(t, err)
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Make(1000))
	b, err := r.BalanceOf(util.Uint160{})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), b)

	rcv := util.Uint160{9, 8, 7}
	ti.res = halt(transferItem("tx1", rcv, 300, false))
	tx, err := r.GetTransaction(util.Uint160{}, "tx1")
	require.NoError(t, err)
	require.Equal(t, "tx1", tx.Seed)
	require.Equal(t, rcv, tx.Receiver)
	require.Equal(t, big.NewInt(300), tx.Amount)
	require.False(t, tx.Executed)

	addr := util.Uint160{4, 5, 6}
	ti.res = halt(stackitem.Make(addr.BytesBE()))
	res, err := r.VaultAddress(util.Uint160{})
	require.NoError(t, err)
	require.Equal(t, addr, res)
}

func TestAllTransactions(t *testing.T) {
	rcv := util.Uint160{1}
	owner := util.Uint160{2}

	t.Run("session", func(t *testing.T) {
		sess := uuid.New()
		iterID := uuid.New()
		ti := &testInv{
			res: &result.Invoke{
				State:   "HALT",
				Session: sess,
				Stack:   []stackitem.Item{stackitem.NewInterop(result.Iterator{ID: &iterID})},
			},
			batches: [][]stackitem.Item{
				{transferItem("a", rcv, 1, false), transferItem("b", rcv, 2, false)},
				{transferItem("c", rcv, 3, false)},
			},
		}

		txs, err := NewReader(ti, util.Uint160{}).AllTransactions(owner, 2)
		require.NoError(t, err)
		require.Len(t, txs, 3)
		require.Equal(t, "c", txs[2].Seed)
		require.Equal(t, []uuid.UUID{sess}, ti.terminated)
	})

	t.Run("no sessions", func(t *testing.T) {
		iterID := uuid.New()
		ti := &testInv{
			res: halt(stackitem.NewInterop(result.Iterator{ID: &iterID})),
			expanded: halt(stackitem.Make([]stackitem.Item{
				transferItem("a", rcv, 1, false),
			})),
		}

		_, _, err := NewReader(ti, util.Uint160{}).ListTransactions(owner)
		require.ErrorIs(t, err, unwrap.ErrNoSessionID)

		txs, err := NewReader(ti, util.Uint160{}).AllTransactions(owner, 0)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.Equal(t, big.NewInt(1), txs[0].Amount)
	})

	t.Run("bad item", func(t *testing.T) {
		_, err := ItemsToPendingTransfers([]stackitem.Item{stackitem.Make(1)})
		require.Error(t, err)
	})
}

func TestEvents(t *testing.T) {
	owner := util.Uint160{1, 2, 3}
	rcv := util.Uint160{3, 2, 1}

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{Name: "Transfer", Item: stackitem.NewArray(nil)},
				{Name: "Deposit", Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(owner.BytesBE()), stackitem.Make(1000), stackitem.Make(1000),
				})},
				{Name: "SubmitTransaction", Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(owner.BytesBE()), stackitem.Make(rcv.BytesBE()), stackitem.Make(300),
				})},
				{Name: "ExecuteTransaction", Item: stackitem.NewArray([]stackitem.Item{
					stackitem.Make(owner.BytesBE()),
				})},
			},
		}},
	}

	deposits, err := DepositEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*DepositEvent{{Owner: owner, Amount: big.NewInt(1000), Balance: big.NewInt(1000)}}, deposits)

	submits, err := SubmitTransactionEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, submits, 1)
	require.Equal(t, rcv, submits[0].Receiver)

	executes, err := ExecuteTransactionEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ExecuteTransactionEvent{{Owner: owner}}, executes)

	withdrawals, err := WithdrawEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, withdrawals)

	_, err = DepositEventsFromApplicationLog(nil)
	require.Error(t, err)

	var e ExecuteTransactionEvent
	require.Error(t, e.FromStackItem(nil))
	require.Error(t, e.FromStackItem(stackitem.NewArray([]stackitem.Item{stackitem.Make([]byte{1})})))
}
