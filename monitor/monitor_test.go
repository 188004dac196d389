package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	testContract = util.Uint160{0xc0, 0xde}
	testOwner    = util.Uint160{1, 2, 3}
)

func notification(contract util.Uint160, name string, items ...stackitem.Item) *state.ContainedNotificationEvent {
	return &state.ContainedNotificationEvent{
		Container: util.Uint256{1},
		NotificationEvent: state.NotificationEvent{
			ScriptHash: contract,
			Name:       name,
			Item:       stackitem.NewArray(items),
		},
	}
}

func newTestMonitor(t *testing.T) (*Monitor, *Metrics, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewMetrics(prometheus.NewRegistry())
	return New(zap.New(core), testContract, m), m, logs
}

func TestHandle(t *testing.T) {
	mon, m, logs := newTestMonitor(t)
	owner := stackitem.Make(testOwner.BytesBE())

	require.NoError(t, mon.Handle(notification(testContract, vaultconst.DepositNotification,
		owner, stackitem.Make(2_0000_0000), stackitem.Make(2_0000_0000))))
	require.NoError(t, mon.Handle(notification(testContract, vaultconst.WithdrawNotification,
		owner, stackitem.Make(5000_0000), stackitem.Make(1_5000_0000))))
	require.NoError(t, mon.Handle(notification(testContract, vaultconst.SubmitTransactionNotification,
		owner, stackitem.Make(util.Uint160{9}.BytesBE()), stackitem.Make(1_0000_0000))))
	require.NoError(t, mon.Handle(notification(testContract, vaultconst.ExecuteTransactionNotification,
		owner)))

	require.Equal(t, 2.0, testutil.ToFloat64(m.deposited))
	require.Equal(t, 0.5, testutil.ToFloat64(m.withdrawn))
	require.Equal(t, 1.0, testutil.ToFloat64(m.submitted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(vaultconst.ExecuteTransactionNotification)))

	entries := logs.FilterMessage("deposit").All()
	require.Len(t, entries, 1)
	require.Equal(t, address.Uint160ToString(testOwner), entries[0].ContextMap()["owner"])

	require.Equal(t, 1, logs.FilterMessage("transaction executed").Len())
}

func TestHandleIgnored(t *testing.T) {
	mon, m, _ := newTestMonitor(t)

	require.NoError(t, mon.Handle(notification(util.Uint160{1}, vaultconst.DepositNotification)))
	require.NoError(t, mon.Handle(notification(testContract, "Transfer")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.decodeErrors))
	require.Equal(t, 0.0, testutil.ToFloat64(m.deposited))
}

func TestHandleMalformed(t *testing.T) {
	mon, m, _ := newTestMonitor(t)

	err := mon.Handle(notification(testContract, vaultconst.DepositNotification, stackitem.Make(1)))
	require.Error(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.decodeErrors))
	require.Equal(t, 0.0, testutil.ToFloat64(m.events.WithLabelValues(vaultconst.DepositNotification)))
}

func TestRun(t *testing.T) {
	mon, m, logs := newTestMonitor(t)
	ch := make(chan *state.ContainedNotificationEvent, 2)

	ch <- notification(testContract, vaultconst.ExecuteTransactionNotification, stackitem.Make(1))
	ch <- notification(testContract, vaultconst.ExecuteTransactionNotification, stackitem.Make(testOwner.BytesBE()))
	close(ch)

	require.ErrorIs(t, mon.Run(context.Background(), ch), ErrChannelClosed)
	require.Equal(t, 1, logs.FilterMessage("skip malformed notification").Len())
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(vaultconst.ExecuteTransactionNotification)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, mon.Run(ctx, make(chan *state.ContainedNotificationEvent)), context.DeadlineExceeded)
}
