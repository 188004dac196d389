package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

// testChain implements actor.RPCPollingWaiter.
type testChain struct {
	blockCount uint32
	// log is returned once calls reach appearsAt.
	log       *result.ApplicationLog
	appearsAt int
	calls     int
}

func (c *testChain) Context() context.Context {
	return context.Background()
}

func (c *testChain) GetVersion() (*result.Version, error) {
	return &result.Version{Protocol: result.Protocol{MillisecondsPerBlock: 2}}, nil
}

func (c *testChain) GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error) {
	c.calls++
	if c.log == nil || c.calls < c.appearsAt {
		return nil, errors.New("Unknown transaction or container")
	}
	return c.log, nil
}

func (c *testChain) GetBlockCount() (uint32, error) {
	return c.blockCount, nil
}

func appLog(st vmstate.State, exc string) *result.ApplicationLog {
	return &result.ApplicationLog{
		Executions: []state.Execution{{
			Trigger:        trigger.Application,
			VMState:        st,
			FaultException: exc,
		}},
	}
}

func newWaiter(t *testing.T, c *testChain) actor.Waiter {
	w, err := actor.NewPollingWaiter(c)
	require.NoError(t, err)
	return w
}

func TestAwait(t *testing.T) {
	ctx := context.Background()
	h := util.Uint256{1, 2, 3}

	t.Run("halt", func(t *testing.T) {
		c := &testChain{blockCount: 10, log: appLog(vmstate.Halt, ""), appearsAt: 3}

		res, err := Await(ctx, newWaiter(t, c), h, 100)
		require.NoError(t, err)
		require.Equal(t, vmstate.Halt, res.VMState)
		require.Equal(t, 3, c.calls)
	})

	t.Run("fault", func(t *testing.T) {
		c := &testChain{blockCount: 10, log: appLog(vmstate.Fault, "invalid receiver")}

		res, err := Await(ctx, newWaiter(t, c), h, 100)
		require.NotNil(t, res)

		var fe FaultError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, "invalid receiver", fe.Exception)
		require.Equal(t, h, fe.Hash)
		require.Contains(t, err.Error(), "invalid receiver")
	})

	t.Run("expired", func(t *testing.T) {
		c := &testChain{blockCount: 102}

		_, err := Await(ctx, newWaiter(t, c), h, 100)
		require.ErrorIs(t, err, ErrTxExpired)
	})

	t.Run("persisted in the last block", func(t *testing.T) {
		c := &testChain{blockCount: 101, log: appLog(vmstate.Halt, "")}

		_, err := Await(ctx, newWaiter(t, c), h, 100)
		require.NoError(t, err)
	})

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Await(ctx, newWaiter(t, &testChain{blockCount: 1}), h, 100)
		require.ErrorIs(t, err, actor.ErrContextDone)
	})
}
