// Package chain provides helpers for Neo RPC interaction shared by the
// Vault tooling.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// ErrTxExpired is returned by Await when the transaction was not accepted
// before its ValidUntilBlock.
var ErrTxExpired = errors.New("transaction expired")

// FaultError describes transaction accepted to the chain with FAULT state.
type FaultError struct {
	Hash      util.Uint256
	Exception string
}

func (e FaultError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Hash.StringLE(), e.Exception)
}

// Dial opens connection to the Neo RPC server and initializes the client.
// Connection and all requests are done within given timeout.
func Dial(ctx context.Context, endpoint string, timeout time.Duration) (*rpcclient.Client, error) {
	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return c, nil
}

// DialWS is similar to Dial but opens WebSocket connection required for
// notification subscriptions.
func DialWS(ctx context.Context, endpoint string, timeout time.Duration) (*rpcclient.WSClient, error) {
	c, err := rpcclient.NewWS(ctx, endpoint, rpcclient.WSOptions{
		Options: rpcclient.Options{
			DialTimeout:    timeout,
			RequestTimeout: timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("WS RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("WS RPC client init: %w", err)
	}

	return c, nil
}

// Await waits for the transaction using w (usually the *actor.Actor which
// sent it). It returns the execution result of the transaction, FaultError if
// it was persisted with FAULT state and ErrTxExpired if the chain passed vub
// without it.
func Await(ctx context.Context, w actor.Waiter, h util.Uint256, vub uint32) (*state.AppExecResult, error) {
	res, err := w.WaitAny(ctx, vub, h)
	if err != nil {
		if errors.Is(err, actor.ErrTxNotAccepted) {
			return nil, fmt.Errorf("%w: %s", ErrTxExpired, h.StringLE())
		}

		return nil, fmt.Errorf("await transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return res, FaultError{Hash: h, Exception: res.FaultException}
	}

	return res, nil
}
