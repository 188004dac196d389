// Package monitor follows Vault contract notifications, logs them and
// exports Prometheus metrics.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	vaultrpc "github.com/nspcc-dev/neofs-vault/rpc/vault"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
	"go.uber.org/zap"
)

// ErrChannelClosed is returned by Run when the notification channel is
// closed, usually because of lost connection.
var ErrChannelClosed = errors.New("notification channel closed")

// Monitor processes notifications of a single Vault contract.
type Monitor struct {
	log      *zap.Logger
	contract util.Uint160
	metrics  *Metrics
}

// New creates Monitor of the contract.
func New(log *zap.Logger, contract util.Uint160, m *Metrics) *Monitor {
	return &Monitor{
		log:      log.With(zap.String("contract", contract.StringLE())),
		contract: contract,
		metrics:  m,
	}
}

// Run handles notifications from ch until ctx is done or ch is closed.
// Malformed notifications are logged and skipped.
func (m *Monitor) Run(ctx context.Context, ch <-chan *state.ContainedNotificationEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return ErrChannelClosed
			}

			if err := m.Handle(ev); err != nil {
				m.log.Warn("skip malformed notification",
					zap.Stringer("tx", ev.Container), zap.String("event", ev.Name), zap.Error(err))
			}
		}
	}
}

// Handle processes a single notification. Notifications of other contracts
// and unknown events are ignored.
func (m *Monitor) Handle(ev *state.ContainedNotificationEvent) error {
	if !ev.ScriptHash.Equals(m.contract) {
		return nil
	}

	l := m.log.With(zap.Stringer("tx", ev.Container))

	var err error
	switch ev.Name {
	case vaultconst.DepositNotification:
		var e vaultrpc.DepositEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			m.metrics.deposited.Add(gas(e.Amount))
			l.Info("deposit", ownerFields(e.Owner,
				zap.Stringer("amount", e.Amount), zap.Stringer("balance", e.Balance))...)
		}
	case vaultconst.WithdrawNotification:
		var e vaultrpc.WithdrawEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			m.metrics.withdrawn.Add(gas(e.Amount))
			l.Info("withdraw", ownerFields(e.Owner,
				zap.Stringer("amount", e.Amount), zap.Stringer("balance", e.Balance))...)
		}
	case vaultconst.SubmitTransactionNotification:
		var e vaultrpc.SubmitTransactionEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			m.metrics.submitted.Add(gas(e.Amount))
			l.Info("transaction submitted", ownerFields(e.Owner,
				zap.String("receiver", address.Uint160ToString(e.Receiver)), zap.Stringer("amount", e.Amount))...)
		}
	case vaultconst.ExecuteTransactionNotification:
		var e vaultrpc.ExecuteTransactionEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("transaction executed", ownerFields(e.Owner)...)
		}
	case vaultconst.SetConfigNotification:
		var e vaultrpc.SetConfigEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("configuration changed", zap.String("key", e.Key), zap.Stringer("value", e.Value))
		}
	default:
		l.Debug("unknown notification", zap.String("event", ev.Name))
		return nil
	}

	if err != nil {
		m.metrics.decodeErrors.Inc()
		return fmt.Errorf("decode %s notification: %w", ev.Name, err)
	}

	m.metrics.events.WithLabelValues(ev.Name).Inc()

	return nil
}

func ownerFields(owner util.Uint160, fields ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("owner", address.Uint160ToString(owner)),
		zap.String("vault", vaultrpc.EncodeAddress(vaultrpc.DeriveVaultAddress(owner))),
	}, fields...)
}
