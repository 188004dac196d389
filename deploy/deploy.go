// Package deploy provides deployment of the Vault contract to a Neo network.
package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/neofs-vault/contracts"
	"github.com/nspcc-dev/neofs-vault/internal/chain"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Vault contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// RPCPollingWaiter is used to await deployment transaction.
	actor.RPCPollingWaiter

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Config groups initial configuration of the Vault contract. Zero values
// are not passed to the contract, so its defaults apply.
type Config struct {
	// VaultLease is charged to the owner on vault allocation.
	VaultLease int64
	// TransferLease is charged to the owner on pending transfer creation
	// and returned when the transfer is closed.
	TransferLease int64
	// MaxBalance limits vault balance.
	MaxBalance int64
}

// Prm groups all parameters of the Vault deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It also pays for the deployment and determines contract address.
	LocalAccount *wallet.Account

	// Contract to deploy.
	Contract contracts.Contract

	Config Config
}

// Address returns the address the contract gets when deployed by the local
// account.
func (p Prm) Address() util.Uint160 {
	return state.CreateContractHash(p.LocalAccount.ScriptHash(), p.Contract.NEF.Checksum, p.Contract.Manifest.Name)
}

// Deploy deploys the Vault contract to the chain and waits for the
// transaction to be accepted. Deploy is idempotent: if the contract with the
// same sender, NEF and name is already on chain, it is returned as is.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	addr := prm.Address()
	l := prm.Logger.With(zap.Stringer("address", addr), zap.String("name", prm.Contract.Manifest.Name))

	deployed, err := isDeployed(prm.Blockchain, addr)
	if err != nil {
		return addr, err
	}

	if deployed {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return addr, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	l.Info("sending deployment transaction...")

	txHash, vub, err := management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, deployData(prm.Config))
	if err != nil {
		return addr, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Info("deployment transaction sent, waiting for it to be accepted",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	_, err = chain.Await(ctx, act, txHash, vub)
	if err != nil {
		return addr, fmt.Errorf("await deployment transaction: %w", err)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

func isDeployed(b Blockchain, addr util.Uint160) (bool, error) {
	st, err := b.GetContractStateByHash(addr)
	if err != nil {
		if isErrContractNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("get contract state by hash '%s': %w", addr.StringLE(), err)
	}

	return st != nil, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// deployData builds the argument of the contract _deploy method.
func deployData(cfg Config) any {
	var pairs []any

	if cfg.VaultLease != 0 {
		pairs = append(pairs, vaultconst.VaultLeaseKey, cfg.VaultLease)
	}

	if cfg.TransferLease != 0 {
		pairs = append(pairs, vaultconst.TransferLeaseKey, cfg.TransferLease)
	}

	if cfg.MaxBalance != 0 {
		pairs = append(pairs, vaultconst.MaxBalanceKey, cfg.MaxBalance)
	}

	if len(pairs) == 0 {
		return nil
	}

	return []any{pairs}
}
