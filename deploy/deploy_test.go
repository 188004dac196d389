package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/neofs-vault/contracts"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stateBlockchain implements GetContractStateByHash only, other methods
// panic via nil embedded interface.
type stateBlockchain struct {
	Blockchain

	st  *state.Contract
	err error
}

func (b stateBlockchain) GetContractStateByHash(util.Uint160) (*state.Contract, error) {
	return b.st, b.err
}

func testPrm(t *testing.T, b Blockchain) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	ne, err := nef.NewFile(make([]byte, 32))
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   b,
		LocalAccount: acc,
		Contract: contracts.Contract{
			NEF:      *ne,
			Manifest: *manifest.NewManifest("Vault"),
		},
	}
}

func TestDeployAlreadyDeployed(t *testing.T) {
	b := stateBlockchain{st: new(state.Contract)}
	prm := testPrm(t, b)

	addr, err := Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.Contract.NEF.Checksum, "Vault"), addr)
}

func TestDeployStateError(t *testing.T) {
	b := stateBlockchain{err: errors.New("connection reset")}

	_, err := Deploy(context.Background(), testPrm(t, b))
	require.ErrorContains(t, err, "connection reset")
}

func TestIsDeployed(t *testing.T) {
	ok, err := isDeployed(stateBlockchain{err: errors.New("Unknown contract")}, util.Uint160{})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = isDeployed(stateBlockchain{st: new(state.Contract)}, util.Uint160{})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeployData(t *testing.T) {
	require.Nil(t, deployData(Config{}))

	require.Equal(t, []any{[]any{
		vaultconst.VaultLeaseKey, int64(10),
		vaultconst.MaxBalanceKey, int64(1000),
	}}, deployData(Config{VaultLease: 10, MaxBalance: 1000}))

	require.Equal(t, []any{[]any{
		vaultconst.VaultLeaseKey, int64(1),
		vaultconst.TransferLeaseKey, int64(2),
		vaultconst.MaxBalanceKey, int64(3),
	}}, deployData(Config{VaultLease: 1, TransferLease: 2, MaxBalance: 3}))
}
