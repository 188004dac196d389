package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// OwnerSigner returns the signer of the vault owner for state-changing
// calls. Deposits and leases transfer GAS from the owner inside the
// contract, so the owner witness is extended to the GAS contract in addition
// to the CalledByEntry scope.
func OwnerSigner(acc *wallet.Account) actor.SignerAccount {
	return actor.SignerAccount{
		Signer: transaction.Signer{
			Account:          acc.ScriptHash(),
			Scopes:           transaction.CalledByEntry | transaction.CustomContracts,
			AllowedContracts: []util.Uint160{gas.Hash},
		},
		Account: acc,
	}
}

// NewOwnerActor creates an actor signing transactions with OwnerSigner.
func NewOwnerActor(ra actor.RPCActor, acc *wallet.Account) (*actor.Actor, error) {
	return actor.New(ra, []actor.SignerAccount{OwnerSigner(acc)})
}
