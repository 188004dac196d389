package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neofs-vault/common"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
)

// PendingTransfer is a transfer staged by the vault owner. It is executed
// at most once and removed right after the execution.
type PendingTransfer struct {
	// Seed chosen by the owner, unique among live transfers of the vault.
	Seed string
	// Receiver of the funds.
	Receiver interop.Hash160
	// Amount of GAS fractions to move.
	Amount int
	// Executed is a replay guard.
	Executed bool
	// Lease paid by the owner, returned when the transfer is closed.
	Lease int
}

const transferPrefix = 't'

// deriveTransferAddress scopes the seed to a single vault, so different
// owners never collide on the same seed.
func deriveTransferAddress(seed string, vaultAddr interop.Hash160) interop.Hash160 {
	return hash160(append([]byte(seed), vaultAddr...))
}

func transferKey(vaultAddr, transferAddr interop.Hash160) []byte {
	key := append([]byte{transferPrefix}, vaultAddr...)
	return append(key, transferAddr...)
}

func checkSeed(seed string) {
	if len(seed) == 0 || len(seed) > vaultconst.MaxSeedLength {
		panic(vaultconst.ErrInvalidSeed)
	}
}

func sameAccount(a, b interop.Hash160) bool {
	return string(a) == string(b)
}

func loadTransfer(ctx storage.Context, key []byte) PendingTransfer {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(vaultconst.ErrTransactionNotFound)
	}

	return std.Deserialize(data.([]byte)).(PendingTransfer)
}

// createTransfer allocates a new pending transfer record of the owner's vault.
func createTransfer(ctx storage.Context, owner interop.Hash160, seed string, receiver interop.Hash160, amount int) PendingTransfer {
	checkAmount(amount)
	checkSeed(seed)

	if len(receiver) != interop.Hash160Len {
		panic(vaultconst.ErrInvalidReceiver)
	}

	vaultAddr := deriveVaultAddress(owner)
	if !vaultExists(ctx, vaultAddr) {
		panic(vaultconst.ErrVaultNotFound)
	}

	key := transferKey(vaultAddr, deriveTransferAddress(seed, vaultAddr))
	if storage.Get(ctx, key) != nil {
		panic(vaultconst.ErrTransactionExists)
	}

	lease := getConfigInt(ctx, vaultconst.TransferLeaseKey, 0)
	chargeLease(owner, lease)

	tx := PendingTransfer{
		Seed:     seed,
		Receiver: receiver,
		Amount:   amount,
		Executed: false,
		Lease:    lease,
	}
	common.SetSerialized(ctx, key, tx)

	runtime.Log("transaction created")

	return tx
}

// executeTransfer moves the staged amount from the owner's vault to the
// receiver and closes the record. The replay guard is persisted before any
// value moves.
func executeTransfer(ctx storage.Context, owner interop.Hash160, seed string, receiver interop.Hash160) PendingTransfer {
	checkSeed(seed)

	vaultAddr := deriveVaultAddress(owner)
	key := transferKey(vaultAddr, deriveTransferAddress(seed, vaultAddr))

	tx := loadTransfer(ctx, key)
	if tx.Executed {
		panic(vaultconst.ErrTransactionAlreadyExecuted)
	}

	if !sameAccount(tx.Receiver, receiver) {
		panic(vaultconst.ErrInvalidReceiver)
	}

	tx.Executed = true
	common.SetSerialized(ctx, key, tx)

	v, ok := loadVault(ctx, vaultAddr)
	if !ok {
		panic(vaultconst.ErrVaultNotFound)
	}

	v = debit(v, tx.Amount)
	storeVault(ctx, vaultAddr, v)

	sendGAS(runtime.GetExecutingScriptHash(), tx.Receiver, tx.Amount, nil)

	storage.Delete(ctx, key)
	refundLease(owner, tx.Lease)

	runtime.Log("transaction executed")

	return tx
}

// listTransfers returns an iterator over live transfers of the owner's vault.
func listTransfers(ctx storage.Context, owner interop.Hash160) iterator.Iterator {
	prefix := append([]byte{transferPrefix}, deriveVaultAddress(owner)...)
	return storage.Find(ctx, prefix, storage.ValuesOnly|storage.DeserializeValues)
}
