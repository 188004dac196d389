package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neofs-vault/common"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
)

const (
	configPrefix = "config"

	// internalPayment marks GAS transfers made by the contract itself, so
	// OnNEP17Payment does not credit them twice.
	internalPayment = "internal"

	// byteStringType is the type prefix of serialized ByteString items.
	byteStringType = 0x28
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data != nil {
		args := data.(struct {
			config []any
		})

		ln := len(args.config)
		if ln%2 != 0 {
			panic("bad configuration")
		}

		for i := 0; i < ln/2; i++ {
			key := args.config[i*2].(string)
			val := args.config[i*2+1].(int)

			setConfig(ctx, key, val)
		}
	}

	runtime.Log("vault contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("vault contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// A direct payment credits the vault of the sender or the vault of the
// account passed in data. A vault allocated this way is paid for from the
// payment itself.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic(vaultconst.ErrOnlyGAS)
	}

	var rcv interop.Hash160

	if data == nil {
		if len(from) != interop.Hash160Len {
			panic(vaultconst.ErrInvalidOwner)
		}
		rcv = from
	} else {
		if !isByteString(data) {
			panic(vaultconst.ErrInvalidOwner)
		}

		if data.(string) == internalPayment {
			return
		}

		rcv = data.(interop.Hash160)
		if len(rcv) != interop.Hash160Len {
			panic(vaultconst.ErrInvalidOwner)
		}
	}

	checkAmount(amount)

	ctx := storage.GetContext()
	addr := deriveVaultAddress(rcv)

	v, ok := loadVault(ctx, addr)
	if !ok {
		lease := getConfigInt(ctx, vaultconst.VaultLeaseKey, 0)
		if amount <= lease {
			panic(vaultconst.ErrInvalidAmount)
		}

		amount -= lease
		v = Vault{Balance: 0, Lease: lease}
		runtime.Log("vault allocated")
	}

	v = credit(ctx, v, amount)
	storeVault(ctx, addr, v)

	runtime.Notify("Deposit", rcv, amount, v.Balance)
}

// isByteString checks the stack item type of data, an Integer of 20 bytes is
// not an account.
func isByteString(data any) bool {
	raw := std.Serialize(data)
	return raw[0] == byteStringType
}

// Deposit method moves amount of GAS from the owner account to the owner's
// vault. The vault is allocated on first deposit. Owner witness is required.
//
// Produces Deposit notification.
func Deposit(owner interop.Hash160, amount int) {
	checkOwner(owner)
	checkAmount(amount)

	ctx := storage.GetContext()
	v := getOrCreateVault(ctx, owner)

	sendGAS(owner, runtime.GetExecutingScriptHash(), amount, internalPayment)

	v = credit(ctx, v, amount)
	storeVault(ctx, deriveVaultAddress(owner), v)

	runtime.Notify("Deposit", owner, amount, v.Balance)
}

// Withdraw method moves amount of GAS from the owner's vault back to the
// owner account. Owner witness is required.
//
// Produces Withdraw notification.
func Withdraw(owner interop.Hash160, amount int) {
	checkOwner(owner)
	checkAmount(amount)

	ctx := storage.GetContext()
	addr := deriveVaultAddress(owner)

	v, _ := loadVault(ctx, addr)
	v = debit(v, amount)
	storeVault(ctx, addr, v)

	sendGAS(runtime.GetExecutingScriptHash(), owner, amount, nil)

	runtime.Notify("Withdraw", owner, amount, v.Balance)
}

// CreateTransaction method stages a transfer of amount from the owner's
// vault to the receiver. Seed identifies the transfer within the vault.
// Funds are not reserved, they are checked on execution. Owner witness is
// required.
//
// Produces SubmitTransaction notification.
func CreateTransaction(owner interop.Hash160, seed string, receiver interop.Hash160, amount int) {
	checkOwner(owner)

	ctx := storage.GetContext()
	createTransfer(ctx, owner, seed, receiver, amount)

	runtime.Notify("SubmitTransaction", owner, receiver, amount)
}

// ExecuteTransaction method executes the pending transfer identified by
// seed. Receiver must match the one stored in the transfer. The record is
// removed after execution and its lease is returned to the owner. Owner
// witness is required.
//
// Produces ExecuteTransaction notification.
func ExecuteTransaction(owner interop.Hash160, seed string, receiver interop.Hash160) {
	checkOwner(owner)

	ctx := storage.GetContext()
	executeTransfer(ctx, owner, seed, receiver)

	runtime.Notify("ExecuteTransaction", owner)
}

// BalanceOf method returns the balance of the owner's vault. Missing vault
// has zero balance.
func BalanceOf(owner interop.Hash160) int {
	v, _ := loadVault(storage.GetReadOnlyContext(), deriveVaultAddress(owner))
	return v.Balance
}

// VaultAddress method returns the address of the owner's vault.
func VaultAddress(owner interop.Hash160) interop.Hash160 {
	return deriveVaultAddress(owner)
}

// TransactionAddress method returns the address of the transfer with the
// given seed in the owner's vault.
func TransactionAddress(owner interop.Hash160, seed string) interop.Hash160 {
	checkSeed(seed)
	return deriveTransferAddress(seed, deriveVaultAddress(owner))
}

// GetTransaction method returns the live transfer with the given seed.
func GetTransaction(owner interop.Hash160, seed string) PendingTransfer {
	checkSeed(seed)

	vaultAddr := deriveVaultAddress(owner)
	key := transferKey(vaultAddr, deriveTransferAddress(seed, vaultAddr))

	return loadTransfer(storage.GetReadOnlyContext(), key)
}

// ListTransactions method returns an iterator over live transfers of the
// owner's vault.
func ListTransactions(owner interop.Hash160) iterator.Iterator {
	return listTransfers(storage.GetReadOnlyContext(), owner)
}

// Config returns configuration value of the contract. Keys that were never
// set return their default value.
func Config(key string) int {
	ctx := storage.GetReadOnlyContext()

	switch key {
	case vaultconst.VaultLeaseKey, vaultconst.TransferLeaseKey:
		return getConfigInt(ctx, key, 0)
	case vaultconst.MaxBalanceKey:
		return getConfigInt(ctx, key, vaultconst.DefaultMaxBalance)
	default:
		panic(vaultconst.ErrUnknownConfig)
	}
}

// SetConfig key-value pair as a contract configuration. It can be invoked
// only by committee.
//
// Produces SetConfig notification.
func SetConfig(key string, val int) {
	common.CheckCommitteeWitness()

	ctx := storage.GetContext()
	setConfig(ctx, key, val)

	runtime.Notify("SetConfig", key, val)
	runtime.Log("configuration has been updated")
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func checkOwner(owner interop.Hash160) {
	if len(owner) != interop.Hash160Len {
		panic(vaultconst.ErrInvalidOwner)
	}

	common.CheckOwnerWitness(owner)
}

func getConfigInt(ctx storage.Context, key string, def int) int {
	val := storage.Get(ctx, configPrefix+key)
	if val == nil {
		return def
	}

	return val.(int)
}

func setConfig(ctx storage.Context, key string, val int) {
	switch key {
	case vaultconst.VaultLeaseKey, vaultconst.TransferLeaseKey:
		if val < 0 {
			panic(vaultconst.ErrInvalidConfig)
		}
	case vaultconst.MaxBalanceKey:
		if val <= 0 {
			panic(vaultconst.ErrInvalidConfig)
		}
	default:
		panic(vaultconst.ErrUnknownConfig)
	}

	storage.Put(ctx, configPrefix+key, val)
}
