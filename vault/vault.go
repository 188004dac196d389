package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neofs-vault/common"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
)

// Vault is a balance-holding sub-account of a single owner.
type Vault struct {
	// Balance in GAS fractions.
	Balance int
	// Lease paid by the owner when the vault was allocated.
	Lease int
}

const vaultPrefix = 'v'

// hash160 is a RIPEMD160(SHA256(data)) digest, the same function Neo uses
// for script hashes.
func hash160(data []byte) interop.Hash160 {
	return crypto.Ripemd160(crypto.Sha256(data))
}

// deriveVaultAddress returns the vault address of the owner. The address
// is never stored, it is recomputed on every access.
func deriveVaultAddress(owner interop.Hash160) interop.Hash160 {
	return hash160(append([]byte(vaultconst.VaultNamespace), owner...))
}

func vaultKey(addr interop.Hash160) []byte {
	return append([]byte{vaultPrefix}, addr...)
}

func vaultExists(ctx storage.Context, addr interop.Hash160) bool {
	return storage.Get(ctx, vaultKey(addr)) != nil
}

// loadVault returns the vault stored at addr. Missing vault is returned as
// an empty one along with false.
func loadVault(ctx storage.Context, addr interop.Hash160) (Vault, bool) {
	data := storage.Get(ctx, vaultKey(addr))
	if data == nil {
		return Vault{}, false
	}

	return std.Deserialize(data.([]byte)).(Vault), true
}

func storeVault(ctx storage.Context, addr interop.Hash160, v Vault) {
	common.SetSerialized(ctx, vaultKey(addr), v)
}

// getOrCreateVault returns the owner's vault allocating it on first use.
// Allocation charges the configured vault lease to the owner.
func getOrCreateVault(ctx storage.Context, owner interop.Hash160) Vault {
	addr := deriveVaultAddress(owner)

	v, ok := loadVault(ctx, addr)
	if ok {
		return v
	}

	lease := getConfigInt(ctx, vaultconst.VaultLeaseKey, 0)
	chargeLease(owner, lease)

	v = Vault{Balance: 0, Lease: lease}
	storeVault(ctx, addr, v)

	runtime.Log("vault allocated")

	return v
}

// credit increases vault balance. The result is bounded by the configured
// MaxBalance.
func credit(ctx storage.Context, v Vault, amount int) Vault {
	checkAmount(amount)

	limit := getConfigInt(ctx, vaultconst.MaxBalanceKey, vaultconst.DefaultMaxBalance)
	if v.Balance > limit-amount {
		panic(vaultconst.ErrOverflow)
	}

	v.Balance += amount

	return v
}

// debit decreases vault balance, it never goes below zero.
func debit(v Vault, amount int) Vault {
	checkAmount(amount)

	if amount > v.Balance {
		panic(vaultconst.ErrUnderflow)
	}

	v.Balance -= amount

	return v
}

func checkAmount(amount int) {
	if amount <= 0 {
		panic(vaultconst.ErrInvalidAmount)
	}
}

// sendGAS moves native GAS between accounts at the host level.
func sendGAS(from, to interop.Hash160, amount int, data any) {
	if !gas.Transfer(from, to, amount, data) {
		panic(vaultconst.ErrTransferFailed)
	}
}

func chargeLease(payer interop.Hash160, lease int) {
	if lease > 0 {
		sendGAS(payer, runtime.GetExecutingScriptHash(), lease, internalPayment)
	}
}

func refundLease(payee interop.Hash160, lease int) {
	if lease > 0 {
		sendGAS(runtime.GetExecutingScriptHash(), payee, lease, nil)
	}
}
