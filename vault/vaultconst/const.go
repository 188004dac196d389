// Package vaultconst contains constants shared by the Vault contract and
// its off-chain clients.
package vaultconst

const (
	// VaultNamespace is a tag mixed into every vault address derivation.
	VaultNamespace = "vault"

	// MaxSeedLength is the maximum length of a transaction seed in bytes.
	MaxSeedLength = 32
)

// Configuration keys of the Vault contract. Values are integers.
const (
	// VaultLeaseKey is a GAS amount charged to the owner when a vault
	// is allocated.
	VaultLeaseKey = "VaultLease"
	// TransferLeaseKey is a GAS amount charged to the owner when a pending
	// transaction is created. It is refunded when the transaction is closed.
	TransferLeaseKey = "TransferLease"
	// MaxBalanceKey is an upper bound of a single vault balance.
	MaxBalanceKey = "MaxBalance"

	// DefaultMaxBalance is used when MaxBalanceKey is not configured.
	DefaultMaxBalance = 1<<63 - 1
)

// Notification names.
const (
	DepositNotification            = "Deposit"
	WithdrawNotification           = "Withdraw"
	SubmitTransactionNotification  = "SubmitTransaction"
	ExecuteTransactionNotification = "ExecuteTransaction"
	SetConfigNotification          = "SetConfig"
)

// Exception messages thrown by the contract.
const (
	ErrInvalidAmount              = "invalid amount, must be greater than 0"
	ErrInvalidReceiver            = "invalid receiver"
	ErrTransactionAlreadyExecuted = "the provided transaction was already executed"
	ErrTransactionNotFound        = "transaction not found"
	ErrTransactionExists          = "transaction already exists"
	ErrVaultNotFound              = "vault not found"
	ErrOverflow                   = "arithmetic overflow"
	ErrUnderflow                  = "arithmetic underflow"
	ErrInvalidSeed                = "invalid transaction seed"
	ErrInvalidOwner               = "invalid owner"
	ErrTransferFailed             = "GAS transfer failed"
	ErrOnlyGAS                    = "only GAS can be accepted"
	ErrUnknownConfig              = "unknown configuration key"
	ErrInvalidConfig              = "invalid configuration value"
)
