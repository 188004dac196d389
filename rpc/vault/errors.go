package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neofs-vault/common"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
)

// Errors returned by ParseError for known contract exceptions.
var (
	ErrInvalidAmount              = errors.New(vaultconst.ErrInvalidAmount)
	ErrInvalidReceiver            = errors.New(vaultconst.ErrInvalidReceiver)
	ErrTransactionAlreadyExecuted = errors.New(vaultconst.ErrTransactionAlreadyExecuted)
	ErrTransactionNotFound        = errors.New(vaultconst.ErrTransactionNotFound)
	ErrTransactionExists          = errors.New(vaultconst.ErrTransactionExists)
	ErrVaultNotFound              = errors.New(vaultconst.ErrVaultNotFound)
	ErrOverflow                   = errors.New(vaultconst.ErrOverflow)
	ErrUnderflow                  = errors.New(vaultconst.ErrUnderflow)
	ErrInvalidSeed                = errors.New(vaultconst.ErrInvalidSeed)
	ErrInvalidOwner               = errors.New(vaultconst.ErrInvalidOwner)
	ErrTransferFailed             = errors.New(vaultconst.ErrTransferFailed)
	ErrUnknownConfig              = errors.New(vaultconst.ErrUnknownConfig)
	ErrInvalidConfig              = errors.New(vaultconst.ErrInvalidConfig)
	ErrOnlyGAS                    = errors.New(vaultconst.ErrOnlyGAS)
	ErrAlreadyUpdated             = errors.New(common.ErrAlreadyUpdated)
	ErrVersionMismatch            = errors.New(common.ErrVersionMismatch)
	ErrWitnessFailed              = errors.New(common.ErrOwnerWitnessFailed)
	ErrCommitteeWitnessFailed     = errors.New(common.ErrCommitteeWitnessFailed)
)

var knownErrors = []error{
	ErrInvalidAmount,
	ErrInvalidReceiver,
	ErrTransactionAlreadyExecuted,
	ErrTransactionNotFound,
	ErrTransactionExists,
	ErrVaultNotFound,
	ErrOverflow,
	ErrUnderflow,
	ErrInvalidSeed,
	ErrInvalidOwner,
	ErrTransferFailed,
	ErrUnknownConfig,
	ErrInvalidConfig,
	ErrOnlyGAS,
	ErrAlreadyUpdated,
	ErrVersionMismatch,
	ErrWitnessFailed,
	ErrCommitteeWitnessFailed,
}

// ParseError matches contract exception carried by err (usually a FAULT
// reported by RPC invocation) with one of the exported errors. The result
// wraps both, so errors.Is works with the exported value. Unknown errors are
// returned as is.
func ParseError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, known := range knownErrors {
		if strings.Contains(msg, known.Error()) {
			return fmt.Errorf("%w: %v", known, err)
		}
	}

	return err
}
