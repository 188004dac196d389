package vault

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neofs-vault/vault/vaultconst"
)

// ErrInvalidSeedLength is returned by DeriveTransactionAddress for seeds the
// contract rejects.
var ErrInvalidSeedLength = errors.New("transaction seed must be 1 to 32 bytes long")

// DeriveVaultAddress computes vault address of the owner locally. The result
// is equal to the one returned by VaultAddress contract method.
func DeriveVaultAddress(owner util.Uint160) util.Uint160 {
	return hash.Hash160(append([]byte(vaultconst.VaultNamespace), owner.BytesBE()...))
}

// DeriveTransactionAddress computes address of the pending transfer with the
// given seed in the owner's vault. The result is equal to the one returned by
// TransactionAddress contract method.
func DeriveTransactionAddress(owner util.Uint160, seed string) (util.Uint160, error) {
	if len(seed) == 0 || len(seed) > vaultconst.MaxSeedLength {
		return util.Uint160{}, ErrInvalidSeedLength
	}

	vaultAddr := DeriveVaultAddress(owner)

	return hash.Hash160(append([]byte(seed), vaultAddr.BytesBE()...)), nil
}

// EncodeAddress returns textual form of the derived address used in logs and
// CLI output.
func EncodeAddress(addr util.Uint160) string {
	return base58.Encode(addr.BytesBE())
}

// DecodeAddress parses address produced by EncodeAddress.
func DecodeAddress(s string) (util.Uint160, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return util.Uint160{}, err
	}

	return util.Uint160DecodeBytesBE(b)
}
