package vault

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DefaultIteratorBatch is the number of items fetched per iterator traversal.
const DefaultIteratorBatch = 100

// ItemsToPendingTransfers converts listTransactions iterator values.
func ItemsToPendingTransfers(items []stackitem.Item) ([]*VaultPendingTransfer, error) {
	res := make([]*VaultPendingTransfer, 0, len(items))
	for i := range items {
		tx, err := itemToVaultPendingTransfer(items[i], nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		res = append(res, tx)
	}

	return res, nil
}

// AllTransactions returns every live transfer of the owner's vault. It
// traverses session iterator and falls back to in-VM expansion of up to
// batch items if the server has sessions disabled.
func (c *ContractReader) AllTransactions(owner util.Uint160, batch int) ([]*VaultPendingTransfer, error) {
	if batch <= 0 {
		batch = DefaultIteratorBatch
	}

	sess, iter, err := c.ListTransactions(owner)
	if err != nil {
		if !errors.Is(err, unwrap.ErrNoSessionID) {
			return nil, err
		}

		items, err := c.ListTransactionsExpanded(owner, batch)
		if err != nil {
			return nil, err
		}

		return ItemsToPendingTransfers(items)
	}
	defer func() {
		_ = c.invoker.TerminateSession(sess)
	}()

	var res []*VaultPendingTransfer
	for {
		items, err := c.invoker.TraverseIterator(sess, &iter, batch)
		if err != nil {
			return nil, fmt.Errorf("traverse iterator: %w", err)
		}

		if len(items) == 0 {
			return res, nil
		}

		txs, err := ItemsToPendingTransfers(items)
		if err != nil {
			return nil, err
		}

		res = append(res, txs...)
	}
}
