package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/neofs-vault/internal/chain"
	vaultrpc "github.com/nspcc-dev/neofs-vault/rpc/vault"
	"github.com/urfave/cli"
)

// gasPrecision is the number of GAS decimals.
const gasPrecision = 8

var errMissingFlag = errors.New("missing required flag")

// parseAmount parses decimal GAS amount into fractions.
func parseAmount(s string) (*big.Int, error) {
	v, err := fixedn.FromString(s, gasPrecision)
	if err != nil {
		return nil, fmt.Errorf("invalid amount '%s': %w", s, err)
	}

	return v, nil
}

func formatAmount(v *big.Int) string {
	return fixedn.ToString(v, gasPrecision)
}

// parseAccount accepts both Neo address and LE script hash.
func parseAccount(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid account '%s': neither address nor script hash", s)
	}

	return h, nil
}

func requiredGlobal(c *cli.Context, name string) (string, error) {
	v := c.GlobalString(name)
	if v == "" {
		return "", fmt.Errorf("%w: --%s", errMissingFlag, name)
	}

	return v, nil
}

func contractHash(c *cli.Context) (util.Uint160, error) {
	s, err := requiredGlobal(c, contractFlag)
	if err != nil {
		return util.Uint160{}, err
	}

	return parseAccount(s)
}

func dial(ctx context.Context, c *cli.Context) (*rpcclient.Client, error) {
	endpoint, err := requiredGlobal(c, rpcFlag)
	if err != nil {
		return nil, err
	}

	return chain.Dial(ctx, endpoint, c.GlobalDuration(timeoutFlag))
}

// loadAccount opens the wallet and decrypts the selected account.
func loadAccount(c *cli.Context) (*wallet.Account, error) {
	path, err := requiredGlobal(c, walletFlag)
	if err != nil {
		return nil, err
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	h := w.GetChangeAddress()
	if s := c.GlobalString(accountFlag); s != "" {
		h, err = parseAccount(s)
		if err != nil {
			return nil, err
		}
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s not found in the wallet", address.Uint160ToString(h))
	}

	err = acc.Decrypt(c.GlobalString(passwordFlag), w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

// ownerArg returns the account passed as i-th argument or the wallet
// account if there is no such argument.
func ownerArg(c *cli.Context, i int) (util.Uint160, error) {
	if s := c.Args().Get(i); s != "" {
		return parseAccount(s)
	}

	acc, err := loadAccount(c)
	if err != nil {
		return util.Uint160{}, err
	}

	return acc.ScriptHash(), nil
}

// session groups RPC connection and contract wrappers for one command run.
type session struct {
	client *rpcclient.Client
	reader *vaultrpc.ContractReader
	writer *vaultrpc.Contract
	actor  *actor.Actor
	acc    *wallet.Account
}

func newReadSession(ctx context.Context, c *cli.Context) (*session, error) {
	h, err := contractHash(c)
	if err != nil {
		return nil, err
	}

	cl, err := dial(ctx, c)
	if err != nil {
		return nil, err
	}

	return &session{
		client: cl,
		reader: vaultrpc.NewReader(invoker.New(cl, nil), h),
	}, nil
}

func newWriteSession(ctx context.Context, c *cli.Context) (*session, error) {
	h, err := contractHash(c)
	if err != nil {
		return nil, err
	}

	acc, err := loadAccount(c)
	if err != nil {
		return nil, err
	}

	cl, err := dial(ctx, c)
	if err != nil {
		return nil, err
	}

	act, err := vaultrpc.NewOwnerActor(cl, acc)
	if err != nil {
		cl.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	w := vaultrpc.New(act, h)

	return &session{
		client: cl,
		reader: &w.ContractReader,
		writer: w,
		actor:  act,
		acc:    acc,
	}, nil
}

func (s *session) close() {
	s.client.Close()
}

// await waits for the transaction and maps contract exceptions to errors
// of the binding package.
func (s *session) await(ctx context.Context, h util.Uint256, vub uint32, err error) error {
	if err != nil {
		return vaultrpc.ParseError(err)
	}

	_, err = chain.Await(ctx, s.actor, h, vub)

	return vaultrpc.ParseError(err)
}
