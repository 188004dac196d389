package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neofs-vault/contracts"
	"github.com/nspcc-dev/neofs-vault/deploy"
	"github.com/nspcc-dev/neofs-vault/internal/chain"
	"github.com/nspcc-dev/neofs-vault/monitor"
	vaultrpc "github.com/nspcc-dev/neofs-vault/rpc/vault"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func commands() []cli.Command {
	return []cli.Command{
		{
			Name:      "balance",
			Usage:     "Print vault balance",
			ArgsUsage: "[owner]",
			Action:    balanceAction,
		},
		{
			Name:      "address",
			Usage:     "Print vault address and, if seed is given, pending transaction address",
			ArgsUsage: "<owner> [seed]",
			Action:    addressAction,
		},
		{
			Name:      "deposit",
			Usage:     "Move GAS from the wallet account to its vault",
			ArgsUsage: "<amount>",
			Action:    amountAction("deposit", (*vaultrpc.Contract).Deposit),
		},
		{
			Name:      "withdraw",
			Usage:     "Move GAS from the vault back to the wallet account",
			ArgsUsage: "<amount>",
			Action:    amountAction("withdraw", (*vaultrpc.Contract).Withdraw),
		},
		{
			Name:      "create-transaction",
			Usage:     "Stage a transfer from the vault",
			ArgsUsage: "<seed> <receiver> <amount>",
			Action:    createTransactionAction,
		},
		{
			Name:      "execute-transaction",
			Usage:     "Execute a staged transfer",
			ArgsUsage: "<seed> <receiver>",
			Action:    executeTransactionAction,
		},
		{
			Name:      "get-transaction",
			Usage:     "Print a staged transfer",
			ArgsUsage: "<seed> [owner]",
			Action:    getTransactionAction,
		},
		{
			Name:      "list-transactions",
			Usage:     "Print all staged transfers of the vault",
			ArgsUsage: "[owner]",
			Action:    listTransactionsAction,
		},
		{
			Name:  "deploy",
			Usage: "Deploy the contract signed by the wallet account",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "artifacts", Usage: "Directory with compiled contract.nef and manifest.json"},
				cli.StringFlag{Name: "src", Usage: "Directory with contract sources to compile"},
				cli.Int64Flag{Name: "vault-lease", Usage: "GAS fractions charged on vault allocation"},
				cli.Int64Flag{Name: "transfer-lease", Usage: "GAS fractions charged on pending transfer creation"},
				cli.Int64Flag{Name: "max-balance", Usage: "Vault balance limit in GAS fractions"},
			},
			Action: deployAction,
		},
		{
			Name:  "monitor",
			Usage: "Follow contract notifications and serve Prometheus metrics",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "metrics", Usage: "Metrics listen address", Value: ":9090"},
			},
			Action: monitorAction,
		},
	}
}

func balanceAction(c *cli.Context) error {
	owner, err := ownerArg(c, 0)
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := newReadSession(ctx, c)
	if err != nil {
		return err
	}
	defer s.close()

	b, err := s.reader.BalanceOf(owner)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	fmt.Fprintln(c.App.Writer, formatAmount(b))

	return nil
}

func addressAction(c *cli.Context) error {
	if !c.Args().Present() {
		return cli.NewExitError("owner is required", 1)
	}

	owner, err := parseAccount(c.Args().First())
	if err != nil {
		return err
	}

	vaultAddr := vaultrpc.DeriveVaultAddress(owner)
	fmt.Fprintf(c.App.Writer, "vault: %s (%s)\n", vaultrpc.EncodeAddress(vaultAddr), vaultAddr.StringLE())

	if seed := c.Args().Get(1); seed != "" {
		txAddr, err := vaultrpc.DeriveTransactionAddress(owner, seed)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.Writer, "transaction: %s (%s)\n", vaultrpc.EncodeAddress(txAddr), txAddr.StringLE())
	}

	return nil
}

type amountMethod func(*vaultrpc.Contract, util.Uint160, *big.Int) (util.Uint256, uint32, error)

func amountAction(name string, method amountMethod) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.NewExitError("amount is required", 1)
		}

		amount, err := parseAmount(c.Args().First())
		if err != nil {
			return err
		}

		return send(c, name, func(s *session) (util.Uint256, uint32, error) {
			return method(s.writer, s.acc.ScriptHash(), amount)
		})
	}
}

func createTransactionAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.NewExitError("seed, receiver and amount are required", 1)
	}

	seed := c.Args().Get(0)

	rcv, err := parseAccount(c.Args().Get(1))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(2))
	if err != nil {
		return err
	}

	return send(c, "create transaction", func(s *session) (util.Uint256, uint32, error) {
		return s.writer.CreateTransaction(s.acc.ScriptHash(), seed, rcv, amount)
	})
}

func executeTransactionAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("seed and receiver are required", 1)
	}

	seed := c.Args().Get(0)

	rcv, err := parseAccount(c.Args().Get(1))
	if err != nil {
		return err
	}

	return send(c, "execute transaction", func(s *session) (util.Uint256, uint32, error) {
		return s.writer.ExecuteTransaction(s.acc.ScriptHash(), seed, rcv)
	})
}

// send opens write session, sends the transaction built by f and waits for
// it to be accepted.
func send(c *cli.Context, name string, f func(*session) (util.Uint256, uint32, error)) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	s, err := newWriteSession(ctx, c)
	if err != nil {
		return err
	}
	defer s.close()

	h, vub, err := f(s)
	if err == nil {
		log.Info("transaction sent", zap.String("operation", name), zap.Stringer("tx", h), zap.Uint32("vub", vub))
	}

	err = s.await(ctx, h, vub, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Info("transaction accepted", zap.String("operation", name), zap.Stringer("tx", h))

	return nil
}

func getTransactionAction(c *cli.Context) error {
	if !c.Args().Present() {
		return cli.NewExitError("seed is required", 1)
	}

	seed := c.Args().First()

	owner, err := ownerArg(c, 1)
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := newReadSession(ctx, c)
	if err != nil {
		return err
	}
	defer s.close()

	tx, err := s.reader.GetTransaction(owner, seed)
	if err != nil {
		return fmt.Errorf("get transaction: %w", vaultrpc.ParseError(err))
	}

	printTransaction(c, owner, tx)

	return nil
}

func listTransactionsAction(c *cli.Context) error {
	owner, err := ownerArg(c, 0)
	if err != nil {
		return err
	}

	ctx := context.Background()

	s, err := newReadSession(ctx, c)
	if err != nil {
		return err
	}
	defer s.close()

	txs, err := s.reader.AllTransactions(owner, vaultrpc.DefaultIteratorBatch)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	for i := range txs {
		printTransaction(c, owner, txs[i])
	}

	return nil
}

func printTransaction(c *cli.Context, owner util.Uint160, tx *vaultrpc.VaultPendingTransfer) {
	id := "-"
	if h, err := vaultrpc.DeriveTransactionAddress(owner, tx.Seed); err == nil {
		id = vaultrpc.EncodeAddress(h)
	}

	fmt.Fprintf(c.App.Writer, "%s\tseed=%s\treceiver=%s\tamount=%s\texecuted=%t\n",
		id, tx.Seed, address.Uint160ToString(tx.Receiver), formatAmount(tx.Amount), tx.Executed)
}

func deployAction(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var ctr contracts.Contract
	switch {
	case c.String("artifacts") != "":
		cs, err := contracts.Read(c.String("artifacts"), contracts.VaultDir)
		if err != nil {
			return err
		}
		ctr = cs[0]
	case c.String("src") != "":
		ctr, err = contracts.Compile(c.String("src"))
		if err != nil {
			return err
		}
	default:
		return cli.NewExitError("either --artifacts or --src is required", 1)
	}

	acc, err := loadAccount(c)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cl, err := dial(ctx, c)
	if err != nil {
		return err
	}
	defer cl.Close()

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:       log,
		Blockchain:   cl,
		LocalAccount: acc,
		Contract:     ctr,
		Config: deploy.Config{
			VaultLease:    c.Int64("vault-lease"),
			TransferLease: c.Int64("transfer-lease"),
			MaxBalance:    c.Int64("max-balance"),
		},
	})
	if err != nil {
		return vaultrpc.ParseError(err)
	}

	fmt.Fprintln(c.App.Writer, addr.StringLE())

	return nil
}

func monitorAction(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	h, err := contractHash(c)
	if err != nil {
		return err
	}

	endpoint, err := requiredGlobal(c, rpcFlag)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ws, err := chain.DialWS(ctx, endpoint, c.GlobalDuration(timeoutFlag))
	if err != nil {
		return err
	}
	defer ws.Close()

	ch := make(chan *state.ContainedNotificationEvent, 100)

	_, err = ws.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &h}, ch)
	if err != nil {
		return fmt.Errorf("subscribe to notifications: %w", err)
	}

	reg := prometheus.NewRegistry()
	mon := monitor.New(log, h, monitor.NewMetrics(reg))

	srv := &http.Server{
		Addr:              c.String("metrics"),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
			cancel()
		}
	}()
	defer func() { _ = srv.Close() }()

	log.Info("monitoring contract notifications", zap.Stringer("contract", h), zap.String("metrics", srv.Addr))

	err = mon.Run(ctx, ch)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
