// Command vaultctl is a command-line client of the Vault contract.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	rpcFlag      = "rpc-endpoint"
	contractFlag = "contract"
	walletFlag   = "wallet"
	passwordFlag = "password"
	accountFlag  = "account"
	timeoutFlag  = "timeout"
	debugFlag    = "debug"

	defaultTimeout = 15 * time.Second
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "vaultctl"
	app.Usage = "Vault contract client"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   rpcFlag + ", r",
			Usage:  "Neo RPC server endpoint",
			EnvVar: "VAULT_RPC_ENDPOINT",
		},
		cli.StringFlag{
			Name:   contractFlag + ", c",
			Usage:  "Vault contract address (LE hash or Neo address)",
			EnvVar: "VAULT_CONTRACT",
		},
		cli.StringFlag{
			Name:   walletFlag + ", w",
			Usage:  "Path to the NEP-6 wallet",
			EnvVar: "VAULT_WALLET",
		},
		cli.StringFlag{
			Name:   passwordFlag,
			Usage:  "Wallet account password",
			EnvVar: "VAULT_WALLET_PASSWORD",
		},
		cli.StringFlag{
			Name:  accountFlag + ", a",
			Usage: "Wallet account address, default one is used if not set",
		},
		cli.DurationFlag{
			Name:  timeoutFlag + ", t",
			Usage: "RPC dial and request timeout",
			Value: defaultTimeout,
		},
		cli.BoolFlag{
			Name:  debugFlag,
			Usage: "Enable debug logging",
		},
	}
	app.Commands = commands()

	return app
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	if c.GlobalBool(debugFlag) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}
