package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/neutaro-wallet/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"

	cfg *config.Config
)

var (
	keystoreFlag = &cli.StringFlag{
		Name:  "keystore",
		Usage: "path of the encrypted keystore (default ~/.neutaro-wallet/keystore.enc)",
	}
	allowlistFlag = &cli.StringFlag{
		Name:  "allowlist",
		Usage: "path of the allowlist (default ~/.neutaro-wallet/allowlist.json)",
	}
	receiptsFlag = &cli.StringFlag{
		Name:  "receipts",
		Usage: "path of the receipts database (default ~/.neutaro-wallet/receipts.db)",
	}
	restURLFlag = &cli.StringFlag{
		Name:  "rest-url",
		Usage: "Neutaro REST (LCD) endpoint",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn or error",
	}
	passwordFlag = &cli.StringFlag{
		Name:   "password",
		Usage:  "password to unlock the wallet",
		Hidden: true,
	}
	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "do not ask for confirmation",
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "neutaro-wallet"
	app.Usage = "local non-custodial wallet for the Neutaro chain"
	app.Commands = append(
		app.Commands,
		&initCommand,
		&importCommand,
		&addressCommand,
		&balanceCommand,
		&sendCommand,
		&receiveCommand,
		&historyCommand,
		&statusCommand,
		&exportCommand,
		&rekeyCommand,
		&validatorsCommand,
		&delegationsCommand,
		&allowlistCommand,
		&serveCommand,
	)
	app.Flags = []cli.Flag{
		keystoreFlag,
		allowlistFlag,
		receiptsFlag,
		restURLFlag,
		logLevelFlag,
	}

	app.Before = func(ctx *cli.Context) error {
		loaded, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Debug("command failed")
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

// loadConfig reads NEUTARO_* variables and applies the global flags on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}

	if ctx.IsSet(keystoreFlag.Name) {
		c.KeystorePath = ctx.String(keystoreFlag.Name)
	}
	if ctx.IsSet(allowlistFlag.Name) {
		c.AllowlistPath = ctx.String(allowlistFlag.Name)
	}
	if ctx.IsSet(receiptsFlag.Name) {
		c.ReceiptsPath = ctx.String(receiptsFlag.Name)
	}
	if ctx.IsSet(restURLFlag.Name) {
		c.RESTURL = ctx.String(restURLFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		c.LogLevel = ctx.String(logLevelFlag.Name)
	}

	if err := c.SetupLogging(); err != nil {
		return nil, err
	}
	return c, nil
}
