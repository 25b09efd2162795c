package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/neutaro-wallet/internal/allowlist"
	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	"github.com/urfave/cli/v2"
)

var (
	initCommand = cli.Command{
		Name:  "init",
		Usage: "Create a new wallet with a 24-word seed phrase",
		Action: func(ctx *cli.Context) error {
			return initWallet(ctx)
		},
		Flags: []cli.Flag{passwordFlag},
	}

	importCommand = cli.Command{
		Name:  "import",
		Usage: "Import an existing wallet from its seed phrase (read from stdin)",
		Action: func(ctx *cli.Context) error {
			return importWallet(ctx)
		},
		Flags: []cli.Flag{passwordFlag},
	}

	addressCommand = cli.Command{
		Name:  "address",
		Usage: "Shows the wallet address without unlocking it",
		Action: func(ctx *cli.Context) error {
			return address(ctx)
		},
	}

	statusCommand = cli.Command{
		Name:  "status",
		Usage: "Shows the wallet files and the chain connection",
		Action: func(ctx *cli.Context) error {
			return status(ctx)
		},
	}

	exportCommand = cli.Command{
		Name:  "export",
		Usage: "Prints the seed phrase of the wallet",
		Action: func(ctx *cli.Context) error {
			return export(ctx)
		},
		Flags: []cli.Flag{passwordFlag, yesFlag},
	}

	rekeyCommand = cli.Command{
		Name:  "rekey",
		Usage: "Re-encrypts the keystore under a new password",
		Action: func(ctx *cli.Context) error {
			return rekey(ctx)
		},
		Flags: []cli.Flag{passwordFlag, newPasswordFlag},
	}
)

var newPasswordFlag = &cli.StringFlag{
	Name:   "new-password",
	Usage:  "new password for the keystore",
	Hidden: true,
}

func initWallet(ctx *cli.Context) error {
	if crypto.Exists(cfg.KeystorePath) {
		return fmt.Errorf("%w: use --keystore to create another wallet", crypto.ErrKeystoreExists)
	}

	password, err := readPassword(ctx, "Choose a password: ", true)
	if err != nil {
		return err
	}
	defer clear(password)

	addr, mnemonic, err := neutaro.GenerateWallet(cfg.KeystorePath, password)
	if err != nil {
		return err
	}
	defer clear(mnemonic)

	fmt.Fprintln(os.Stderr, "Write down your seed phrase and keep it offline. It will not be shown again.")
	fmt.Fprintln(os.Stderr)
	fmt.Println(string(mnemonic))
	fmt.Fprintln(os.Stderr)
	fmt.Println("address:", addr)
	return nil
}

func importWallet(ctx *cli.Context) error {
	if crypto.Exists(cfg.KeystorePath) {
		return fmt.Errorf("%w: use --keystore to import into another file", crypto.ErrKeystoreExists)
	}

	mnemonic, err := readSecretLine("Enter seed phrase: ")
	if err != nil {
		return err
	}
	defer clear(mnemonic)

	password, err := readPassword(ctx, "Choose a password: ", true)
	if err != nil {
		return err
	}
	defer clear(password)

	addr, err := neutaro.ImportWallet(cfg.KeystorePath, mnemonic, password)
	if err != nil {
		return err
	}

	fmt.Println("address:", addr)
	return nil
}

func address(ctx *cli.Context) error {
	addr, ok := crypto.PeekAddress(cfg.KeystorePath)
	if !ok {
		return crypto.ErrKeystoreNotFound
	}
	fmt.Println(addr)
	return nil
}

func status(ctx *cli.Context) error {
	chain, err := newChainClient()
	if err != nil {
		return err
	}

	keystorePath := cfg.KeystorePath
	if keystorePath == "" {
		keystorePath = crypto.DefaultKeystorePath()
	}
	allowlistPath := cfg.AllowlistPath
	if allowlistPath == "" {
		allowlistPath = allowlist.DefaultPath()
	}
	addr, _ := crypto.PeekAddress(keystorePath)

	return printJSON(map[string]interface{}{
		"keystore":            keystorePath,
		"address":             addr,
		"allowlist":           allowlistPath,
		"allowlistConfigured": allowlist.Exists(allowlistPath),
		"chain":               chain.GetStatus(ctx.Context),
	})
}

func export(ctx *cli.Context) error {
	if !ctx.Bool(yesFlag.Name) && !askYesNo("Anyone who sees the seed phrase can take your funds. Print it?") {
		return errors.New("export cancelled")
	}

	password, err := readPassword(ctx, "Password: ", false)
	if err != nil {
		return err
	}
	defer clear(password)

	wallet, err := crypto.Unlock(password, cfg.KeystorePath)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer wallet.Wipe()

	fmt.Println(string(wallet.Mnemonic))
	return nil
}

func rekey(ctx *cli.Context) error {
	oldPassword, err := readPassword(ctx, "Current password: ", false)
	if err != nil {
		return err
	}
	defer clear(oldPassword)

	newPassword, err := (&config.PasswordReader{
		Flag:   ctx.String(newPasswordFlag.Name),
		Prompt: config.PromptForPassword,
	}).Read("New password: ", true)
	if err != nil {
		return err
	}
	defer clear(newPassword)

	if err := crypto.Rekey(oldPassword, newPassword, cfg.KeystorePath); err != nil {
		return fmt.Errorf("rekey: %w", err)
	}

	fmt.Println("keystore re-encrypted")
	return nil
}
