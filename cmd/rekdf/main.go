// One-off: re-encrypt an existing keystore under new scrypt parameters with
// the same password. Address and seed phrase are unchanged.
// Usage: go run ./cmd/rekdf --keystore ~/.neutaro-wallet/keystore.enc --scrypt-n 262144
package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	defaults := crypto.DefaultKDFParams()

	app := cli.NewApp()
	app.Name = "rekdf"
	app.Usage = "Re-encrypt a keystore with new scrypt parameters"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "keystore", Usage: "keystore file (default ~/.neutaro-wallet/keystore.enc)"},
		&cli.IntFlag{Name: "scrypt-n", Value: defaults.N},
		&cli.IntFlag{Name: "scrypt-r", Value: defaults.R},
		&cli.IntFlag{Name: "scrypt-p", Value: defaults.P},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx *cli.Context) error {
	path := ctx.String("keystore")
	if !crypto.Exists(path) {
		return crypto.ErrKeystoreNotFound
	}

	password, err := config.NewPasswordReader("", &config.Config{Password: os.Getenv(config.EnvPrefix + "_PASSWORD")}).
		Read("Wallet password: ", false)
	if err != nil {
		return err
	}
	defer clear(password)

	n, r, p := ctx.Int("scrypt-n"), ctx.Int("scrypt-r"), ctx.Int("scrypt-p")
	if err := crypto.Rekey(password, password, path, crypto.WithScryptParams(n, r, p)); err != nil {
		return fmt.Errorf("rekdf: %w", err)
	}

	log.WithFields(log.Fields{"n": n, "r": r, "p": p}).Info("keystore re-encrypted")
	return nil
}
