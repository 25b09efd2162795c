package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/api"
	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/crypto"
	"github.com/AlexZinkM/neutaro-wallet/internal/handler"
	"github.com/AlexZinkM/neutaro-wallet/internal/validate"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "Serve the wallet HTTP API on localhost",
	Action: func(ctx *cli.Context) error {
		return serve(ctx)
	},
	Flags: []cli.Flag{passwordFlag, allowOverrideFlag},
}

var allowOverrideFlag = &cli.BoolFlag{
	Name:  "allow-override",
	Usage: "honour overrideAllowlist and confirm in /neutaro/pay request bodies",
}

func serve(ctx *cli.Context) error {
	// Prompt once at startup; handlers copy it per request
	password, err := readPassword(ctx, "Wallet password: ", false)
	if err != nil {
		return err
	}
	if crypto.Exists(cfg.KeystorePath) {
		wallet, err := crypto.Unlock(password, cfg.KeystorePath)
		if err != nil {
			clear(password)
			return fmt.Errorf("failed to unlock keystore: %w", err)
		}
		wallet.Wipe()
	} else if err := validate.Password(password); err != nil {
		clear(password)
		return err
	}
	holder := config.NewPasswordHolder(password)
	defer holder.Wipe()

	maxSend, confirmAbove, err := cfg.Limits()
	if err != nil {
		return err
	}
	chain, err := newChainClient()
	if err != nil {
		return err
	}
	store, err := openReceipts()
	if err != nil {
		return err
	}
	defer store.Close()

	sender := neutaro.NewSender(neutaro.SenderConfig{
		KeystorePath:  cfg.KeystorePath,
		AllowlistPath: cfg.AllowlistPath,
		MaxSendAmount: maxSend,
		ConfirmAbove:  confirmAbove,
		Cooldown:      cfg.PayCooldownDuration(),
	}, chain, store)

	deps := handler.Deps{
		KeystorePath:  cfg.KeystorePath,
		PriceCurrency: cfg.PriceCurrency,
		Password:      holder,
		Chain:         chain,
		Receipts:      store,
		Sender:        sender,
		AllowOverride: ctx.Bool(allowOverrideFlag.Name),
	}
	if deps.AllowOverride {
		log.Warn("--allow-override set: any local client can bypass the allowlist")
	}
	if cfg.PriceCurrency != "" {
		deps.Prices = client.NewCoinGeckoClient("")
	}
	neutaroHandler, err := handler.NewNeutaroHandler(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              "127.0.0.1:" + cfg.Port,
		Handler:           api.SetupRouter(neutaroHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":  srv.Addr,
			"chain": chain.ChainID(),
			"rest":  chain.Endpoint(),
		}).Info("server started, swagger UI at /swagger/index.html")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
