package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/common"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"
	"github.com/AlexZinkM/neutaro-wallet/internal/receipts"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	"github.com/urfave/cli/v2"
)

var (
	balanceCommand = cli.Command{
		Name:  "balance",
		Usage: "Shows the NTMPI balance of the wallet",
		Action: func(ctx *cli.Context) error {
			return balance(ctx)
		},
		Flags: []cli.Flag{balanceAddressFlag},
	}

	sendCommand = cli.Command{
		Name:      "send",
		Usage:     "Send NTMPI to an address",
		ArgsUsage: "<to> <amount>",
		Action: func(ctx *cli.Context) error {
			return send(ctx)
		},
		Flags: []cli.Flag{passwordFlag, memoFlag, baseUnitsFlag, overrideAllowlistFlag, yesFlag},
	}

	receiveCommand = cli.Command{
		Name:  "receive",
		Usage: "Shows the wallet address as a payment URI and QR code",
		Action: func(ctx *cli.Context) error {
			return receive(ctx)
		},
		Flags: []cli.Flag{requestAmountFlag, memoFlag},
	}

	historyCommand = cli.Command{
		Name:  "history",
		Usage: "Shows the receipts of sent transactions, newest first",
		Action: func(ctx *cli.Context) error {
			return history(ctx)
		},
		Flags: []cli.Flag{limitFlag, txHashFlag, jsonFlag},
	}
)

var (
	balanceAddressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "query this address instead of the wallet address",
	}
	memoFlag = &cli.StringFlag{
		Name:  "memo",
		Usage: "transaction memo",
	}
	baseUnitsFlag = &cli.BoolFlag{
		Name:  "base-units",
		Usage: "read the amount as uneutaro instead of NTMPI",
	}
	overrideAllowlistFlag = &cli.BoolFlag{
		Name:  "override-allowlist",
		Usage: "send even if the allowlist denies the transfer",
	}
	requestAmountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "requested amount in NTMPI",
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "maximum number of receipts",
		Value: 20,
	}
	txHashFlag = &cli.StringFlag{
		Name:  "tx",
		Usage: "show the receipt of one transaction hash",
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print receipts as JSON",
	}
)

func balance(ctx *cli.Context) error {
	chain, err := newChainClient()
	if err != nil {
		return err
	}

	var prices neutaro.PriceSource
	if cfg.PriceCurrency != "" {
		prices = client.NewCoinGeckoClient("")
	}

	resp, err := neutaro.GetBalance(ctx.Context, cfg.KeystorePath, ctx.String(balanceAddressFlag.Name), chain, prices, cfg.PriceCurrency)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func send(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("usage: send <to> <amount>")
	}
	to, amount := ctx.Args().Get(0), ctx.Args().Get(1)

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
	}, chain, store)

	unit := common.UnitDisplay
	if ctx.Bool(baseUnitsFlag.Name) {
		unit = common.UnitBase
	}

	password, err := readPassword(ctx, "Password: ", false)
	if err != nil {
		return err
	}
	defer clear(password)

	req := neutaro.SendRequest{
		To:                to,
		Amount:            amount,
		Unit:              unit,
		Memo:              ctx.String(memoFlag.Name),
		Password:          password,
		OverrideAllowlist: ctx.Bool(overrideAllowlistFlag.Name),
		Confirmed:         ctx.Bool(yesFlag.Name),
	}

	receipt, err := sender.Send(ctx.Context, req)
	if errors.Is(err, neutaro.ErrConfirmationRequired) {
		if !askYesNo(fmt.Sprintf("Send %s %s to %s?", amount, unitName(unit), to)) {
			return errors.New("send cancelled")
		}
		req.Confirmed = true
		receipt, err = sender.Send(ctx.Context, req)
	}
	if neutaro.IsPolicyDeniedError(err) {
		fmt.Fprintln(os.Stderr, "Use --override-allowlist to send anyway.")
	}
	if errors.Is(err, neutaro.ErrTxPending) {
		fmt.Fprintln(os.Stderr, "The transaction may still be included. Check it with 'history --tx <hash>' before sending again.")
	}
	if err != nil {
		return err
	}

	fmt.Print(receipts.Format(receipt))
	return nil
}

func unitName(unit common.Unit) string {
	if unit == common.UnitBase {
		return common.Denom
	}
	return common.DisplayDenom
}

func receive(ctx *cli.Context) error {
	resp, err := neutaro.Receive(cfg.KeystorePath, ctx.String(requestAmountFlag.Name), ctx.String(memoFlag.Name))
	if err != nil {
		return err
	}

	qr, err := neutaro.TerminalQR(resp.URI)
	if err != nil {
		return err
	}
	fmt.Print(qr)
	fmt.Println(resp.URI)
	return nil
}

func history(ctx *cli.Context) error {
	store, err := openReceipts()
	if err != nil {
		return err
	}
	defer store.Close()

	if txHash := ctx.String(txHashFlag.Name); txHash != "" {
		receipt, err := store.ByTxHash(txHash)
		if err != nil {
			return err
		}
		if ctx.Bool(jsonFlag.Name) {
			return printJSON(receipt)
		}
		fmt.Print(receipts.Format(receipt))
		return nil
	}

	resp, err := neutaro.GetTransactions(cfg.KeystorePath, store, &model.LogRequest{Limit: ctx.Int(limitFlag.Name)})
	if err != nil {
		return err
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(resp)
	}

	if len(resp.Receipts) == 0 {
		fmt.Println("no transactions yet")
		return nil
	}
	for _, r := range resp.Receipts {
		fmt.Printf("%s  %-9s  %s %s  -> %s  %s\n",
			r.Timestamp.Local().Format(time.DateTime), r.Status, r.DisplayAmount, common.DisplayDenom, r.ToAddress, r.TxHash)
	}
	fmt.Printf("total sent: %s %s\n", resp.TotalSpent, common.DisplayDenom)
	return nil
}
