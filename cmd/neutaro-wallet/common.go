package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/internal/config"
	"github.com/AlexZinkM/neutaro-wallet/internal/receipts"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// txEncoder builds signed transaction bytes for broadcast. It is left nil in
// read-only builds, in which case send stops before broadcasting.
var txEncoder client.TxEncoder

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}

// readPassword resolves the password from --password, NEUTARO_PASSWORD or a
// hidden prompt. Caller must zero the returned slice after use.
func readPassword(ctx *cli.Context, prompt string, confirm bool) ([]byte, error) {
	return config.NewPasswordReader(ctx.String(passwordFlag.Name), cfg).Read(prompt, confirm)
}

// readSecretLine reads a secret such as a seed phrase without echo when stdin
// is a terminal, or one line from stdin otherwise.
func readSecretLine(prompt string) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return config.PromptForPassword(prompt)
	}
	return config.ReadLine(os.Stdin)
}

// askYesNo asks a yes/no question on stderr. Anything but y/yes is no, and so
// is a non-interactive stdin.
func askYesNo(question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newChainClient() (*client.NeutaroClient, error) {
	return client.NewNeutaroClient(client.Config{
		RESTURL:          cfg.RESTURL,
		ChainID:          cfg.ChainID,
		Denom:            cfg.Denom,
		GasPrice:         cfg.GasPrice,
		GasLimit:         cfg.GasLimit,
		Timeout:          cfg.HTTPTimeout,
		WaitForInclusion: cfg.WaitForInclusion,
		TxTimeout:        cfg.TxTimeout,
	}, txEncoder)
}

func openReceipts() (*receipts.Store, error) {
	return receipts.Open(cfg.ReceiptsPath)
}
