package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/AlexZinkM/neutaro-wallet/internal/client"
	"github.com/AlexZinkM/neutaro-wallet/neutaro"

	"github.com/urfave/cli/v2"
)

var (
	validatorsCommand = cli.Command{
		Name:      "validators",
		Usage:     "Lists bonded validators, or shows one by operator address",
		ArgsUsage: "[neutarovaloper1...]",
		Action: func(ctx *cli.Context) error {
			return validators(ctx)
		},
		Flags: []cli.Flag{allStatusesFlag, stakingJSONFlag},
	}

	delegationsCommand = cli.Command{
		Name:  "delegations",
		Usage: "Shows staked and unbonding NTMPI of the wallet",
		Action: func(ctx *cli.Context) error {
			return delegations(ctx)
		},
		Flags: []cli.Flag{balanceAddressFlag, validatorFlag, stakingJSONFlag},
	}
)

var (
	allStatusesFlag = &cli.BoolFlag{
		Name:  "all",
		Usage: "include unbonded and unbonding validators",
	}
	validatorFlag = &cli.StringFlag{
		Name:  "validator",
		Usage: "only show the delegation to this neutarovaloper1... address",
	}
	stakingJSONFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print as JSON",
	}
)

func validators(ctx *cli.Context) error {
	if ctx.NArg() > 1 {
		return errors.New("usage: validators [neutarovaloper1...]")
	}
	chain, err := newChainClient()
	if err != nil {
		return err
	}

	if ctx.NArg() == 1 {
		v, err := neutaro.GetValidator(ctx.Context, chain, ctx.Args().First())
		if err != nil {
			return err
		}
		return printJSON(v)
	}

	status := client.BondStatusBonded
	if ctx.Bool(allStatusesFlag.Name) {
		status = ""
	}
	list, err := neutaro.GetValidators(ctx.Context, chain, status)
	if err != nil {
		return err
	}
	if ctx.Bool(stakingJSONFlag.Name) {
		return printJSON(list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONIKER\tOPERATOR\tCOMMISSION\tTOKENS\tJAILED")
	for _, v := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", v.Moniker, v.OperatorAddress, v.Commission, v.DisplayTokens, v.Jailed)
	}
	return w.Flush()
}

func delegations(ctx *cli.Context) error {
	chain, err := newChainClient()
	if err != nil {
		return err
	}

	address := ctx.String(balanceAddressFlag.Name)
	staked, err := neutaro.GetDelegations(ctx.Context, cfg.KeystorePath, address, ctx.String(validatorFlag.Name), chain)
	if err != nil {
		return err
	}
	unbonding, err := neutaro.GetUnbondingDelegations(ctx.Context, cfg.KeystorePath, address, chain)
	if err != nil {
		return err
	}

	if ctx.Bool(stakingJSONFlag.Name) {
		return printJSON(map[string]any{
			"delegations": staked,
			"unbonding":   unbonding,
		})
	}

	fmt.Printf("address: %s\nstaked:  %s\n\n", staked.DelegatorAddress, staked.TotalStakedDisplay)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if len(staked.Delegations) > 0 {
		fmt.Fprintln(w, "VALIDATOR\tOPERATOR\tAMOUNT")
		for _, d := range staked.Delegations {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.ValidatorMoniker, d.ValidatorAddress, d.DisplayAmount)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(unbonding.Entries) == 0 {
		return nil
	}
	fmt.Printf("\nunbonding: %s\n\n", unbonding.TotalUnbondingDisplay)
	fmt.Fprintln(w, "OPERATOR\tAMOUNT\tCOMPLETES")
	for _, e := range unbonding.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ValidatorAddress, e.DisplayAmount, e.CompletionTime.Local().Format(time.DateTime))
	}
	return w.Flush()
}
