package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlexZinkM/neutaro-wallet/internal/allowlist"
	"github.com/AlexZinkM/neutaro-wallet/internal/model"

	"github.com/urfave/cli/v2"
)

var allowlistCommand = cli.Command{
	Name:  "allowlist",
	Usage: "Manage the destinations the wallet may send to",
	Subcommands: []*cli.Command{
		{
			Name:  "init",
			Usage: "Create the allowlist",
			Action: func(ctx *cli.Context) error {
				return allowlistInit(ctx)
			},
			Flags: []cli.Flag{allowlistModeFlag, forceFlag},
		},
		{
			Name:  "list",
			Usage: "Show the default policy and every destination",
			Action: func(ctx *cli.Context) error {
				return allowlistList(ctx)
			},
			Flags: []cli.Flag{jsonFlag},
		},
		{
			Name:      "add",
			Usage:     "Add or replace a destination",
			ArgsUsage: "<address>",
			Action: func(ctx *cli.Context) error {
				return allowlistAdd(ctx)
			},
			Flags: []cli.Flag{nameFlag, maxAmountFlag, needsMemoFlag, notesFlag},
		},
		{
			Name:      "remove",
			Usage:     "Remove a destination",
			ArgsUsage: "<address>",
			Action: func(ctx *cli.Context) error {
				return allowlistRemove(ctx)
			},
		},
	},
}

var (
	allowlistModeFlag = &cli.StringFlag{
		Name:  "allowlist-mode",
		Usage: "enforce: block unknown destinations, allow: let them through",
		Value: string(allowlist.ModeEnforce),
	}
	forceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "replace an existing allowlist",
	}
	nameFlag = &cli.StringFlag{
		Name:  "name",
		Usage: "label of the destination",
	}
	maxAmountFlag = &cli.StringFlag{
		Name:  "max",
		Usage: "largest amount in NTMPI a single send may carry",
	}
	needsMemoFlag = &cli.BoolFlag{
		Name:  "memo-required",
		Usage: "refuse sends without a memo",
	}
	notesFlag = &cli.StringFlag{
		Name:  "notes",
		Usage: "free text notes",
	}
)

func allowlistInit(ctx *cli.Context) error {
	mode := allowlist.Mode(ctx.String(allowlistModeFlag.Name))
	if _, err := allowlist.Init(cfg.AllowlistPath, mode, ctx.Bool(forceFlag.Name)); err != nil {
		if errors.Is(err, allowlist.ErrAlreadyConfigured) {
			return fmt.Errorf("%w: use --force to replace it", err)
		}
		return err
	}
	fmt.Printf("allowlist created (%s mode)\n", mode)
	return nil
}

func allowlistList(ctx *cli.Context) error {
	list, err := allowlist.Load(cfg.AllowlistPath)
	if err != nil {
		return err
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(list)
	}

	if p := list.DefaultPolicy; p != nil {
		maxAmount := "none"
		if p.MaxAmount != nil {
			maxAmount = p.MaxAmount.String()
		}
		fmt.Printf("default: blockUnknown=%t requireMemo=%t maxAmount=%s\n\n", p.BlockUnknown, p.RequireMemo, maxAmount)
	} else {
		fmt.Printf("default: allow\n\n")
	}

	if len(list.Destinations) == 0 {
		fmt.Println("no destinations")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tMAX\tMEMO\tNOTES")
	for _, d := range list.Destinations {
		maxAmount := "-"
		if d.MaxAmount != nil {
			maxAmount = d.MaxAmount.String()
		}
		memo := "-"
		if d.NeedsMemo {
			memo = "required"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Address, maxAmount, memo, d.Notes)
	}
	return w.Flush()
}

func allowlistAdd(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: allowlist add <address>")
	}

	dest := model.Destination{
		Address:   ctx.Args().First(),
		Name:      ctx.String(nameFlag.Name),
		NeedsMemo: ctx.Bool(needsMemoFlag.Name),
		Notes:     ctx.String(notesFlag.Name),
	}
	if ctx.IsSet(maxAmountFlag.Name) {
		maxAmount := model.DisplayAmount(ctx.String(maxAmountFlag.Name))
		dest.MaxAmount = &maxAmount
	}

	if _, err := allowlist.Add(cfg.AllowlistPath, dest); err != nil {
		return err
	}
	fmt.Printf("added %s\n", dest.Label())
	return nil
}

func allowlistRemove(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: allowlist remove <address>")
	}
	if _, err := allowlist.Remove(cfg.AllowlistPath, ctx.Args().First()); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", ctx.Args().First())
	return nil
}
