package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fintrack/internal/lifecycle"
)

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `fintrack import -f <file.csv>

  Imports rows of date,description,amount,type after a header row. Malformed
  rows are skipped. Imported rows never change account balances.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "CSV file, - for stdin")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -f is required")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		in := os.Stdin
		if c.file != "-" {
			f, err := os.Open(c.file)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		res, err := a.lifecycle.ImportCSV(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d transaction(s), skipped %d row(s)\n", res.Imported, res.Skipped)
		return nil
	})
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a JSON backup of all data" }
func (*exportCmd) Usage() string {
	return `fintrack export [-o <file>]

  Writes every record as JSON. The file name defaults to
  finance-tracker-backup-YYYY-MM-DD.json; use -o - for stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if c.output == "-" {
			return a.lifecycle.WriteExport(ctx, os.Stdout)
		}
		name := c.output
		if name == "" {
			name = lifecycle.BackupFileName(a.lifecycle.Export().Exported)
		}
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := a.lifecycle.WriteExport(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", name)
		return nil
	})
}

type clearCmd struct {
	what string
	yes  bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete selected data" }
func (*clearCmd) Usage() string {
	return `fintrack clear -what <list> -yes

  Deletes the selected collections. <list> is a comma separated mix of
  all, transactions, accounts, balances, reminders, planned, ideas,
  transfers and budgets. "balances" zeroes balances but keeps accounts.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.what, "what", "", "What to clear")
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := lifecycle.ParseClearOptions(c.what)
	if err != nil || c.what == "" {
		fmt.Fprintln(os.Stderr, "Error: -what must list what to clear")
		return subcommands.ExitUsageError
	}
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Refusing to clear data without -yes")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		cleared, err := a.lifecycle.ClearSelected(ctx, opts)
		if err != nil {
			return err
		}
		if len(cleared) == 0 {
			fmt.Println("Nothing selected")
			return nil
		}
		fmt.Printf("Cleared: %s\n", strings.Join(cleared, ", "))
		return nil
	})
}

type infoCmd struct{}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "show record counts and storage size" }
func (*infoCmd) Usage() string {
	return `fintrack info
`
}
func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (*infoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		info, err := a.lifecycle.StorageInfo()
		if err != nil {
			return err
		}
		printMarkdown(infoMarkdown(info, a.env.Store.Policy().String()))
		return nil
	})
}
