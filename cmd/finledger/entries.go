package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/assotools/finledger/internal/ledger"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage ledger entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries, optionally for one fiscal year",
}

var entriesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new ledger entry",
}

var entriesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one ledger entry",
	Args:  cobra.ExactArgs(1),
}

var entriesValidateCmd = &cobra.Command{
	Use:   "validate [id]",
	Short: "Validate a pending entry",
	Args:  cobra.ExactArgs(1),
}

var entriesReconcileCmd = &cobra.Command{
	Use:   "reconcile [id]",
	Short: "Mark a validated entry as reconciled with the bank statement",
	Args:  cobra.ExactArgs(1),
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a ledger entry",
	Args:  cobra.ExactArgs(1),
}

// entriesArg returns the positional id of a one-argument subcommand.
func entriesArg(cmd *cobra.Command) string {
	return cmd.Flags().Args()[0]
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	entriesListCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		year, _ := entriesListCmd.Flags().GetInt("year")
		entries, err := a.ledger.List(ctx, year)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tDATE\tLABEL\tDEBIT\tCREDIT\tSTATUS")
		for _, t := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
				t.EntryNumber, t.Date.Format("2006-01-02"), t.Label, t.Debit, t.Credit, t.Status)
		}
		return w.Flush()
	})
	entriesAddCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		flags := entriesAddCmd.Flags()
		txType, _ := flags.GetString("type")
		dateStr, _ := flags.GetString("date")
		label, _ := flags.GetString("label")
		amount, _ := flags.GetFloat64("amount")
		category, _ := flags.GetString("category")

		date := time.Now()
		if dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateStr, err)
			}
			date = parsed
		}

		created, err := a.ledger.Create(ctx, ledger.CreateTransactionRequest{
			Type:     txType,
			Date:     date,
			Label:    label,
			Amount:   amount,
			Category: category,
		})
		if err != nil {
			return err
		}
		return printJSON(created)
	})
	entriesShowCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		t, err := a.ledger.Get(ctx, entriesArg(entriesShowCmd))
		if err != nil {
			return err
		}
		return printJSON(t)
	})
	entriesValidateCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		actor, _ := entriesValidateCmd.Flags().GetString("actor")
		t, err := a.ledger.Validate(ctx, entriesArg(entriesValidateCmd), actor)
		if err != nil {
			return err
		}
		return printJSON(t)
	})
	entriesReconcileCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		t, err := a.ledger.Reconcile(ctx, entriesArg(entriesReconcileCmd))
		if err != nil {
			return err
		}
		return printJSON(t)
	})
	entriesDeleteCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		return a.ledger.Delete(ctx, entriesArg(entriesDeleteCmd))
	})

	entriesListCmd.Flags().Int("year", 0, "fiscal year filter (0 lists everything)")

	entriesAddCmd.Flags().String("type", "", "entry type: income or expense")
	entriesAddCmd.Flags().String("date", "", "entry date (YYYY-MM-DD, defaults to today)")
	entriesAddCmd.Flags().String("label", "", "entry label")
	entriesAddCmd.Flags().Float64("amount", 0, "entry amount, strictly positive")
	entriesAddCmd.Flags().String("category", "", "category name")

	entriesValidateCmd.Flags().String("actor", "", "identifier of the person validating")

	entriesCmd.AddCommand(entriesListCmd, entriesAddCmd, entriesShowCmd,
		entriesValidateCmd, entriesReconcileCmd, entriesDeleteCmd)
	rootCmd.AddCommand(entriesCmd)
}
