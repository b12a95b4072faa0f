package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage bank accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank accounts with their balances",
	RunE: withApp(func(ctx context.Context, a *app) error {
		list, err := a.accounts.List(ctx)
		if err != nil {
			return err
		}
		total, err := a.accounts.TotalBalance(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBANK\tBALANCE\tACTIVE")
		for _, acc := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%t\n",
				acc.ID, acc.Name, acc.BankName, acc.CurrentBalance, acc.Active)
		}
		fmt.Fprintf(w, "\tTOTAL\t\t%.2f\t\n", total)
		return w.Flush()
	}),
}

var accountsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one bank account",
	Args:  cobra.ExactArgs(1),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage transaction categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transaction categories",
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	accountsShowCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		acc, err := a.accounts.Get(ctx, entriesArg(accountsShowCmd))
		if err != nil {
			return err
		}
		return printJSON(acc)
	})
	categoriesListCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		all, _ := categoriesListCmd.Flags().GetBool("all")
		list, err := a.ledger.ListCategories(ctx, !all)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tACTIVE")
		for _, c := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.Type, c.Active)
		}
		return w.Flush()
	})

	categoriesListCmd.Flags().Bool("all", false, "include deactivated categories")

	accountsCmd.AddCommand(accountsListCmd, accountsShowCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	rootCmd.AddCommand(accountsCmd, categoriesCmd)
}
