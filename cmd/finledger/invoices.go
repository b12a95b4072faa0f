package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/assotools/finledger/internal/entity"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices and quotes",
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List billing documents",
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one document with its lines",
	Args:  cobra.ExactArgs(1),
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [id]",
	Short: "Mark an invoice as paid",
	Args:  cobra.ExactArgs(1),
}

var invoicesOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List invoices past their due date and still unpaid",
	RunE: withApp(func(ctx context.Context, a *app) error {
		docs, err := a.invoices.ListOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		return printInvoiceTable(docs)
	}),
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document and its lines",
	Args:  cobra.ExactArgs(1),
}

func printInvoiceTable(docs []*entity.Invoice) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTYPE\tCLIENT\tISSUED\tTOTAL\tSTATUS")
	for _, inv := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			inv.InvoiceNumber, inv.Type, inv.ClientName,
			inv.IssueDate.Format("2006-01-02"), inv.TotalInclTax, inv.Status)
	}
	return w.Flush()
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	invoicesListCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		flags := invoicesListCmd.Flags()
		docType, _ := flags.GetString("type")
		status, _ := flags.GetString("status")
		docs, err := a.invoices.List(ctx, docType, status)
		if err != nil {
			return err
		}
		return printInvoiceTable(docs)
	})
	invoicesShowCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		inv, err := a.invoices.Get(ctx, entriesArg(invoicesShowCmd))
		if err != nil {
			return err
		}
		return printJSON(inv)
	})
	invoicesMarkPaidCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		var paidDate *time.Time
		if dateStr, _ := invoicesMarkPaidCmd.Flags().GetString("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateStr, err)
			}
			paidDate = &parsed
		}
		inv, err := a.invoices.MarkAsPaid(ctx, entriesArg(invoicesMarkPaidCmd), paidDate)
		if err != nil {
			return err
		}
		return printJSON(inv)
	})
	invoicesDeleteCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		return a.invoices.Delete(ctx, entriesArg(invoicesDeleteCmd))
	})

	invoicesListCmd.Flags().String("type", "", "filter by document type: invoice or quote")
	invoicesListCmd.Flags().String("status", "", "filter by status")

	invoicesMarkPaidCmd.Flags().String("date", "", "payment date (YYYY-MM-DD, defaults to today)")

	invoicesCmd.AddCommand(invoicesListCmd, invoicesShowCmd, invoicesMarkPaidCmd,
		invoicesOverdueCmd, invoicesDeleteCmd)
	rootCmd.AddCommand(invoicesCmd)
}
