package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to XLSX workbooks",
}

var exportEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Export ledger entries to an XLSX workbook",
}

var exportInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Export billing documents to an XLSX workbook",
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import ledger entries from a JSON payload",
	Long: `Import reads a JSON document of the form {"entries": [...]}, checks it
against the entries schema and records every entry through the ledger.
A payload that fails schema validation is rejected whole; entries that
fail individually are reported with their position and skipped.`,
	Args: cobra.ExactArgs(1),
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	exportEntriesCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		flags := exportEntriesCmd.Flags()
		year, _ := flags.GetInt("year")
		out, _ := flags.GetString("output")

		data, err := a.export.ExportTransactionsXLSX(ctx, year)
		if err != nil {
			return err
		}
		if out == "" {
			name := "journal.xlsx"
			if year != 0 {
				name = fmt.Sprintf("journal-%d.xlsx", year)
			}
			out = filepath.Join(a.cfg.Export.OutputDir, name)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Println(out)
		return nil
	})
	exportInvoicesCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		flags := exportInvoicesCmd.Flags()
		docType, _ := flags.GetString("type")
		out, _ := flags.GetString("output")

		data, err := a.export.ExportInvoicesXLSX(ctx, docType)
		if err != nil {
			return err
		}
		if out == "" {
			out = filepath.Join(a.cfg.Export.OutputDir, "invoices.xlsx")
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Println(out)
		return nil
	})
	importCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		result, err := a.ingest.ImportFile(ctx, entriesArg(importCmd))
		if err != nil {
			return err
		}
		fmt.Printf("created %d entries\n", len(result.Created))
		for _, fail := range result.Failed {
			fmt.Fprintf(os.Stderr, "skipped %v\n", fail)
		}
		return nil
	})

	exportEntriesCmd.Flags().Int("year", 0, "fiscal year filter (0 exports everything)")
	exportEntriesCmd.Flags().StringP("output", "o", "", "output file path")
	exportInvoicesCmd.Flags().String("type", "", "filter by document type: invoice or quote")
	exportInvoicesCmd.Flags().StringP("output", "o", "", "output file path")

	exportCmd.AddCommand(exportEntriesCmd, exportInvoicesCmd)
	rootCmd.AddCommand(exportCmd, importCmd)
}
