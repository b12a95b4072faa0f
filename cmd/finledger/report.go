package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/assotools/finledger/internal/reports"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Financial reports over the ledger, invoices and accounts",
}

var reportKPIsCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Headline figures for the current month and year",
	RunE: withApp(func(ctx context.Context, a *app) error {
		kpis, err := a.reports.KPIs(ctx)
		if err != nil {
			return err
		}
		return printJSON(kpis)
	}),
}

var reportPnLCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Profit and loss statement for one period",
}

var reportBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Simplified balance sheet as of the end of one period",
}

var reportRatiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "Liquidity, autonomy and profitability ratios for one period",
}

// reportSpec builds a period spec from the shared --period/--year/--month
// flags, defaulting to the current month.
func reportSpec(cmd *cobra.Command) (reports.Spec, error) {
	periodStr, _ := cmd.Flags().GetString("period")
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")

	period, err := reports.ParsePeriod(periodStr)
	if err != nil {
		return reports.Spec{}, err
	}
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return reports.Spec{Period: period, Year: year, Month: time.Month(month)}, nil
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "monthly", "period kind: monthly, quarterly, semesterly or yearly")
	cmd.Flags().Int("year", 0, "period year (defaults to the current year)")
	cmd.Flags().Int("month", 0, "any month inside the period (defaults to the current month)")
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	reportPnLCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		spec, err := reportSpec(reportPnLCmd)
		if err != nil {
			return err
		}
		pnl, err := a.reports.ProfitAndLoss(ctx, spec)
		if err != nil {
			return err
		}
		return printJSON(pnl)
	})
	reportBalanceCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		spec, err := reportSpec(reportBalanceCmd)
		if err != nil {
			return err
		}
		sheet, err := a.reports.BalanceSheet(ctx, spec)
		if err != nil {
			return err
		}
		return printJSON(sheet)
	})
	reportRatiosCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		spec, err := reportSpec(reportRatiosCmd)
		if err != nil {
			return err
		}
		ratios, err := a.reports.Ratios(ctx, spec)
		if err != nil {
			return err
		}
		return printJSON(ratios)
	})

	addPeriodFlags(reportPnLCmd)
	addPeriodFlags(reportBalanceCmd)
	addPeriodFlags(reportRatiosCmd)

	reportCmd.AddCommand(reportKPIsCmd, reportPnLCmd, reportBalanceCmd, reportRatiosCmd)
	rootCmd.AddCommand(reportCmd)
}
