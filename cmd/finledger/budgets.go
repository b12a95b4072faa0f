package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/assotools/finledger/constants"
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage yearly budgets",
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	RunE: withApp(func(ctx context.Context, a *app) error {
		list, err := a.budgets.ListBudgets(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tYEAR\tTOTAL\tENVELOPES")
		for _, b := range list {
			fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", b.ID, b.Year, b.TotalBudget, len(b.Categories))
		}
		return w.Flush()
	}),
}

var budgetsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one budget with its category envelopes",
	Args:  cobra.ExactArgs(1),
}

var budgetsSpentCmd = &cobra.Command{
	Use:   "spent [year]",
	Short: "Show validated spending per category for one fiscal year",
	Args:  cobra.ExactArgs(1),
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage project budget envelopes",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List project envelopes",
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one project with its lines",
	Args:  cobra.ExactArgs(1),
}

func init() {
	// RunE closures that mention their own command variable are assigned
	// here rather than in the composite literal, which would be an
	// initialization cycle.
	budgetsShowCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		b, err := a.budgets.GetBudget(ctx, entriesArg(budgetsShowCmd))
		if err != nil {
			return err
		}
		return printJSON(b)
	})
	budgetsSpentCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		var year int
		if _, err := fmt.Sscanf(entriesArg(budgetsSpentCmd), "%d", &year); err != nil {
			return fmt.Errorf("invalid year: %w", err)
		}
		spent, err := a.budgets.SpentToDate(ctx, year)
		if err != nil {
			return err
		}
		return printJSON(spent)
	})
	projectsListCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		flags := projectsListCmd.Flags()
		status, _ := flags.GetString("status")
		year, _ := flags.GetInt("year")
		list, err := a.projects.ListProjects(ctx, constants.ProjectStatus(status), year)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tALLOCATED\tACTUAL")
		for _, p := range list {
			var allocated, actual float64
			for _, line := range p.Lines {
				allocated += line.AllocatedAmount
				actual += line.ActualAmount
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n",
				p.ID, p.Title, p.Status, allocated, actual)
		}
		return w.Flush()
	})
	projectsShowCmd.RunE = withApp(func(ctx context.Context, a *app) error {
		p, err := a.projects.GetProject(ctx, entriesArg(projectsShowCmd))
		if err != nil {
			return err
		}
		return printJSON(p)
	})

	projectsListCmd.Flags().String("status", "", "filter by status: planned, ongoing or completed")
	projectsListCmd.Flags().Int("year", 0, "keep projects starting in this year")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsShowCmd, budgetsSpentCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd)
	rootCmd.AddCommand(budgetsCmd, projectsCmd)
}
