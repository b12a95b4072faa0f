package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: withApp(func(ctx context.Context, a *app) error {
		// withApp already applied the schema while opening the backend.
		fmt.Printf("schema up to date (%s)\n", a.db.Dialect)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
