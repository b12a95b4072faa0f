package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/assotools/finledger/internal/accounts"
	"github.com/assotools/finledger/internal/budgets"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/export"
	"github.com/assotools/finledger/internal/ingest"
	"github.com/assotools/finledger/internal/invoices"
	"github.com/assotools/finledger/internal/ledger"
	"github.com/assotools/finledger/internal/reports"
	"github.com/assotools/finledger/internal/repository"
)

var version = "1.0.0"

var rootLogger *slog.Logger

var rootCmd = &cobra.Command{
	Use:     "finledger",
	Short:   "Ledger, invoicing and budget tracking for a small organization",
	Version: version,
	Long: `finledger keeps the books of a small organization: a double-sided
transaction journal, invoices and quotes, yearly budgets with project
envelopes, bank accounts and financial reports.

The DB_URL environment variable selects the backend: a postgres:// URL
opens the shared transactional store, any other value is used as a local
sqlite file path.`,
}

// Execute runs the CLI. The logger is shared by every subcommand.
func Execute(logger *slog.Logger) {
	rootLogger = logger
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the open database and the services a subcommand may need.
type app struct {
	cfg      *common.Config
	logger   *slog.Logger
	db       *repository.DB
	store    *repository.Store
	ledger   *ledger.Service
	invoices *invoices.Service
	budgets  *budgets.Service
	projects *budgets.ProjectService
	accounts *accounts.Service
	reports  *reports.Service
	export   *export.Service
	ingest   *ingest.Service
}

// withApp opens the configured backend, wires the services, runs fn and
// closes the backend again. Commands use it as their RunE body.
func withApp(fn func(ctx context.Context, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := common.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		db, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, rootLogger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close(rootLogger)

		if err := db.Migrate(ctx, rootLogger); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}

		store := repository.NewStore(db, rootLogger)
		ledgerSvc := ledger.NewService(store.Transactions, store.Categories, rootLogger)
		ingestSvc, err := ingest.NewService(ledgerSvc, rootLogger)
		if err != nil {
			return err
		}

		a := &app{
			cfg:      cfg,
			logger:   rootLogger,
			db:       db,
			store:    store,
			ledger:   ledgerSvc,
			invoices: invoices.NewService(store.Invoices, rootLogger),
			budgets:  budgets.NewService(store.Budgets, rootLogger),
			projects: budgets.NewProjectService(store.Projects, rootLogger),
			accounts: accounts.NewService(store.Accounts, rootLogger),
			reports:  reports.NewService(store.Reporting, store.Accounts, store.Invoices, rootLogger),
			export:   export.NewService(store.Transactions, store.Invoices, rootLogger),
			ingest:   ingestSvc,
		}
		return fn(ctx, a)
	}
}
