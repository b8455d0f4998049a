package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// @title Sote Minimart Till API
// @version 1.0
// @description Cash shifts, checkout and journal posting for the minimart till.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "minimart",
		Short:         "Till ledger for the minimart: shifts, checkout and journal posting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(logger),
		newMigrateCmd(logger),
		newPostJournalsCmd(logger),
		newCashierAddCmd(logger),
		newProductUpsertCmd(logger),
		newInvoiceAddCmd(logger),
	)
	return root
}
