package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/Africall/sote-minimart/internal/platform/config"
)

// withBackend loads config, opens the store and runs fn against it.
func withBackend(cmd *cobra.Command, logger *slog.Logger, fn func(b *backend, cfg *config.Config) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	store, err := openBackend(middleware.WithLogger(cmd.Context(), logger), cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()
	return fn(store, cfg)
}

func newCashierAddCmd(logger *slog.Logger) *cobra.Command {
	var id, name, pin string
	cmd := &cobra.Command{
		Use:   "cashier-add",
		Short: "Register a cashier who can log in at the till",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, logger, func(b *backend, cfg *config.Config) error {
				auth := services.NewAuthService(cfg, b.repos.CashierRepo)
				cashier, err := auth.RegisterCashier(cmd.Context(), id, name, pin)
				if err != nil {
					return err
				}
				logger.Info("Cashier registered", slog.String("cashier_id", cashier.CashierID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "cashier ID used to log in")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&pin, "pin", "", "4 to 12 digit PIN")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newProductUpsertCmd(logger *slog.Logger) *cobra.Command {
	var (
		id, name, cost string
		stock          int
	)
	cmd := &cobra.Command{
		Use:   "product-upsert",
		Short: "Create a product or set its name, stock level and unit cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			product := domain.Product{ProductID: id, Name: name, Stock: stock}
			if cost != "" {
				c, err := decimal.NewFromString(cost)
				if err != nil || c.IsNegative() || !c.Equal(c.Round(2)) {
					return fmt.Errorf("invalid cost %q", cost)
				}
				product.CostPrice = &c
			}
			return withBackend(cmd, logger, func(b *backend, _ *config.Config) error {
				if err := b.repos.StockRepo.UpsertProduct(cmd.Context(), product); err != nil {
					return err
				}
				logger.Info("Product stored", slog.String("product_id", id), slog.Int("stock", stock))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "product ID")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().IntVar(&stock, "stock", 0, "units on hand")
	cmd.Flags().StringVar(&cost, "cost", "", "unit cost, used for cost of goods sold")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newInvoiceAddCmd(logger *slog.Logger) *cobra.Command {
	var id, customer, total string
	cmd := &cobra.Command{
		Use:   "invoice-add",
		Short: "Record a credit sale invoice awaiting payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(total)
			if err != nil || !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
				return fmt.Errorf("invalid total %q", total)
			}
			inv := domain.Invoice{
				InvoiceID:    id,
				CustomerName: customer,
				TotalAmount:  amount,
				AmountPaid:   decimal.Zero,
				Status:       domain.InvoiceUnpaid,
				UpdatedAt:    time.Now().UTC(),
			}
			return withBackend(cmd, logger, func(b *backend, _ *config.Config) error {
				if err := b.repos.InvoiceRepo.SaveInvoice(cmd.Context(), inv); err != nil {
					return err
				}
				logger.Info("Invoice recorded", slog.String("invoice_id", id), slog.String("total", amount.String()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "invoice ID")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&total, "total", "", "invoice total")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}
