package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/events"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/Africall/sote-minimart/internal/platform/config"
)

var postableSources = []domain.JournalSource{
	domain.SourceSale, domain.SourceExpense, domain.SourceShift, domain.SourceRecon,
}

func newPostJournalsCmd(logger *slog.Logger) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "post-journals",
		Short: "Post every unposted business event to the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := postableSources
			if s := strings.ToUpper(source); s != "ALL" {
				js := domain.JournalSource(s)
				if !js.IsValid() || js == domain.SourceAdjust {
					return fmt.Errorf("unknown source %q, want SALE, EXPENSE, SHIFT, RECON or all", source)
				}
				sources = []domain.JournalSource{js}
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx := middleware.WithLogger(cmd.Context(), logger)
			store, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.close()

			coa, err := loadChart(ctx, cfg, store.repos)
			if err != nil {
				return err
			}
			runtime, err := services.NewServiceContainer(cfg, store.repos, store.uow, coa, events.NewBroker(1, logger), logger)
			if err != nil {
				return err
			}

			failed := 0
			for _, src := range sources {
				res, err := runtime.Services.Journal.PostAll(ctx, src)
				if err != nil {
					return fmt.Errorf("posting %s: %w", src, err)
				}
				failed += res.Failed
				logger.Info("Posted journals",
					slog.String("source", string(src)),
					slog.Int("posted", res.Posted),
					slog.Int("already_posted", res.AlreadyPosted),
					slog.Int("skipped", res.Skipped),
					slog.Int("failed", res.Failed))
			}
			if failed > 0 {
				return fmt.Errorf("%d events failed to post", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "all", "SALE, EXPENSE, SHIFT, RECON or all")
	return cmd
}
