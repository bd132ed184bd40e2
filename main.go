package main

import (
	"fmt"
	"os"

	"github.com/Aashish23092/workforce-metrics/client"
	"github.com/Aashish23092/workforce-metrics/config"
	"github.com/Aashish23092/workforce-metrics/handler"
	"github.com/Aashish23092/workforce-metrics/logger"
	"github.com/Aashish23092/workforce-metrics/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "workforce",
		Short:         "Workforce compliance metrics from Qiwa rosters and monthly reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newReportCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			metrics, err := newMetricsService(cfg, log)
			if err != nil {
				return err
			}

			reportHandler := handler.NewReportHandler(metrics, log)
			router := handler.NewRouter(reportHandler, cfg.MaxUploadSize, log)

			log.Info("Starting Workforce Metrics service", zap.String("port", cfg.ServerPort))
			if err := router.Run(":" + cfg.ServerPort); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		},
	}
}

// newMetricsService wires rules, the text chain and both engines from cfg.
func newMetricsService(cfg *config.Config, log *zap.Logger) (*service.MetricsService, error) {
	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	rules = rules.WithRateWindow(cfg.RateWindow)

	strategies := []service.TextStrategy{service.LayoutTextStrategy{}, service.PlainTextStrategy{}}
	if cfg.OCREnabled {
		tesseract := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguages...)
		strategies = append(strategies, service.NewOCRTextStrategy(tesseract))
	}
	chain := service.NewTextChain(log, strategies...)

	extractor := service.NewRateExtractor(chain, rules.RateWindow, log)
	reconciler := service.NewReconciliationService(rules, log)
	return service.NewMetricsService(reconciler, extractor, service.RateSpecs(rules), log), nil
}
