package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Aashish23092/workforce-metrics/config"
	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/logger"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		employeesPath  string
		dependentsPath string
		pdfPath        string
		overrideFlags  []string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a report from local files and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(overrideFlags)
			if err != nil {
				return err
			}

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

			in := dto.ReportInput{Overrides: overrides}
			if in.Employees, err = readLocalFile(employeesPath); err != nil {
				return err
			}
			if in.Dependents, err = readLocalFile(dependentsPath); err != nil {
				return err
			}
			if pdfPath != "" {
				if in.PDF, err = os.ReadFile(pdfPath); err != nil {
					return fmt.Errorf("failed to read report pdf: %w", err)
				}
			}

			report, err := metrics.BuildReport(cmd.Context(), in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&employeesPath, "employees", "", "employee roster workbook (xlsx or csv)")
	cmd.Flags().StringVar(&dependentsPath, "dependents", "", "dependents roster workbook (xlsx or csv)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "monthly compliance report PDF")
	cmd.Flags().StringArrayVar(&overrideFlags, "override", nil, "rate override as kind=value, e.g. saudisation=75")
	_ = cmd.MarkFlagRequired("employees")
	_ = cmd.MarkFlagRequired("dependents")

	return cmd
}

// parseOverrides turns kind=value flags into rate overrides.
func parseOverrides(flags []string) (map[dto.RateKind]string, error) {
	overrides := make(map[dto.RateKind]string, len(flags))
	for _, flag := range flags {
		kind, value, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("invalid override %q: expected kind=value", flag)
		}
		k := dto.RateKind(strings.TrimSpace(kind))
		if !k.Valid() {
			return nil, fmt.Errorf("unknown rate kind %q", kind)
		}
		overrides[k] = value
	}
	return overrides, nil
}

func readLocalFile(path string) (dto.NamedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dto.NamedFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return dto.NamedFile{Name: path, Data: data}, nil
}
