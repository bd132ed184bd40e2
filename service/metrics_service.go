package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/tabular"
	"github.com/Aashish23092/workforce-metrics/utils/ratetext"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MetricsService builds the final report: roster reconciliation and report rate
// extraction run side by side, then operator overrides are applied on top.
type MetricsService struct {
	reconciler *ReconciliationService
	extractor  *RateExtractor
	specs      []RateSpec
	logger     *zap.Logger
}

func NewMetricsService(reconciler *ReconciliationService, extractor *RateExtractor, specs []RateSpec, logger *zap.Logger) *MetricsService {
	return &MetricsService{
		reconciler: reconciler,
		extractor:  extractor,
		specs:      specs,
		logger:     logger,
	}
}

// BuildReport opens the uploaded rosters (xlsx or csv) and assembles the report.
func (s *MetricsService) BuildReport(ctx context.Context, in dto.ReportInput) (*dto.Report, error) {
	employees, closeEmployees, err := tabular.Open(in.Employees.Name, in.Employees.Data)
	if err != nil {
		return nil, fmt.Errorf("employee file: %w", err)
	}
	defer closeEmployees()

	dependents, closeDependents, err := tabular.Open(in.Dependents.Name, in.Dependents.Data)
	if err != nil {
		return nil, fmt.Errorf("dependents file: %w", err)
	}
	defer closeDependents()

	return s.Assemble(ctx, employees, dependents, in.PDF, in.Overrides)
}

// Assemble runs reconciliation and, when pdfData is present, rate extraction
// concurrently. Only reconciliation can fail the report.
func (s *MetricsService) Assemble(ctx context.Context, employees, dependents tabular.Source, pdfData []byte, overrides map[dto.RateKind]string) (*dto.Report, error) {
	var (
		reconciliation *dto.Reconciliation
		extraction     *dto.Extraction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.reconciler.Reconcile(gctx, employees, dependents)
		if err != nil {
			return err
		}
		reconciliation = rec
		return nil
	})
	if len(pdfData) > 0 {
		g.Go(func() error {
			extraction = s.extractor.Extract(gctx, pdfData, s.specs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.Report{
		Aggregates: reconciliation.Aggregates,
		Rates:      s.MergeRates(extraction, overrides),
		Employees:  reconciliation.Employees,
		Stats:      reconciliation.Stats,
		Extraction: extraction,
	}, nil
}

// ExtractRates runs extraction alone, for prefilling the manual-entry form.
func (s *MetricsService) ExtractRates(ctx context.Context, pdfData []byte) *dto.Extraction {
	return s.extractor.Extract(ctx, pdfData, s.specs)
}

// MergeRates returns a value for every known rate kind. A non-blank override
// always replaces the extracted value; numeric overrides are canonicalized
// ("75" -> "75%") and anything else is kept as typed.
func (s *MetricsService) MergeRates(extraction *dto.Extraction, overrides map[dto.RateKind]string) map[dto.RateKind]dto.RateValue {
	rates := make(map[dto.RateKind]dto.RateValue, len(dto.RateKinds))
	for _, kind := range dto.RateKinds {
		var value dto.RateValue
		if extraction != nil {
			if r := extraction.Rates[kind]; r.Found {
				value = dto.RateValue{Value: r.Value, Source: dto.RateSourceExtracted}
			}
		}
		if override := strings.TrimSpace(overrides[kind]); override != "" {
			if canonical, ok := ratetext.ParseRate(override); ok {
				override = canonical
			}
			value = dto.RateValue{Value: override, Source: dto.RateSourceOverride}
		}
		rates[kind] = value
	}

	for kind := range overrides {
		if !kind.Valid() {
			s.logger.Warn("Ignoring override for unknown rate kind", zap.String("kind", string(kind)))
		}
	}
	return rates
}
