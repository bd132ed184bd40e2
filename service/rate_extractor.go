package service

import (
	"context"

	"github.com/Aashish23092/workforce-metrics/config"
	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/utils/ratetext"
	"go.uber.org/zap"
)

// IssueExtractionUnavailable is recorded when no strategy produced any text.
const IssueExtractionUnavailable = "extraction_unavailable"

// RateSpec pairs a rate kind with the phrase that precedes it in the report.
type RateSpec struct {
	Kind   dto.RateKind
	Anchor string
}

// RateSpecs returns the rate specs configured in rules, in dto.RateKinds order.
func RateSpecs(rules config.Rules) []RateSpec {
	specs := make([]RateSpec, 0, len(rules.Anchors))
	for _, kind := range dto.RateKinds {
		if anchor, ok := rules.Anchors[kind]; ok && anchor != "" {
			specs = append(specs, RateSpec{Kind: kind, Anchor: anchor})
		}
	}
	return specs
}

// RateExtractor mines percentage rates from the monthly report PDF.
type RateExtractor struct {
	chain  *TextChain
	window int
	logger *zap.Logger
}

func NewRateExtractor(chain *TextChain, window int, logger *zap.Logger) *RateExtractor {
	if window <= 0 {
		window = ratetext.DefaultWindow
	}
	return &RateExtractor{chain: chain, window: window, logger: logger}
}

// Extract never fails: a document that yields no text resolves every kind to
// NotFound and records IssueExtractionUnavailable.
func (e *RateExtractor) Extract(ctx context.Context, pdfData []byte, specs []RateSpec) *dto.Extraction {
	text, strategy, issues, err := e.chain.Acquire(ctx, pdfData)
	if err != nil {
		e.logger.Warn("No text extracted from report, rates must be entered manually", zap.Strings("issues", issues))
		return &dto.Extraction{
			Rates:  notFoundRates(specs),
			Issues: append(issues, IssueExtractionUnavailable),
		}
	}

	rates := e.ExtractFromText(text, specs)
	found := 0
	for _, r := range rates {
		if r.Found {
			found++
		}
	}
	e.logger.Info("Rates extracted from report",
		zap.String("strategy", strategy),
		zap.Int("found", found),
		zap.Int("requested", len(specs)))

	return &dto.Extraction{
		Rates:    rates,
		Strategy: strategy,
		Issues:   issues,
	}
}

// ExtractFromText searches already-acquired text. Each kind is searched on its own.
func (e *RateExtractor) ExtractFromText(text string, specs []RateSpec) map[dto.RateKind]dto.ExtractedRate {
	normalized := ratetext.CollapseWhitespace(text)
	rates := make(map[dto.RateKind]dto.ExtractedRate, len(specs))
	for _, spec := range specs {
		rates[spec.Kind] = ratetext.FindRate(normalized, spec.Anchor, e.window)
	}
	return rates
}

func notFoundRates(specs []RateSpec) map[dto.RateKind]dto.ExtractedRate {
	rates := make(map[dto.RateKind]dto.ExtractedRate, len(specs))
	for _, spec := range specs {
		rates[spec.Kind] = dto.NotFound
	}
	return rates
}
