package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// ErrNoText means every text strategy came back empty.
var ErrNoText = errors.New("no text could be extracted from the document")

// pageSeparator joins page texts; whitespace collapsing turns it into one space.
const pageSeparator = "\n"

// TextStrategy is one way of getting text out of a PDF.
type TextStrategy interface {
	Name() string
	ExtractText(ctx context.Context, pdfData []byte) (string, error)
}

// TextChain tries its strategies in order and keeps the first non-blank text.
type TextChain struct {
	strategies []TextStrategy
	logger     *zap.Logger
}

func NewTextChain(logger *zap.Logger, strategies ...TextStrategy) *TextChain {
	return &TextChain{strategies: strategies, logger: logger}
}

// Acquire returns the text and the name of the strategy that produced it. Every
// failed or empty attempt is reported in issues. When nothing yields text the
// error is ErrNoText.
func (c *TextChain) Acquire(ctx context.Context, pdfData []byte) (text, strategy string, issues []string, err error) {
	if len(pdfData) == 0 {
		return "", "", []string{"empty_document"}, ErrNoText
	}

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return "", "", append(issues, "cancelled"), err
		}

		text, err := runStrategy(ctx, s, pdfData)
		if err != nil {
			c.logger.Warn("PDF text strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
			issues = append(issues, s.Name()+"_failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.logger.Debug("PDF text strategy returned no text", zap.String("strategy", s.Name()))
			issues = append(issues, s.Name()+"_empty")
			continue
		}
		return text, s.Name(), issues, nil
	}
	return "", "", issues, ErrNoText
}

// runStrategy converts a panic inside a PDF reader into an error; malformed
// documents can panic ledongthuc/pdf.
func runStrategy(ctx context.Context, s TextStrategy, pdfData []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%s: panic: %v", s.Name(), r)
		}
	}()
	return s.ExtractText(ctx, pdfData)
}

// ------------------------
// Layout-aware text
// ------------------------

// LayoutTextStrategy rebuilds lines from the row-grouped text of each page.
type LayoutTextStrategy struct{}

func (LayoutTextStrategy) Name() string { return "layout" }

func (LayoutTextStrategy) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageIndex, err)
		}
		for _, row := range rows {
			// Each entry is one show-text operation. Row grouping only follows Tm,
			// so lines moved with Td land in the same row and need a separator.
			for i, word := range row.Content {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(pageSeparator)
	}
	return textBuilder.String(), nil
}

// ------------------------
// Page-by-page plain text
// ------------------------

// PlainTextStrategy walks each page's glyphs in content stream order, ignoring row
// grouping. Pages that fail on their own are skipped.
type PlainTextStrategy struct{}

func (PlainTextStrategy) Name() string { return "plain" }

func (PlainTextStrategy) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		glyphs, ok := pageGlyphs(p)
		if !ok {
			continue
		}
		pages = append(pages, JoinGlyphs(glyphs))
	}
	return strings.Join(pages, pageSeparator), nil
}

func pageGlyphs(p pdf.Page) (glyphs []pdf.Text, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			glyphs, ok = nil, false
		}
	}()
	return p.Content().Text, true
}

// JoinGlyphs rebuilds text from positioned glyphs. A baseline change starts a new
// line; a visible gap in either direction becomes a space, so a return to the left
// margin never glues the last word of a line to the first word of the next.
func JoinGlyphs(glyphs []pdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			b.WriteString(glyphSeparator(glyphs[i-1], g))
		}
		b.WriteString(g.S)
	}
	return b.String()
}

func glyphSeparator(prev, next pdf.Text) string {
	size := next.FontSize
	if size <= 0 {
		size = 1
	}
	gap := 0.25 * size

	switch {
	case math.Abs(next.Y-prev.Y) > 0.5*size:
		return "\n"
	case next.X-(prev.X+prev.W) > gap:
		return " "
	case prev.X-(next.X+next.W) > gap:
		return " "
	}
	return ""
}

// ------------------------
// OCR of embedded page images
// ------------------------

// ImageOCR recognizes text in a single image.
type ImageOCR interface {
	ExtractTextFromImage(img image.Image) (string, error)
}

// OCRTextStrategy handles scanned reports: it pulls the page images out with
// pdfcpu and runs them through OCR, concatenating in page order.
type OCRTextStrategy struct {
	ocr ImageOCR
}

func NewOCRTextStrategy(ocr ImageOCR) *OCRTextStrategy {
	return &OCRTextStrategy{ocr: ocr}
}

func (s *OCRTextStrategy) Name() string { return "ocr" }

func (s *OCRTextStrategy) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	images, err := ExtractImages(pdfData)
	if err != nil {
		return "", err
	}

	var combined strings.Builder
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := s.ocr.ExtractTextFromImage(img)
		if err != nil {
			continue
		}
		combined.WriteString(text)
		combined.WriteString(pageSeparator)
	}
	return combined.String(), nil
}

// ExtractImages writes the PDF to a temp file and extracts every embedded image
// with pdfcpu. Images come back in extracted file name order.
func ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "report.pdf")
	if err := os.WriteFile(pdfPath, pdfData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}

	outDir := filepath.Join(tempDir, "out")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(pdfPath, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		imgFile, err := os.Open(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}
