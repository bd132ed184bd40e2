package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/service"
	"github.com/Aashish23092/workforce-metrics/tabular"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportBuilder is the part of service.MetricsService the handler needs.
type ReportBuilder interface {
	BuildReport(ctx context.Context, in dto.ReportInput) (*dto.Report, error)
	ExtractRates(ctx context.Context, pdfData []byte) *dto.Extraction
}

// overrideFields maps form fields to the rate kinds they override.
var overrideFields = map[string]dto.RateKind{
	"saudisation_rate":            dto.RateSaudisation,
	"contract_documentation_rate": dto.RateContractDocumentation,
	"wage_protection_rate":        dto.RateWageProtection,
}

type ReportHandler struct {
	builder ReportBuilder
	logger  *zap.Logger
}

func NewReportHandler(builder ReportBuilder, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{builder: builder, logger: logger}
}

// Register mounts the workforce routes on rg.
func (h *ReportHandler) Register(rg *gin.RouterGroup) {
	workforce := rg.Group("/workforce")
	{
		workforce.POST("/report", h.BuildReport)
		workforce.POST("/rates", h.ExtractRates)
	}
}

// BuildReport handles the POST /workforce/report endpoint
func (h *ReportHandler) BuildReport(c *gin.Context) {
	reportID := uuid.NewString()
	log := h.logger.With(zap.String("report_id", reportID))
	log.Info("Received workforce report request")

	if !h.parseForm(c) {
		return
	}

	request := &dto.ReportRequest{Overrides: make(map[dto.RateKind]string)}
	request.EmployeeFile, _ = c.FormFile("employee_file")
	request.DependentsFile, _ = c.FormFile("dependents_file")
	request.ReportPDF, _ = c.FormFile("report_pdf")
	for field, kind := range overrideFields {
		if v, ok := c.GetPostForm(field); ok {
			request.Overrides[kind] = v
		}
	}

	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	in := dto.ReportInput{Overrides: request.Overrides}
	var err error
	if in.Employees, err = readNamedFile(request.EmployeeFile); err != nil {
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}
	if in.Dependents, err = readNamedFile(request.DependentsFile); err != nil {
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}
	if request.ReportPDF != nil {
		pdfFile, err := readNamedFile(request.ReportPDF)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
			return
		}
		in.PDF = pdfFile.Data
	}

	report, err := h.builder.BuildReport(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrSchemaNotFound) {
			h.sendError(c, http.StatusUnprocessableEntity, dto.ErrCodeSchemaNotFound, err)
			return
		}
		if errors.Is(err, tabular.ErrUnreadable) {
			h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, dto.ErrCodeReportFailed, err)
		return
	}

	log.Info("Workforce report completed",
		zap.Int("employees", report.Stats.JoinedEmployees),
		zap.Int("foreign", report.Aggregates.Foreign))
	c.JSON(http.StatusOK, dto.ReportResponse{
		ReportID:    reportID,
		Report:      report,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// ExtractRates handles the POST /workforce/rates endpoint. It only reads the PDF
// and returns the values used to prefill manual entry.
func (h *ReportHandler) ExtractRates(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}

	fileHeader, err := c.FormFile("report_pdf")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, fmt.Errorf("report_pdf is required"))
		return
	}
	pdfFile, err := readNamedFile(fileHeader)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	c.JSON(http.StatusOK, dto.RatesResponse{
		ReportID:    uuid.NewString(),
		Extraction:  h.builder.ExtractRates(c.Request.Context(), pdfFile.Data),
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// parseForm reads the multipart body up front so an oversized upload is reported
// as such instead of as a missing file.
func (h *ReportHandler) parseForm(c *gin.Context) bool {
	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.sendError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, err)
			return false
		}
		h.sendError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, fmt.Errorf("invalid multipart form: %w", err))
		return false
	}
	return true
}

// sendError sends a structured error response
func (h *ReportHandler) sendError(c *gin.Context, statusCode int, code string, err error) {
	h.logger.Warn("Request failed", zap.Int("status", statusCode), zap.Error(err))
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    statusCode,
	})
}

func readNamedFile(fh *multipart.FileHeader) (dto.NamedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.NamedFile{}, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return dto.NamedFile{}, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	return dto.NamedFile{Name: fh.Filename, Data: data}, nil
}
