package dto

// Error codes carried in ErrorResponse.Error
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeSchemaNotFound = "SCHEMA_NOT_FOUND"
	ErrCodeReportFailed   = "REPORT_FAILED"
	ErrCodeTooLarge       = "PAYLOAD_TOO_LARGE"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ReportResponse is the final response structure
type ReportResponse struct {
	ReportID    string  `json:"report_id"`
	Report      *Report `json:"report"`
	ProcessedAt string  `json:"processed_at"`
}

// RatesResponse is returned by the rates-only endpoint
type RatesResponse struct {
	ReportID    string      `json:"report_id"`
	Extraction  *Extraction `json:"extraction"`
	ProcessedAt string      `json:"processed_at"`
}
