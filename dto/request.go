package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrEmployeeFileRequired   = errors.New("employee_file is required")
	ErrDependentsFileRequired = errors.New("dependents_file is required")
)

// ReportRequest represents the incoming multipart report request
type ReportRequest struct {
	EmployeeFile   *multipart.FileHeader `form:"employee_file"`
	DependentsFile *multipart.FileHeader `form:"dependents_file"`
	ReportPDF      *multipart.FileHeader `form:"report_pdf"`
	Overrides      map[RateKind]string
}

// Validate performs basic validation on the request
func (r *ReportRequest) Validate() error {
	if r.EmployeeFile == nil {
		return ErrEmployeeFileRequired
	}
	if r.DependentsFile == nil {
		return ErrDependentsFileRequired
	}
	for _, fh := range []*multipart.FileHeader{r.EmployeeFile, r.DependentsFile} {
		if !IsTabularFile(fh.Filename) {
			return fmt.Errorf("invalid file type for %s. Supported: XLSX, CSV", fh.Filename)
		}
	}
	if r.ReportPDF != nil && !strings.EqualFold(filepath.Ext(r.ReportPDF.Filename), ".pdf") {
		return fmt.Errorf("invalid file type for %s. Supported: PDF", r.ReportPDF.Filename)
	}
	return nil
}

// IsTabularFile reports whether filename has a workbook or CSV extension.
func IsTabularFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// ReportInput is the transport-independent input of one report build.
type ReportInput struct {
	Employees  NamedFile
	Dependents NamedFile
	// PDF is optional; nil or empty skips rate extraction.
	PDF       []byte
	Overrides map[RateKind]string
}

// NamedFile carries an uploaded file's name (for format detection) and its bytes.
type NamedFile struct {
	Name string
	Data []byte
}
