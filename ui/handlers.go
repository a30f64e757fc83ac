package ui

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datalens/adapters/deck"
	"datalens/adapters/excel"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal/analyzer"
	"datalens/internal/errors"
	"datalens/internal/export"
	"datalens/internal/store"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"MaxFileMB": s.config.Upload.MaxFileSize / (1024 * 1024),
	})
}

// handleFileUpload validates the uploaded file, runs the analysis, and
// renders the result page. A parse failure is user-visible and produces no
// partial report.
func (s *Server) handleFileUpload(c *gin.Context) {
	s.logger.Info("[handleFileUpload] Starting file upload process")

	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		s.logger.Warn("[handleFileUpload] FAILED - No file uploaded: %v", err)
		s.renderError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > s.config.Upload.MaxFileSize {
		s.logger.Warn("[handleFileUpload] FAILED - File too large: %d bytes", header.Size)
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit",
			float64(header.Size)/(1024*1024), s.config.Upload.MaxFileSize/(1024*1024)))
		return
	}

	filename := header.Filename
	if !hasValidExtension(filename) {
		s.logger.Warn("[handleFileUpload] FAILED - Invalid file extension: %s", filename)
		s.renderError(c, http.StatusBadRequest, "Only CSV (.csv) and Excel (.xlsx) files are allowed")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !isExpectedMimeType(contentType) {
		// Some browsers misreport CSV MIME types; log and continue.
		s.logger.Warn("[handleFileUpload] Unexpected MIME type: %s for file: %s", contentType, filename)
	}

	// Bound the number of analyses running at once.
	if err := s.analysisSem.Acquire(c.Request.Context(), 1); err != nil {
		s.renderError(c, http.StatusServiceUnavailable, "Upload cancelled")
		return
	}
	defer s.analysisSem.Release(1)

	content, err := io.ReadAll(io.LimitReader(file, s.config.Upload.MaxFileSize+1))
	if err != nil {
		s.logger.Error("[handleFileUpload] FAILED - Could not read upload: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	if int64(len(content)) > s.config.Upload.MaxFileSize {
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("File exceeds the %d MB limit", s.config.Upload.MaxFileSize/(1024*1024)))
		return
	}

	ds, err := parseByExtension(filename, content)
	if err != nil {
		s.logger.Warn("[handleFileUpload] FAILED - Parse error for %s: %v", filename, err)
		s.renderError(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse %s: %v", filename, err))
		return
	}

	report := analyzer.Summarize(ds)
	analysis := s.store.Put(filename, ds, report)

	s.logger.Info("[handleFileUpload] Analysis %s complete: %d rows, %d columns",
		analysis.ID, report.RowCount, report.ColumnCount)
	s.renderResult(c, analysis)
}

func (s *Server) handleResult(c *gin.Context) {
	analysis, ok := s.lookup(c)
	if !ok {
		return
	}
	s.renderResult(c, analysis)
}

func (s *Server) handleSummaryDownload(c *gin.Context) {
	analysis, ok := s.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dataset_overview.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(analysis.Report.Summary))
}

func (s *Server) handleCSVDownload(c *gin.Context) {
	analysis, ok := s.lookup(c)
	if !ok {
		return
	}
	data, err := export.CSVBytes(analysis.Dataset)
	if err != nil {
		s.logger.Error("[handleCSVDownload] FAILED - %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to export dataset")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analyzed_data.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) handleChartsDownload(c *gin.Context) {
	analysis, ok := s.lookup(c)
	if !ok {
		return
	}
	buf, err := excel.WriteChartWorkbook(analysis.Report, analysis.Dataset)
	if err != nil {
		if errors.GetCode(err) == errors.CodeInvalidInput {
			s.renderError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("[handleChartsDownload] FAILED - %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to build chart workbook")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dataset_charts.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) handleDeckDownload(c *gin.Context) {
	analysis, ok := s.lookup(c)
	if !ok {
		return
	}
	buf, err := deck.Build(analysis.Report, deck.DefaultOptions())
	if err != nil {
		if errors.GetCode(err) == errors.CodeInvalidInput {
			s.renderError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("[handleDeckDownload] FAILED - %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to build presentation")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dataset_analysis_report.pptx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.presentationml.presentation", buf.Bytes())
}

// lookup resolves the :id path parameter to a stored analysis
func (s *Server) lookup(c *gin.Context) (*store.Analysis, bool) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "Invalid analysis ID")
		return nil, false
	}
	analysis, err := s.store.Get(id)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Analysis not found or expired")
		return nil, false
	}
	return analysis, true
}

func (s *Server) renderResult(c *gin.Context, analysis *store.Analysis) {
	chartable := 0
	for _, col := range analysis.Report.Columns {
		if col.ChartEligible() {
			chartable++
		}
	}
	c.HTML(http.StatusOK, "result.html", gin.H{
		"ID":          analysis.ID.String(),
		"Filename":    analysis.Filename,
		"Report":      analysis.Report,
		"SummaryHTML": renderMarkdown(analysis.Report.Summary),
		"Chartable":   chartable,
	})
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}

// renderMarkdown converts the report text (markdown bullets with bold
// column names) into safe display HTML.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// parseByExtension dispatches the upload to the CSV or workbook parser
func parseByExtension(filename string, content []byte) (*dataset.Dataset, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return excel.ReadDatasetBytes(content)
	}
	return analyzer.Parse(string(content))
}

func hasValidExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".xlsx")
}

func isExpectedMimeType(contentType string) bool {
	switch contentType {
	case "text/csv", "application/csv", "text/plain",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return true
	}
	return strings.Contains(contentType, "csv") || strings.Contains(contentType, "spreadsheet")
}
