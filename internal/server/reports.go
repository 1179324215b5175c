package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/smallbiznis/airnex/internal/report/domain"
)

const (
	contentTypePDF    = "application/pdf"
	headerReportRef   = "X-Report-Reference"
	reportFileDateFmt = "2006-01-02"
)

// GenerateReport streams the rendered PDF. Failures never reach the body:
// the service only returns bytes once the snapshot is stored.
func (s *Server) GenerateReport(c *gin.Context) {
	var req reportdomain.GenerateRequest
	// An empty body asks for the default report type.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	generated, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report := generated.Report
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="rapport-%s-%s.pdf"`,
		report.Type, report.GeneratedAt.Format(reportFileDateFmt)))
	c.Header(headerReportRef, report.Reference)
	c.Data(http.StatusOK, contentTypePDF, generated.PDF)
}

func (s *Server) ListReports(c *gin.Context) {
	reports, err := s.reportSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if reports == nil {
		reports = []reportdomain.Report{}
	}
	c.JSON(http.StatusOK, reports)
}
