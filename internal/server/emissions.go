package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/pkg/validation"
)

func (s *Server) ListEmissions(c *gin.Context) {
	var errs validation.Errors
	req := emissiondomain.ListRequest{Scope: c.Query("scope")}

	limit, _, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		errs.Add("limit")
	}
	req.Limit = limit

	if req.From, err = parseOptionalTime(c.Query("from"), false); err != nil {
		errs.Add("from")
	}
	if req.To, err = parseOptionalTime(c.Query("to"), true); err != nil {
		errs.Add("to")
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.emissionSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if records == nil {
		records = []emissiondomain.EmissionRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) CreateEmission(c *gin.Context) {
	var req emissiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.emissionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ExtractEmission classifies an evidence document into a stored record.
func (s *Server) ExtractEmission(c *gin.Context) {
	var req emissiondomain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.emissionSvc.Extract(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}
