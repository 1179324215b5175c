package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	recommendationdomain "github.com/smallbiznis/airnex/internal/recommendation/domain"
)

type updateRecommendationStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) ListRecommendations(c *gin.Context) {
	items, err := s.recommendationSvc.GetOrGenerate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilRecommendations(items))
}

func (s *Server) RegenerateRecommendations(c *gin.Context) {
	items, err := s.recommendationSvc.Regenerate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, nonNilRecommendations(items))
}

func (s *Server) UpdateRecommendationStatus(c *gin.Context) {
	var req updateRecommendationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.recommendationSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func nonNilRecommendations(items []recommendationdomain.Recommendation) []recommendationdomain.Recommendation {
	if items == nil {
		return []recommendationdomain.Recommendation{}
	}
	return items
}
