package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
)

func (s *Server) CreateCompany(c *gin.Context) {
	var req companydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	membership, err := s.companySvc.Create(c.Request.Context(), c.GetString(contextUserIDKey), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

func (s *Server) GetCurrentCompany(c *gin.Context) {
	membership, ok := membershipFromContext(c)
	if !ok {
		AbortWithError(c, companydomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, membership)
}
