package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListEmissionFactors(c *gin.Context) {
	c.JSON(http.StatusOK, s.factors.Get().Categories())
}
