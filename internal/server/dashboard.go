package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardStats(c *gin.Context) {
	stats, err := s.dashboardSvc.Stats(c.Request.Context(), c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
