package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/saralbooks/saralbooks/internal/report/domain"
)

func (s *Server) GetReportSummary(c *gin.Context) {
	var query reportdomain.SummaryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.Summary(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
