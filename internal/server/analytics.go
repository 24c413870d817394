package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/smallbiznis/clientdesk/internal/analytics/domain"
)

func (s *Server) AnalyticsSummary(c *gin.Context) {
	var query analyticsdomain.SummaryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.analyticsSvc.Summary(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsClientScores(c *gin.Context) {
	resp, err := s.analyticsSvc.ClientScores(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsInvoices(c *gin.Context) {
	var query analyticsdomain.InvoiceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.analyticsSvc.Invoices(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsForecast(c *gin.Context) {
	resp, err := s.analyticsSvc.Forecast(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsEngagement(c *gin.Context) {
	resp, err := s.analyticsSvc.Engagement(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AnalyticsOverview(c *gin.Context) {
	resp, err := s.analyticsSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
