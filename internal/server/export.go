package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clientdesk/internal/export"
)

type exportRequest struct {
	Type string `json:"type"`
}

func (s *Server) ExportCSV(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.exportSvc.Export(c.Request.Context(), export.Request{
		Type: export.Type(strings.TrimSpace(req.Type)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, "text/csv", result.Content)
}

func (s *Server) ListReminderLogs(c *gin.Context) {
	limit := parseOptionalInt(c.Query("limit"), 100)

	logs, err := s.reminderLogRepo.ListRecent(c.Request.Context(), s.db, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
