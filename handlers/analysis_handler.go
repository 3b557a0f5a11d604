package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gdprlens-backend/render"
	"gdprlens-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for scenario analyses
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalyzeRequest represents the request body for running an analysis
type AnalyzeRequest struct {
	Scenario string `json:"scenario" binding:"required"`
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	assessment, err := h.analysisService.AnalyzeScenario(c.Request.Context(), req.Scenario)
	if err != nil {
		if errors.Is(err, service.ErrScenarioTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SCENARIO_TOO_SHORT",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": assessment,
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, ok := parseAnalysisID(c)
	if !ok {
		return
	}

	assessment, err := h.analysisService.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": assessment,
	})
}

// ListAnalyses handles GET /api/analyses
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LIMIT",
					"message": "limit must be an integer between 1 and 100",
				},
			})
			return
		}
		limit = parsed
	}

	summaries, err := h.analysisService.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analyses": summaries,
	})
}

// DeleteAnalysis handles DELETE /api/analyses/:id
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	id, ok := parseAnalysisID(c)
	if !ok {
		return
	}

	if err := h.analysisService.DeleteAnalysis(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Analysis deleted",
	})
}

// ExportAnalysis handles GET /api/analyses/:id/export?format=
func (h *AnalysisHandler) ExportAnalysis(c *gin.Context) {
	id, ok := parseAnalysisID(c)
	if !ok {
		return
	}

	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	report, contentType, err := h.analysisService.ExportAnalysis(c.Request.Context(), id, format)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Analysis not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=analysis-"+id.String()+"."+format.Extension())
	c.Data(http.StatusOK, contentType, report)
}

// Stats handles GET /api/stats
func (h *AnalysisHandler) Stats(c *gin.Context) {
	stats, err := h.analysisService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// parseAnalysisID pulls and validates the :id path parameter, writing the
// error response itself when the ID is malformed.
func parseAnalysisID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ANALYSIS_ID",
				"message": "Invalid analysis id format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
