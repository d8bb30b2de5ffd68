package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type AnalysisHandler struct {
	analysisService services.ProfileAnalysisService
}

func NewAnalysisHandler(analysisService services.ProfileAnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (ah *AnalysisHandler) AnalyzeProfile(c *gin.Context) {
	var input services.ProfileAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, apierr.BadRequest("invalid_payload", err))
		return
	}

	analysis, err := ah.analysisService.Analyze(c.Request.Context(), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, analysis)
}
