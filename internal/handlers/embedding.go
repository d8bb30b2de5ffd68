package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type EmbeddingHandler struct {
	embeddingService services.EmbeddingService
}

func NewEmbeddingHandler(embeddingService services.EmbeddingService) *EmbeddingHandler {
	return &EmbeddingHandler{embeddingService: embeddingService}
}

func (eh *EmbeddingHandler) Generate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		RespondError(c, apierr.BadRequest("invalid_payload", err))
		return
	}

	embeddingID, err := eh.embeddingService.GenerateForProfile(c.Request.Context(), userID, input.Text)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"embeddingId": embeddingID})
}
