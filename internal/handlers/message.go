package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (mh *MessageHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.BadRequest("invalid_match_id", fmt.Errorf("match id must be a uuid")))
		return
	}

	messages, err := mh.messageService.List(c.Request.Context(), userID, matchID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

func (mh *MessageHandler) Send(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.BadRequest("invalid_match_id", fmt.Errorf("match id must be a uuid")))
		return
	}

	var input struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, apierr.BadRequest("invalid_payload", err))
		return
	}

	message, err := mh.messageService.Send(c.Request.Context(), userID, matchID, input.Body)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": message})
}
