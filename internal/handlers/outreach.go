package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type OutreachHandler struct {
	outreachService services.OutreachService
}

func NewOutreachHandler(outreachService services.OutreachService) *OutreachHandler {
	return &OutreachHandler{outreachService: outreachService}
}

func (oh *OutreachHandler) Draft(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	var input struct {
		MatchID      string `json:"matchId"`
		Tone         string `json:"tone"`
		CallToAction string `json:"callToAction"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, apierr.BadRequest("invalid_payload", err))
		return
	}
	matchID, err := uuid.Parse(input.MatchID)
	if err != nil {
		RespondError(c, apierr.BadRequest("invalid_match_id", fmt.Errorf("matchId must be a uuid")))
		return
	}

	draft, err := oh.outreachService.Draft(c.Request.Context(), userID, services.OutreachInput{
		MatchID:      matchID,
		Tone:         input.Tone,
		CallToAction: input.CallToAction,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, draft)
}
