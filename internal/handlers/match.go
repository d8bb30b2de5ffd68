package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type MatchHandler struct {
	matchService    services.MatchService
	matchGenService services.MatchGenerationService
}

func NewMatchHandler(matchService services.MatchService, matchGenService services.MatchGenerationService) *MatchHandler {
	return &MatchHandler{matchService: matchService, matchGenService: matchGenService}
}

func (mh *MatchHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	query := services.MatchListQuery{
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
	}
	if raw := c.Query("minScore"); raw != "" {
		minScore, err := strconv.Atoi(raw)
		if err != nil || minScore < 0 || minScore > 100 {
			RespondError(c, apierr.BadRequest("invalid_min_score", fmt.Errorf("minScore must be an integer between 0 and 100")))
			return
		}
		query.MinScore = minScore
	}
	if raw := c.Query("activeThisWeek"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, apierr.BadRequest("invalid_active_this_week", fmt.Errorf("activeThisWeek must be a boolean")))
			return
		}
		query.ActiveThisWeek = active
	}

	matches, err := mh.matchService.List(c.Request.Context(), userID, query)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"matches": matches})
}

func (mh *MatchHandler) Get(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.BadRequest("invalid_match_id", fmt.Errorf("match id must be a uuid")))
		return
	}

	match, err := mh.matchService.Get(c.Request.Context(), userID, matchID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"match": match})
}

func (mh *MatchHandler) Generate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	matches, err := mh.matchGenService.GenerateForUser(c.Request.Context(), userID, mh.matchGenService.OnDemandOptions())
	if err != nil {
		RespondError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		payload = append(payload, gin.H{
			"partner":         m.Partner,
			"partner_profile": m.PartnerProfile,
			"match_score":     m.Score,
			"score_breakdown": m.Breakdown,
			"match_reasons":   m.Reasons,
		})
	}
	RespondOK(c, gin.H{"matches": payload})
}
