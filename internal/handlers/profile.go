package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/requestdata"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) Get(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	profile, err := ph.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	if profile == nil {
		RespondError(c, apierr.NotFound("profile_not_found", fmt.Errorf("no profile for user %s", userID)))
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

func (ph *ProfileHandler) Put(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, apierr.BadRequest("invalid_payload", err))
		return
	}

	profile, err := ph.profileService.Upsert(c.Request.Context(), userID, input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}
