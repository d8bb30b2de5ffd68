package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/services"
)

type CronHandler struct {
	log             *logger.Logger
	secret          string
	matchGenService services.MatchGenerationService
}

func NewCronHandler(log *logger.Logger, secret string, matchGenService services.MatchGenerationService) *CronHandler {
	return &CronHandler{log: log.With("handler", "CronHandler"), secret: secret, matchGenService: matchGenService}
}

// RefreshMatches runs the scheduled refresh over all active users. The
// route is gated by a shared secret rather than a user token.
func (ch *CronHandler) RefreshMatches(c *gin.Context) {
	if !ch.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := ch.matchGenService.RefreshAll(c.Request.Context())
	if err != nil {
		ch.log.Error("scheduled match refresh aborted", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "summary": summary})
}

func (ch *CronHandler) authorized(c *gin.Context) bool {
	if ch.secret == "" {
		// No secret configured means the route is open, for local
		// development only.
		return true
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return false
	}
	token := strings.TrimSpace(authHeader[7:])
	return subtle.ConstantTimeCompare([]byte(token), []byte(ch.secret)) == 1
}
