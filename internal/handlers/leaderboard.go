package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/services"
)

type LeaderboardHandler struct {
	log                *logger.Logger
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(log *logger.Logger, leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		log:                log.With("handler", "LeaderboardHandler"),
		leaderboardService: leaderboardService,
	}
}

func (h *LeaderboardHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries := h.leaderboardService.List(c.Request.Context(), limit)
	RespondOK(c, gin.H{"entries": entries})
}
