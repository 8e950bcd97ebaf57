package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/services"
)

type ArchiveHandler struct {
	log            *logger.Logger
	archiveService services.ArchiveService
	roundService   services.RoundService
}

func NewArchiveHandler(log *logger.Logger, archiveService services.ArchiveService, roundService services.RoundService) *ArchiveHandler {
	return &ArchiveHandler{
		log:            log.With("handler", "ArchiveHandler"),
		archiveService: archiveService,
		roundService:   roundService,
	}
}

func (h *ArchiveHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries := h.archiveService.List(c.Request.Context(), limit)
	RespondOK(c, gin.H{"entries": entries})
}

// UpdateAIReply backfills the model answer on an archived round.
func (h *ArchiveHandler) UpdateAIReply(c *gin.Context) {
	var req struct {
		AIReply string `json:"ai_reply"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if ok := h.archiveService.Update(c.Request.Context(), c.Param("id"), map[string]any{"ai_reply": req.AIReply}); !ok {
		RespondError(c, http.StatusNotFound, "archive_update_failed", nil)
		return
	}
	RespondOK(c, gin.H{"message": "updated"})
}

func (h *ArchiveHandler) CurrentRound(c *gin.Context) {
	RespondOK(c, gin.H{"round": h.roundService.Current(c.Request.Context())})
}
