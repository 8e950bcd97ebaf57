package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/prompts"
	"github.com/hackly/garage-backend/internal/requestdata"
	"github.com/hackly/garage-backend/internal/services"
)

type PromptHandler struct {
	log           *logger.Logger
	promptService services.PromptService
}

func NewPromptHandler(log *logger.Logger, promptService services.PromptService) *PromptHandler {
	return &PromptHandler{
		log:           log.With("handler", "PromptHandler"),
		promptService: promptService,
	}
}

func (h *PromptHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ParentID string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rev, err := h.promptService.Create(c.Request.Context(), rd.UserID, services.CreatePromptInput{
		Title:    req.Title,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_prompt_failed", err)
		return
	}
	RespondOK(c, gin.H{"prompt": rev})
}

// List returns one revision per lineage, the consolidation the board renders.
// Supports ?sort=date|votes|score and ?dir=asc|desc (date only).
func (h *PromptHandler) List(c *gin.Context) {
	consolidated := h.promptService.ListConsolidated(c.Request.Context())
	mode := prompts.ParseSortMode(c.Query("sort"))
	asc := strings.EqualFold(c.Query("dir"), "asc")
	RespondOK(c, gin.H{"prompts": prompts.Sort(consolidated, mode, asc)})
}

func (h *PromptHandler) Get(c *gin.Context) {
	rev, err := h.promptService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "prompt_not_found", err)
		return
	}
	RespondOK(c, gin.H{"prompt": rev})
}

func (h *PromptHandler) MarkBest(c *gin.Context) {
	if err := h.promptService.MarkCurrentBest(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, http.StatusBadRequest, "mark_best_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "marked"})
}

func (h *PromptHandler) AttachFile(c *gin.Context) {
	promptID := c.Param("id")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer src.Close()

	file, err := h.promptService.AttachFile(c.Request.Context(), services.AttachFileInput{
		PromptID:     promptID,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Body:         src,
	})
	if err != nil {
		h.log.Error("AttachFile failed", "error", err, "prompt_id", promptID)
		RespondError(c, http.StatusInternalServerError, "attach_file_failed", err)
		return
	}
	RespondOK(c, gin.H{"file": file})
}

func (h *PromptHandler) ListFiles(c *gin.Context) {
	files, err := h.promptService.ListFiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_files_failed", err)
		return
	}
	RespondOK(c, gin.H{"files": files})
}
