package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/services"
)

type EvaluationHandler struct {
	log         *logger.Logger
	evalService services.EvaluationService
}

func NewEvaluationHandler(log *logger.Logger, evalService services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		log:         log.With("handler", "EvaluationHandler"),
		evalService: evalService,
	}
}

// Create enqueues a request; scoring happens in the background worker. The
// response carries the request id so the caller can watch its SSE channel.
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req struct {
		Prompt         string `json:"prompt"`
		PromptID       string `json:"prompt_id"`
		SourcePromptID string `json:"source_prompt_id"`
		SelectedModel  string `json:"selected_model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	request, err := h.evalService.CreateRequest(c.Request.Context(), services.CreateEvaluationInput{
		Prompt:         req.Prompt,
		PromptID:       req.PromptID,
		SourcePromptID: req.SourcePromptID,
		SelectedModel:  req.SelectedModel,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_evaluation_failed", err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}

func (h *EvaluationHandler) Get(c *gin.Context) {
	request, err := h.evalService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "evaluation_not_found", err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}

func (h *EvaluationHandler) LatestForPrompt(c *gin.Context) {
	request, err := h.evalService.LatestDoneResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "latest_result_failed", err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}
