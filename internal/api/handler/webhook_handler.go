package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"podium/internal/app/service"
	"podium/internal/common"

	"github.com/go-chi/chi/v5"
)

type WebhookHandler struct {
	judgeResultService *service.JudgeResultService
}

func NewWebhookHandler(js *service.JudgeResultService) *WebhookHandler {
	return &WebhookHandler{judgeResultService: js}
}

func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	// The grading subsystem authenticates with a service token carrying the
	// judge role, verified by the surrounding middleware.
	r.Post("/judge", h.handleJudgeResult)
}

func (h *WebhookHandler) handleJudgeResult(w http.ResponseWriter, r *http.Request) {
	var payload service.JudgedResultPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("ERROR: Webhook: Invalid payload: %v", err)
		common.RespondWithError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	defer r.Body.Close()

	if err := h.judgeResultService.HandleJudgedResult(r.Context(), payload); err != nil {
		log.Printf("ERROR: Webhook: Error handling verdict for submission %s: %v", payload.SubmissionID, err)
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Verdict processed for submission " + payload.SubmissionID})
}
