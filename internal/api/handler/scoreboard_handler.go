package handler

import (
	"net/http"

	"podium/internal/api/middleware"
	"podium/internal/app/service"
	"podium/internal/common"

	"github.com/go-chi/chi/v5"
)

type ScoreboardHandler struct {
	scoreboardService *service.ScoreboardService
}

func NewScoreboardHandler(ss *service.ScoreboardService) *ScoreboardHandler {
	return &ScoreboardHandler{scoreboardService: ss}
}

func (h *ScoreboardHandler) RegisterRoutes(r chi.Router) {
	// Public for public contests; the viewer identity, when present, only
	// widens what is shown.
	r.With(middleware.OptionalViewer).Get("/{contestKey}/scoreboard", h.getScoreboard)
}

func (h *ScoreboardHandler) getScoreboard(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	viewerRole, _ := middleware.GetUserRoleFromContext(r.Context())

	view, err := h.scoreboardService.GetScoreboard(r.Context(), chi.URLParam(r, "contestKey"), viewerID, viewerRole)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}
