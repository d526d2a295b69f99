package handler

import (
	"encoding/json"
	"net/http"

	"podium/internal/api/middleware"
	"podium/internal/app/service"
	"podium/internal/common"
	"podium/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ParticipationHandler struct {
	contestService    *service.ContestService
	scoreboardService *service.ScoreboardService
}

func NewParticipationHandler(cs *service.ContestService, ss *service.ScoreboardService) *ParticipationHandler {
	return &ParticipationHandler{contestService: cs, scoreboardService: ss}
}

func (h *ParticipationHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/{participationID}/score", h.getScore)
		authed.Post("/{participationID}/reset", h.resetVirtual)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Post("/{participationID}/disqualify", h.setDisqualified)
	})
}

// getScore serves a single recomputed row, including spectator rows that
// never appear on the board.
func (h *ParticipationHandler) getScore(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	row, err := h.scoreboardService.GetParticipationScore(r.Context(), chi.URLParam(r, "participationID"), userID, role)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, row)
}

// resetVirtual retires the caller's virtual attempt so they can rejoin
// virtually with a clean window. Admins may reset on behalf of any user.
func (h *ParticipationHandler) resetVirtual(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	err := h.contestService.ResetVirtualParticipation(r.Context(), chi.URLParam(r, "participationID"), userID, model.Privileged(role))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondNoContent(w)
}

func (h *ParticipationHandler) setDisqualified(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Disqualified bool `json:"disqualified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.contestService.SetDisqualified(r.Context(), chi.URLParam(r, "participationID"), req.Disqualified); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondNoContent(w)
}
