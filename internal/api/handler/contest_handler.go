package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"podium/internal/api/middleware"
	"podium/internal/app/service"
	"podium/internal/common"
	"podium/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
	rescoreService *service.RescoreService
}

func NewContestHandler(cs *service.ContestService, rs *service.RescoreService) *ContestHandler {
	return &ContestHandler{contestService: cs, rescoreService: rs}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)            // GET /api/v1/contests
	r.Get("/{contestKey}", h.getContest)  // GET /api/v1/contests/june-round

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{contestKey}/join", h.joinContest)
		authed.Post("/{contestKey}/submissions", h.recordSubmission)
	})

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Post("/", h.createContest)
		admin.Put("/{contestKey}", h.updateContest)
		admin.Post("/{contestKey}/rescore", h.rescoreContest)
	})
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	var req service.SaveContestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.CreateContest(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) updateContest(w http.ResponseWriter, r *http.Request) {
	var req service.SaveContestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.UpdateContest(r.Context(), chi.URLParam(r, "contestKey"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.GetContestByKey(r.Context(), chi.URLParam(r, "contestKey"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	contests, total, err := h.contestService.ListContests(r.Context(), limit, offset)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type PaginatedContestsResponse struct {
		Contests []model.Contest `json:"contests"`
		Total    int             `json:"total"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedContestsResponse{Contests: contests, Total: total})
}

func (h *ContestHandler) joinContest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Mode model.ParticipationMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = model.ModeLive
	}

	part, err := h.contestService.JoinContest(r.Context(), chi.URLParam(r, "contestKey"), userID, req.Mode)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, part)
}

func (h *ContestHandler) recordSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		SubmissionID     string `json:"submission_id"`
		ContestProblemID string `json:"contest_problem_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.SubmissionID == "" || req.ContestProblemID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "submission_id and contest_problem_id are required")
		return
	}

	cs, err := h.contestService.RecordSubmission(r.Context(), chi.URLParam(r, "contestKey"), userID, req.SubmissionID, req.ContestProblemID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, cs)
}

func (h *ContestHandler) rescoreContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.GetContestByKey(r.Context(), chi.URLParam(r, "contestKey"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if err := h.rescoreService.RescoreContest(r.Context(), contest.ID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Contest " + contest.Key + " rescored"})
}
