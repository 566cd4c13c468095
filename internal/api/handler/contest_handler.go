package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/contest"
	"codeclash/internal/app/grader"
	"codeclash/internal/common"
	"codeclash/internal/domain/repository"
	"codeclash/internal/problems"
)

// ContestHandler exposes the contest operations. All grading routes resolve
// the participant from the token and pass identity explicitly into the
// engine.
type ContestHandler struct {
	engine   *grader.Engine
	problems *problems.Repository
	contest  *contest.Service
	subs     repository.SubmissionRepository
}

func NewContestHandler(engine *grader.Engine, probs *problems.Repository, contestSrvc *contest.Service, subs repository.SubmissionRepository) *ContestHandler {
	return &ContestHandler{engine: engine, problems: probs, contest: contestSrvc, subs: subs}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contest/status", h.status)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Get("/problems", h.listProblems)
		auth.Get("/solved", h.listSolved)
		auth.Post("/problems/{problemID}/open", h.openProblem)
		auth.Post("/problems/{problemID}/run", h.run)
		auth.Post("/problems/{problemID}/submit", h.submit)
		auth.Post("/problems/{problemID}/save", h.save)
		auth.Post("/end", h.endTest)
	})
}

func (h *ContestHandler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.contest.Status(r.Context(), middleware.OptionalParticipantID(r.Context()))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, status)
}

// listProblems serves the safe view only; hidden test cases and hidden
// reference fields never leave the server.
func (h *ContestHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, h.problems.ListSafeProblems())
}

func (h *ContestHandler) listSolved(w http.ResponseWriter, r *http.Request) {
	participantID, _ := middleware.ParticipantIDFromContext(r.Context())
	ids, err := h.subs.SolvedProblemIDs(r.Context(), participantID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ids)
}

func (h *ContestHandler) openProblem(w http.ResponseWriter, r *http.Request) {
	participantID, problemID, ok := h.pair(w, r)
	if !ok {
		return
	}
	if err := h.engine.Open(r.Context(), participantID, problemID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type codeRequest struct {
	Language      string  `json:"language"`
	Code          string  `json:"code"`
	ActiveSeconds float64 `json:"active_seconds"`
}

func (h *ContestHandler) run(w http.ResponseWriter, r *http.Request) {
	participantID, problemID, ok := h.pair(w, r)
	if !ok {
		return
	}
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.engine.Run(r.Context(), participantID, problemID, req.Language, req.Code)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *ContestHandler) submit(w http.ResponseWriter, r *http.Request) {
	participantID, problemID, ok := h.pair(w, r)
	if !ok {
		return
	}
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.engine.Submit(r.Context(), participantID, problemID, req.Language, req.Code, req.ActiveSeconds)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, outcome)
}

func (h *ContestHandler) save(w http.ResponseWriter, r *http.Request) {
	participantID, problemID, ok := h.pair(w, r)
	if !ok {
		return
	}
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.Save(r.Context(), participantID, problemID, req.Language, req.Code); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ContestHandler) endTest(w http.ResponseWriter, r *http.Request) {
	participantID, _ := middleware.ParticipantIDFromContext(r.Context())
	if err := h.contest.EndTest(r.Context(), participantID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ContestHandler) pair(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	participantID, ok := middleware.ParticipantIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "not logged in")
		return "", 0, false
	}
	problemID, err := strconv.Atoi(chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid problem id")
		return "", 0, false
	}
	return participantID, problemID, true
}
