package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/contest"
	"codeclash/internal/app/leaderboard"
	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/repository"
)

type AdminHandler struct {
	contest      *contest.Service
	leaderboard  *leaderboard.Service
	participants repository.ParticipantRepository
	subs         repository.SubmissionRepository
	tokens       *security.Tokens
	passwordHash string
}

func NewAdminHandler(
	contestSrvc *contest.Service,
	board *leaderboard.Service,
	participants repository.ParticipantRepository,
	subs repository.SubmissionRepository,
	tokens *security.Tokens,
	passwordHash string,
) *AdminHandler {
	return &AdminHandler{
		contest:      contestSrvc,
		leaderboard:  board,
		participants: participants,
		subs:         subs,
		tokens:       tokens,
		passwordHash: passwordHash,
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Post("/start", h.startContest)
		admin.Post("/stop", h.stopContest)
		admin.Get("/leaderboard", h.getLeaderboard)
		admin.Get("/participants", h.listParticipants)
		admin.Get("/participants/{participantID}", h.participantDetail)
		admin.Post("/participants/{participantID}/end", h.endParticipant)
	})
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if h.passwordHash == "" || !security.CheckPasswordHash(req.Password, h.passwordHash) {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	token, err := h.tokens.Generate("admin", security.RoleAdmin)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) startContest(w http.ResponseWriter, r *http.Request) {
	startTime, err := h.contest.Start(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "start_time": startTime})
}

func (h *AdminHandler) stopContest(w http.ResponseWriter, r *http.Request) {
	if err := h.contest.Stop(r.Context()); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboard.Rank(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, board)
}

func (h *AdminHandler) listParticipants(w http.ResponseWriter, r *http.Request) {
	list, err := h.participants.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, list)
}

// participantDetail returns one participant's submissions joined with their
// solved marks, including the stored code for each pair.
func (h *AdminHandler) participantDetail(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")
	if _, err := h.participants.FindByID(r.Context(), participantID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	details, err := h.subs.ListByParticipant(r.Context(), participantID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}

// endParticipant force-ends a participant's test; they cannot log back in.
func (h *AdminHandler) endParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")
	if _, err := h.participants.FindByID(r.Context(), participantID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if err := h.contest.EndTest(r.Context(), participantID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
