package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"codeclash/internal/app/contest"
	"codeclash/internal/common"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

type AuthHandler struct {
	participants repository.ParticipantRepository
	contest      *contest.Service
	tokens       *security.Tokens
}

func NewAuthHandler(participants repository.ParticipantRepository, contestSrvc *contest.Service, tokens *security.Tokens) *AuthHandler {
	return &AuthHandler{participants: participants, contest: contestSrvc, tokens: tokens}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
}

type registerRequest struct {
	Name         string `json:"name"`
	College      string `json:"college"`
	SystemNumber string `json:"system_number"`
	Phone        string `json:"phone"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Name    string `json:"name"`
}

// register creates or resumes a participant keyed by phone number and hands
// out the identity token every engine call requires.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.College = strings.TrimSpace(req.College)
	req.SystemNumber = strings.TrimSpace(req.SystemNumber)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.College == "" || req.SystemNumber == "" || req.Phone == "" {
		common.RespondWithError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	active, err := h.contest.IsActive(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if !active {
		common.RespondWithError(w, http.StatusForbidden, "contest has not started yet, please wait")
		return
	}

	existing, err := h.participants.FindByPhone(r.Context(), req.Phone)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if existing != nil {
		if existing.Submitted {
			common.RespondWithError(w, http.StatusForbidden, "you have already submitted and ended the test")
			return
		}
		h.respondWithToken(w, existing)
		return
	}

	p := &model.Participant{
		ID:           uuid.NewString(),
		Name:         req.Name,
		College:      req.College,
		SystemNumber: req.SystemNumber,
		Phone:        req.Phone,
		LoginTime:    time.Now().UTC(),
	}
	if err := h.participants.Create(r.Context(), p); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	h.respondWithToken(w, p)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, p *model.Participant) {
	token, err := h.tokens.Generate(p.ID, security.RoleParticipant)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, registerResponse{Success: true, Token: token, Name: p.Name})
}
