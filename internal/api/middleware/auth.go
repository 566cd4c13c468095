package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"codeclash/internal/common"
	"codeclash/internal/common/security"
)

type contextKey string

const (
	ParticipantIDCtxKey contextKey = "participantID"
	RoleCtxKey          contextKey = "role"
)

// Authenticator requires a valid token and stashes the participant identity
// in the request context. The grading engine receives identity as an
// explicit argument, never from ambient session state.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "authorization token required")
			return
		}

		participantID, err := security.ParticipantIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims: "+err.Error())
			return
		}
		role, err := security.RoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ParticipantIDCtxKey, participantID)
		ctx = context.WithValue(ctx, RoleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleCtxKey).(string)
		if !ok || role != security.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ParticipantIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ParticipantIDCtxKey).(string)
	return id, ok
}

// OptionalParticipantID returns the caller's participant id when a valid
// token rode along on an otherwise public endpoint.
func OptionalParticipantID(ctx context.Context) string {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return ""
	}
	id, err := security.ParticipantIDFromClaims(claims)
	if err != nil {
		return ""
	}
	return id
}
