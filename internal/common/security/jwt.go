package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// Tokens issues and verifies the identity tokens passed into every grading
// engine call. The engine itself never reads ambient session state.
type Tokens struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokens(key []byte, exp time.Duration) *Tokens {
	return &Tokens{auth: jwtauth.New("HS256", key, nil), exp: exp}
}

func (t *Tokens) Auth() *jwtauth.JWTAuth { return t.auth }

func (t *Tokens) Generate(subjectID, role string) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": subjectID,
		"role":           role,
		"exp":            time.Now().Add(t.exp).Unix(),
		"iat":            time.Now().Unix(),
	}
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

func ParticipantIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["participant_id"].(string)
	if !ok || id == "" {
		return "", errors.New("participant_id claim is missing or not a string")
	}
	return id, nil
}

func RoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
