package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler implements the single-shared-password dashboard login. The
// password is never stored in plain form; a bcrypt hash is computed once at
// startup from the configured value.
type AuthHandler struct {
	passwordHash []byte
	jwtSecret    string
}

func NewAuthHandler(adminPassword, jwtSecret string) (*AuthHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{passwordHash: hash, jwtSecret: jwtSecret}, nil
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": h.generateJWT()})
}

// generateJWT creates a signed token carrying the admin scope.
func (h *AuthHandler) generateJWT() string {
	claims := jwt.MapClaims{
		"scope": "admin",
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, _ := tok.SignedString([]byte(h.jwtSecret))
	return token
}
