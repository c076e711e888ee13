package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/backend"
	"github.com/sanoh-inlab/labelgo/internal/middleware"
	"github.com/sanoh-inlab/labelgo/internal/models"
	"github.com/sanoh-inlab/labelgo/internal/utils"
	"gorm.io/gorm"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login authenticates against a local account first, then the label backend
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if loginReq.Username == "" || loginReq.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	session, user, err := r.authenticate(req, loginReq)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, errInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("❌ Login failed for %s: %v", loginReq.Username, err)
		respondServiceError(w, err)
		return
	}

	token, err := utils.GenerateSessionToken(session, r.cfg.JWTSecret, utils.SessionTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Printf("🔑 %s logged in", session.Username)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":     token,
		"expiresIn": int(utils.SessionTTL.Seconds()),
		"user": map[string]interface{}{
			"username": session.Username,
			"role":     session.Role,
			"profile":  user,
		},
	})
}

var errInvalidCredentials = errors.New("invalid credentials")

func (r *Router) authenticate(req *http.Request, loginReq LoginRequest) (utils.Session, *models.UserAuth, error) {
	if r.db != nil {
		var user models.UserAuth
		err := r.db.Where("username = ? AND is_active = ?", loginReq.Username, true).First(&user).Error
		if err == nil {
			if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
				return utils.Session{}, nil, errInvalidCredentials
			}
			now := time.Now()
			user.LastLogin = &now
			r.db.Model(&user).Update("last_login", now)
			return utils.Session{Username: user.Username, Role: user.Role}, &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Session{}, nil, err
		}
	}

	token, err := r.backend.Login(req.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		return utils.Session{}, nil, err
	}
	return utils.Session{Username: loginReq.Username, Role: "operator", BackendToken: token}, nil, nil
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Sessions are stateless; the dashboard drops its token
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// backendToken returns the token forwarded to the label backend. Local
// accounts fall back to the configured service token.
func (r *Router) backendToken(req *http.Request) (string, string) {
	session, _ := middleware.SessionFromContext(req.Context())
	if session.BackendToken != "" {
		return session.BackendToken, session.Username
	}
	return r.cfg.Backend.Token, session.Username
}
