package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finbuddy/internal/auth"
	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

const minPasswordLength = 8

type registerRequest struct {
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	MonthlyIncome json.Number `json:"monthly_income"`
	SavingsGoal   json.Number `json:"savings_goal"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type settingsRequest struct {
	MonthlyIncome *json.Number `json:"monthly_income"`
	SavingsGoal   *json.Number `json:"savings_goal"`
	GeminiAPIKey  *string      `json:"gemini_api_key"`
}

type userResponse struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	MonthlyIncome float64 `json:"monthly_income"`
	SavingsGoal   float64 `json:"savings_goal"`
	HasGeminiKey  bool    `json:"has_gemini_key"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		MonthlyIncome: u.MonthlyIncome.Amount(),
		SavingsGoal:   u.SavingsGoal.Amount(),
		HasGeminiKey:  u.GeminiAPIKey != "",
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = sanitizeInput(req.Username)
	req.Email = sanitizeInput(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	income, err := parseAmount(req.MonthlyIncome, true)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid monthly income")
		return
	}
	goal, err := parseAmount(req.SavingsGoal, true)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid savings goal")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := core.User{
		Username:      req.Username,
		Email:         req.Email,
		MonthlyIncome: core.Money{Cents: income},
		SavingsGoal:   core.Money{Cents: goal},
	}

	id, err := s.storage.CreateUser(r.Context(), user, hash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create user", "error", err, "email", req.Email)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	user.ID = id

	token, err := s.issueSession(r, id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue session", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, hash, err := s.storage.GetUserByEmail(r.Context(), sanitizeInput(req.Email))
	if err != nil || !auth.CheckPassword(hash, req.Password) {
		// Same answer for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueSession(r, user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue session", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.storage.DeleteSession(r.Context(), bearerToken(r)); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete session", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user, err := s.storage.GetUser(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", "PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := userIDFrom(r)
	user, err := s.storage.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Omitted fields keep their current values.
	income := user.MonthlyIncome
	goal := user.SavingsGoal
	apiKey := user.GeminiAPIKey

	if req.MonthlyIncome != nil {
		cents, err := parseAmount(*req.MonthlyIncome, true)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid monthly income")
			return
		}
		income = core.Money{Cents: cents}
	}
	if req.SavingsGoal != nil {
		cents, err := parseAmount(*req.SavingsGoal, true)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid savings goal")
			return
		}
		goal = core.Money{Cents: cents}
	}
	if req.GeminiAPIKey != nil {
		apiKey = sanitizeInput(*req.GeminiAPIKey)
	}

	if err := s.storage.UpdateUserSettings(r.Context(), userID, income, goal, apiKey); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update settings", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "settings update failed")
		return
	}

	user.MonthlyIncome = income
	user.SavingsGoal = goal
	user.GeminiAPIKey = apiKey
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) issueSession(r *http.Request, userID int64) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}
	if err := s.storage.CreateSession(r.Context(), token, userID, time.Now().Add(s.sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}
