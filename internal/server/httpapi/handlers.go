package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lorenzotiziani/authcore/internal/common"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps typed service failures onto status codes. Unrecognized
// errors become an opaque 500; their text never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrPasswordsDoNotMatch),
		errors.Is(err, common.ErrCurrentPasswordIncorrect),
		errors.Is(err, common.ErrPasswordUnchanged):
		writeJSON(w, http.StatusBadRequest, envelope{Error: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, envelope{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Error: err.Error()})
	case errors.Is(err, common.ErrorConflict):
		writeJSON(w, http.StatusConflict, envelope{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Error: common.ErrorInternal.Error()})
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "email and password are required"})
		return
	}

	user, err := s.sessions.Register(r.Context(), req.Email, req.Password, req.Confirm, req.FirstName, req.LastName)
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "reason", err.Error())
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "account registered", "userID", user.ID)
	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	sess, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "login", "userID", sess.User.ID)
	writeData(w, http.StatusOK, sess)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "refresh token is required"})
		return
	}

	sess, err := s.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	if req.RefreshToken != "" {
		if err := s.sessions.Logout(r.Context(), req.RefreshToken); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.sessions.GetUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := s.sessions.UpdateProfile(r.Context(), userIDFrom(r.Context()), req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "current and new passwords are required"})
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.sessions.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "password changed", "userID", userID)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "password updated"})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	if err := s.sessions.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "account deleted", "userID", userID)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "account deleted"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessions.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}
