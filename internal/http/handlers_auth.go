package http

import (
	"context"
	"net/http"

	"thuchi/internal/identity"
	"thuchi/internal/log"
)

type credentialsRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func sessionBody(ident identity.Identity) sessionResponse {
	return sessionResponse{UserID: ident.UserID, Email: ident.Email}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ident, err := s.gate.SignUp(r.Context(), sanitizeInput(req.Email), req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	// A fresh account gets a minimal profile node right away. The signup
	// itself already succeeded, so a store hiccup here is not fatal.
	ctx, cancel := s.sessionContext(r)
	defer cancel()
	if err := s.profiles.Bootstrap(ctx, ident.UserID, ident.Email); err != nil {
		s.log.WarnContext(ctx, "Profile bootstrap failed",
			log.FieldUserID, ident.UserID,
			log.FieldError, err)
	}
	s.persistSession(ctx, ident)

	writeJSON(w, http.StatusCreated, sessionBody(ident))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ident, err := s.gate.SignIn(r.Context(), sanitizeInput(req.Email), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.persistSession(r.Context(), ident)
	writeJSON(w, http.StatusOK, sessionBody(ident))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.gate.SignOut()
	if err := s.sessions.Clear(r.Context()); err != nil {
		s.log.WarnContext(r.Context(), "Session clear failed", log.FieldError, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// persistSession remembers the identity for the next process start. The
// sign-in already succeeded, so a local write failure only costs the
// restore.
func (s *Server) persistSession(ctx context.Context, ident identity.Identity) {
	if err := s.sessions.Save(ctx, ident); err != nil {
		s.log.WarnContext(ctx, "Session persist failed",
			log.FieldUserID, ident.UserID,
			log.FieldError, err)
	}
}

func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.gate.SendPasswordReset(r.Context(), sanitizeInput(req.Email)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.gate.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
