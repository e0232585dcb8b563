package http

import (
	"net/http"
	"strings"
	"time"

	"thuchi/internal/store"
)

type profileResponse struct {
	FullName   string    `json:"fullName"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	AvatarURL  string    `json:"avatarUrl,omitempty"`
	AvatarPath string    `json:"avatarPath,omitempty"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`

	// Complete tells the client whether the profile screen was ever filled
	// in, so first sign-in can route there.
	Complete bool `json:"complete"`
}

func profileBody(p store.Profile) profileResponse {
	return profileResponse{
		FullName:  p.FullName,
		Age:       p.Age,
		Gender:    p.Gender,
		AvatarURL: p.AvatarURL,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		Complete:  strings.TrimSpace(p.FullName) != "",
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	p, err := s.profiles.Get(ctx, ident.UserID, ident.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	body := profileBody(p)
	if path, err := s.profiles.AvatarPath(ctx); err == nil {
		body.AvatarPath = path
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSaveAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	path, err := s.profiles.SaveAvatar(ctx, ident.UserID, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName  string `json:"fullName"`
		Age       int    `json:"age"`
		Gender    string `json:"gender"`
		AvatarURL string `json:"avatarUrl,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	p := store.Profile{
		FullName:  sanitizeInput(req.FullName),
		Age:       req.Age,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Email:     ident.Email,
	}
	if err := s.profiles.Save(ctx, ident.UserID, p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
