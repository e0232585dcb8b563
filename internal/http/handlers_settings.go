package http

import (
	"net/http"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	theme, err := s.settings.Theme(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	lang, err := s.settings.Language(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Theme    string `json:"theme"`
		Language string `json:"language"`
	}{Theme: theme, Language: lang})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme    string `json:"theme,omitempty"`
		Language string `json:"language,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.Theme != "" {
		if err := s.settings.SetTheme(ctx, req.Theme); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Language != "" {
		if err := s.settings.SetLanguage(ctx, req.Language); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.PIN == "" {
		if err := s.settings.ClearPIN(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := s.settings.SetPIN(r.Context(), req.PIN); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := s.settings.Unlock(r.Context(), req.PIN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Unlocked bool `json:"unlocked"`
	}{Unlocked: ok})
}
