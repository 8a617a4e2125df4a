package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chanvault/chanvault/internal/server/models"
)

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, map[string]any{"user": toUserDTO(user)})
}

// handleUserUploads lists another user's uploads only for root callers;
// everyone can list their own.
func (s *HTTPServer) handleUserUploads(w http.ResponseWriter, r *http.Request) {
	caller, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	targetID := chi.URLParam(r, "id")
	if !models.IsOwnerOrRoot(caller, targetID) {
		writeFail(w, "You do not have permission to view this user's uploads")
		return
	}

	items, err := s.users.Uploads(r.Context(), targetID)
	if err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, map[string]any{"uploads": toUploadDTOs(items)})
}

// handleGetUser serves a user record to its owner or to root.
func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	targetID := chi.URLParam(r, "id")
	if !models.IsOwnerOrRoot(caller, targetID) {
		writeFail(w, "You do not have permission to view this user")
		return
	}

	user, err := s.users.Get(r.Context(), targetID)
	if err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, map[string]any{"user": toUserDTO(user)})
}

type registerRequest struct {
	AccessLevel string `json:"accessLevel"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkPermissions(r, models.AccessLevelRoot); err != nil {
		writeFail(w, err.Error())
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, "invalid request body")
		return
	}

	level := models.AccessLevel(req.AccessLevel)
	if !models.ValidAccessLevel(level) {
		writeFail(w, "Invalid access level")
		return
	}

	user, token, err := s.users.Register(r.Context(), level)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	s.logger.Info(r.Context(), "user registered", "id", user.ID, "access_level", string(user.AccessLevel))
	writeOK(w, map[string]any{"user": toUserDTO(user), "token": token})
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkPermissions(r, models.AccessLevelRoot); err != nil {
		writeFail(w, err.Error())
		return
	}

	if err := s.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, nil)
}
