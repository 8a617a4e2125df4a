package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chanvault/chanvault/internal/server/models"
)

// Every route answers with the uniform result envelope: succ plus either the
// operation payload or a human-readable reason. Failures never surface as
// non-200 statuses; the only deviation is the 307 redirect for non-text
// content.

type userDTO struct {
	ID          string    `json:"id"`
	AccessLevel string    `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
}

type uploadDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, AccessLevel: string(u.AccessLevel), CreatedAt: u.CreatedAt}
}

func toUploadDTOs(items []*models.Content) []uploadDTO {
	out := make([]uploadDTO, 0, len(items))
	for _, c := range items {
		out = append(out, uploadDTO{ID: c.ID, Type: string(c.Kind), CreatedAt: c.CreatedAt})
	}
	return out
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, reason string) {
	writeJSON(w, map[string]any{"succ": false, "reason": reason})
}

func writeOK(w http.ResponseWriter, fields map[string]any) {
	out := map[string]any{"succ": true}
	for k, v := range fields {
		out[k] = v
	}
	writeJSON(w, out)
}
