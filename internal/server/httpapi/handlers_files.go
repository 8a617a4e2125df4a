package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chanvault/chanvault/internal/server/models"
	"github.com/chanvault/chanvault/internal/server/validation"
)

// checkPermissions authenticates the caller and enforces the role gate.
// Matches the composition order required for every protected route:
// credential first, role second.
func (s *HTTPServer) checkPermissions(r *http.Request, required models.AccessLevel) (*models.User, error) {
	user, err := s.users.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	if err := s.users.Authorize(user, required); err != nil {
		return nil, err
	}
	return user, nil
}

// handleUpload dispatches on Content-Type: text/plain bodies are inline text
// uploads, multipart/form-data carries one file part.
func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		writeFail(w, "Content-Type header is required")
		return
	}

	if strings.HasPrefix(contentType, "text/plain") {
		// Read one byte past the ceiling so oversize bodies fail
		// validation instead of being silently truncated.
		body, err := io.ReadAll(io.LimitReader(r.Body, 4*validation.MaxTextLength+1))
		if err != nil {
			writeFail(w, "failed to read request body")
			return
		}

		url, err := s.contents.UploadText(r.Context(), string(body), user.ID)
		if err != nil {
			s.logger.Warn(r.Context(), "text upload rejected", "error", err.Error())
			writeFail(w, err.Error())
			return
		}
		writeOK(w, map[string]any{"url": url})
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeFail(w, "Invalid file upload. Use multipart/form-data")
		return
	}

	var url string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeFail(w, "No file provided")
			return
		}
		if err != nil {
			writeFail(w, "Invalid file upload. Use multipart/form-data")
			return
		}
		if part.FileName() == "" {
			continue
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, io.LimitReader(part, validation.MaxFileSize+1)); err != nil {
			writeFail(w, "failed to read file")
			return
		}

		url, err = s.contents.UploadFile(r.Context(), part.FileName(), part.Header.Get("Content-Type"), &buf, int64(buf.Len()), user.ID)
		if err != nil {
			s.logger.Warn(r.Context(), "file upload rejected", "error", err.Error())
			writeFail(w, err.Error())
			return
		}
		break
	}

	writeOK(w, map[string]any{"url": url})
}

// handleGetContent is unauthenticated, like the original surface: knowing
// the handle is the capability. Non-text answers are 307 redirects to the
// store's direct object URL.
func (s *HTTPServer) handleGetContent(w http.ResponseWriter, r *http.Request) {
	result, err := s.contents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	if result.Kind != models.KindText {
		http.Redirect(w, r, result.RedirectURL, http.StatusTemporaryRedirect)
		return
	}

	writeOK(w, map[string]any{"content": result.Content})
}

type editRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) handleEditContent(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, "invalid request body")
		return
	}

	if err := s.contents.Edit(r.Context(), chi.URLParam(r, "id"), req.Text, user); err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, nil)
}

func (s *HTTPServer) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkPermissions(r, models.AccessLevelUser)
	if err != nil {
		writeFail(w, err.Error())
		return
	}

	if err := s.contents.Delete(r.Context(), chi.URLParam(r, "id"), user); err != nil {
		writeFail(w, err.Error())
		return
	}
	writeOK(w, nil)
}
