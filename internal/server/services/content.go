package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/server/config"
	"github.com/chanvault/chanvault/internal/server/models"
	"github.com/chanvault/chanvault/internal/server/repositories/repomanager"
	"github.com/chanvault/chanvault/internal/server/storage"
	"github.com/chanvault/chanvault/internal/server/validation"
)

// ContentService orchestrates uploads, retrieval, edits, and deletion:
// payload policy first, then the backing store, then the metadata index.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	protocol    string
	domain      string
}

func NewContentService(db *sql.DB, rm repomanager.RepositoryManager, store storage.Store, cfg *config.Config) *ContentService {
	return &ContentService{
		db:          db,
		repomanager: rm,
		store:       store,
		protocol:    cfg.ServiceProtocol,
		domain:      cfg.ServiceDomain,
	}
}

// RetrievalURL is stable and reproducible from the handle alone.
func (s *ContentService) RetrievalURL(handle string) string {
	return fmt.Sprintf("%s://%s/files/%s", s.protocol, s.domain, handle)
}

// UploadText validates, stores, and indexes inline text. When the index
// write fails after the store confirmed the send, the physical object is
// orphaned; no compensating delete is attempted and the error says so.
func (s *ContentService) UploadText(ctx context.Context, text, uploaderID string) (string, error) {
	if err := validation.ValidateText(text); err != nil {
		return "", err
	}

	handle, err := s.store.SendText(ctx, text)
	if err != nil {
		return "", err
	}

	_, err = s.repomanager.Contents(s.db).Create(ctx, &models.Content{
		ID:         handle,
		Kind:       models.KindText,
		UploaderID: uploaderID,
	})
	if err != nil {
		return "", fmt.Errorf("content stored but not indexed (orphaned object %s): %w", handle, err)
	}

	return s.RetrievalURL(handle), nil
}

// UploadFile validates, stores, classifies, and indexes a binary payload.
// Kind is derived from the declared MIME type; anything non-image indexes as
// a generic file.
func (s *ContentService) UploadFile(ctx context.Context, filename, mimeType string, r io.Reader, size int64, uploaderID string) (string, error) {
	if err := validation.ValidateFile(filename, size); err != nil {
		return "", err
	}

	handle, err := s.store.SendFile(ctx, filename, mimeType, r, size)
	if err != nil {
		return "", err
	}

	_, err = s.repomanager.Contents(s.db).Create(ctx, &models.Content{
		ID:         handle,
		Kind:       validation.ClassifyKind(mimeType),
		UploaderID: uploaderID,
	})
	if err != nil {
		return "", fmt.Errorf("content stored but not indexed (orphaned object %s): %w", handle, err)
	}

	return s.RetrievalURL(handle), nil
}

// GetResult is what retrieval produces: inline content for text, a redirect
// target plus kind for everything else.
type GetResult struct {
	Kind        models.Kind
	Content     string
	RedirectURL string
}

// Get resolves a handle. An index miss is common.ErrorNotFound; an index hit
// whose physical object is gone is common.ErrNotFoundInStorage — the
// divergence is reported, never auto-repaired.
func (s *ContentService) Get(ctx context.Context, handle string) (*GetResult, error) {
	record, err := s.repomanager.Contents(s.db).Get(ctx, handle)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Fetch(ctx, handle)
	if err != nil {
		return nil, err
	}

	if record.Kind == models.KindText {
		return &GetResult{Kind: record.Kind, Content: obj.Text}, nil
	}
	return &GetResult{Kind: record.Kind, RedirectURL: obj.AttachmentURL}, nil
}

// Edit replaces the inline content of a text item. The index row stays
// untouched: handle, kind, owner, and creation time all persist.
func (s *ContentService) Edit(ctx context.Context, handle, text string, caller *models.User) error {
	record, err := s.repomanager.Contents(s.db).Get(ctx, handle)
	if err != nil {
		return err
	}

	if !models.IsOwnerOrRoot(caller, record.UploaderID) {
		return common.ErrForbidden
	}

	if record.Kind != models.KindText {
		return common.ErrUnsupported
	}

	if err := validation.ValidateText(text); err != nil {
		return err
	}

	return s.store.EditText(ctx, handle, text)
}

// Delete removes the physical object first and the index row only after the
// store confirmed the removal, so an object can never become unreachable
// while its record still serves lookups in this API.
func (s *ContentService) Delete(ctx context.Context, handle string, caller *models.User) error {
	repo := s.repomanager.Contents(s.db)

	record, err := repo.Get(ctx, handle)
	if err != nil {
		return err
	}

	if !models.IsOwnerOrRoot(caller, record.UploaderID) {
		return common.ErrForbidden
	}

	if err := s.store.Remove(ctx, handle); err != nil {
		return err
	}

	if err := repo.Delete(ctx, handle); err != nil {
		return fmt.Errorf("object removed but index row not deleted: %w", err)
	}
	return nil
}
