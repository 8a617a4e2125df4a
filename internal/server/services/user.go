// Package services implements the core operations behind both front ends:
// identity and authorization (UserService) and the content gateway
// (ContentService). Neither knows anything about HTTP or the REPL.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/server/auth"
	"github.com/chanvault/chanvault/internal/server/config"
	"github.com/chanvault/chanvault/internal/server/models"
	"github.com/chanvault/chanvault/internal/server/repositories/repomanager"
)

const bearerPrefix = "Bearer "

// UserService resolves credentials to users, enforces role requirements, and
// carries the root-only account administration operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: rm,
		jwtSecret:   []byte(cfg.SecretKey),
	}
}

// Authenticate turns an Authorization header into the current user row.
//
// The subject is always re-read from the index: a token stays
// cryptographically valid forever, so account deletion and role changes must
// take effect here, not at issue time.
func (s *UserService) Authenticate(ctx context.Context, authorizationHeader string) (*models.User, error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return nil, common.ErrMissingToken
	}

	userID, err := auth.GetUserIDFromToken(strings.TrimPrefix(authorizationHeader, bearerPrefix), s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Subject deleted after issuance; the token is dead.
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Authorize enforces the role gate: root requirement needs the root role,
// the user requirement is satisfied by any authenticated user.
func (s *UserService) Authorize(user *models.User, required models.AccessLevel) error {
	if required == models.AccessLevelRoot && !user.IsRoot() {
		return common.ErrInsufficientPermissions
	}
	return nil
}

// Register creates an account with the given role and returns it together
// with a freshly minted token. IDs are UUIDs, re-rolled on the (unlikely)
// collision with an existing row.
func (s *UserService) Register(ctx context.Context, level models.AccessLevel) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	var id string
	for {
		id = uuid.NewString()
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return nil, "", fmt.Errorf("error checking user id: %w", err)
		}
		if !exists {
			break
		}
	}

	user, err := repo.Create(ctx, &models.User{ID: id, AccessLevel: level})
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}

// Get returns one user row; common.ErrorNotFound when absent.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).Get(ctx, id)
}

// List returns all user rows.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Delete removes an account. The schema cascade removes the user's content
// index rows in the same statement; the physical objects stay in the backing
// store (same accepted orphan semantics as a failed index write).
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

// Uploads lists the content index rows owned by userID.
func (s *UserService) Uploads(ctx context.Context, userID string) ([]*models.Content, error) {
	return s.repomanager.Contents(s.db).ListByUploader(ctx, userID)
}
