package contents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/dbx"
	"github.com/chanvault/chanvault/internal/server/models"
)

// PostgresRepository implements the metadata index over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an index row. The id is the handle the backing store
// assigned; it must be recorded verbatim.
func (r *PostgresRepository) Create(ctx context.Context, content *models.Content) (*models.Content, error) {
	query := `
		INSERT INTO contents (id, kind, uploader_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, content.ID, content.Kind, content.UploaderID).Scan(&content.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return content, nil
}

// Get returns the index row for a handle, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Content, error) {
	query := `
		SELECT id, kind, uploader_id, created_at FROM contents
		WHERE id = $1
	`
	content := &models.Content{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&content.ID, &content.Kind, &content.UploaderID, &content.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return content, nil
}

// ListByUploader returns all index rows owned by uploaderID, oldest first.
func (r *PostgresRepository) ListByUploader(ctx context.Context, uploaderID string) ([]*models.Content, error) {
	query := `
		SELECT id, kind, uploader_id, created_at FROM contents
		WHERE uploader_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Content
	for rows.Next() {
		var item models.Content
		if err := rows.Scan(&item.ID, &item.Kind, &item.UploaderID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an index row. Missing id yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contents WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
