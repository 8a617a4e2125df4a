package contents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_RecordsHandleVerbatim(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+contents\s*\(id,\s*kind,\s*uploader_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs("msg-123", models.KindText, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := repo.Create(context.Background(), &models.Content{ID: "msg-123", Kind: models.KindText, UploaderID: "u-1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "msg-123" {
		t.Fatalf("handle mutated: %q", got.ID)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "kind", "uploader_id", "created_at"}).
		AddRow("msg-1", "image", "u-9", time.Now())
	mock.ExpectQuery(`SELECT\s+id,\s*kind,\s*uploader_id,\s*created_at\s+FROM\s+contents\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("msg-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "msg-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Kind != models.KindImage || got.UploaderID != "u-9" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*kind`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListByUploader(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "kind", "uploader_id", "created_at"}).
		AddRow("msg-1", "text", "u-1", time.Now()).
		AddRow("msg-2", "file", "u-1", time.Now())
	mock.ExpectQuery(`(?s)SELECT\s+id,\s*kind,\s*uploader_id,\s*created_at\s+FROM\s+contents\s+WHERE\s+uploader_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUploader(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUploader error: %v", err)
	}
	if len(got) != 2 || got[1].Kind != models.KindFile {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+contents\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("msg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "msg-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(`DELETE\s+FROM\s+contents`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
