package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chanvault/chanvault/internal/common"
	"github.com/chanvault/chanvault/internal/dbx"
	"github.com/chanvault/chanvault/internal/server/models"
	"github.com/chanvault/chanvault/internal/server/repositories/contents"
	"github.com/chanvault/chanvault/internal/server/repositories/users"
	"github.com/chanvault/chanvault/internal/server/storage"
)

// --- in-memory repositories ---

type fakeUsersRepo struct {
	mu   sync.Mutex
	rows map[string]*models.User

	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{rows: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.CreatedAt = time.Now()
	f.rows[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) Get(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.rows {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeContentsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Content

	createErr error
	deleteErr error
}

func newFakeContentsRepo() *fakeContentsRepo {
	return &fakeContentsRepo{rows: map[string]*models.Content{}}
}

func (f *fakeContentsRepo) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.CreatedAt = time.Now()
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeContentsRepo) Get(ctx context.Context, id string) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContentsRepo) ListByUploader(ctx context.Context, uploaderID string) ([]*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Content
	for _, c := range f.rows {
		if c.UploaderID == uploaderID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeContentsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeRepoManager vends the fake repositories regardless of the DBTX handed
// to it; services never notice the difference.
type fakeRepoManager struct {
	users    *fakeUsersRepo
	contents *fakeContentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsersRepo(), contents: newFakeContentsRepo()}
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return f.users }
func (f *fakeRepoManager) Contents(db dbx.DBTX) contents.Repository            { return f.contents }

// --- in-memory backing store ---

type fakeObject struct {
	text          string
	attachmentURL string
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]*fakeObject
	nextID  int

	sendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]*fakeObject{}, nextID: 1}
}

func (f *fakeStore) handleOut() string {
	h := fmt.Sprintf("msg-%d", f.nextID)
	f.nextID++
	return h
}

func (f *fakeStore) SendText(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	h := f.handleOut()
	f.objects[h] = &fakeObject{text: text}
	return h, nil
}

func (f *fakeStore) SendFile(ctx context.Context, filename, mimeType string, r io.Reader, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	h := f.handleOut()
	f.objects[h] = &fakeObject{attachmentURL: "https://cdn.test/" + h + "/" + filename}
	return h, nil
}

func (f *fakeStore) Fetch(ctx context.Context, handle string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[handle]
	if !ok {
		return nil, common.ErrNotFoundInStorage
	}
	return &storage.Object{Text: obj.text, AttachmentURL: obj.attachmentURL}, nil
}

func (f *fakeStore) EditText(ctx context.Context, handle, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[handle]
	if !ok {
		return common.ErrNotFoundInStorage
	}
	obj.text = text
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[handle]; !ok {
		return common.ErrNotFoundInStorage
	}
	delete(f.objects, handle)
	return nil
}
