package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/models"
	filesrepo "github.com/filecove/filecove/internal/server/repositories/files"
	foldersrepo "github.com/filecove/filecove/internal/server/repositories/folders"
	usersrepo "github.com/filecove/filecove/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.BcryptCost = 4
	cfg.BaseURL = "http://localhost:8080"
	return cfg
}

func int64ptr(v int64) *int64 { return &v }

// --- in-memory users repository ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, common.ErrValidation
		}
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdateAvatarKey(ctx context.Context, id int64, avatarKey string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	u.AvatarKey = &avatarKey
	return u, nil
}

// --- in-memory folders repository ---

type fakeFoldersRepo struct {
	mu      sync.Mutex
	nextID  int64
	folders map[int64]*models.Folder
}

func newFakeFoldersRepo() *fakeFoldersRepo {
	return &fakeFoldersRepo{folders: map[int64]*models.Folder{}}
}

func (f *fakeFoldersRepo) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.folders {
		if existing.OwnerID == folder.OwnerID && existing.Name == folder.Name && eqID(existing.ParentID, folder.ParentID) {
			return nil, common.ErrValidation
		}
	}
	f.nextID++
	created := &models.Folder{ID: f.nextID, Name: folder.Name, OwnerID: folder.OwnerID, ParentID: folder.ParentID, CreatedAt: time.Now()}
	f.folders[created.ID] = created
	return created, nil
}

func (f *fakeFoldersRepo) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, ok := f.folders[id]
	if !ok {
		return nil, common.ErrFolderNotFound
	}
	return folder, nil
}

func (f *fakeFoldersRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Folder
	for _, folder := range f.folders {
		if folder.OwnerID == ownerID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFoldersRepo) ListChildren(ctx context.Context, ownerID, parentID int64) ([]*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Folder
	for _, folder := range f.folders {
		if folder.OwnerID == ownerID && folder.ParentID != nil && *folder.ParentID == parentID {
			out = append(out, folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFoldersRepo) ExistsByNameAndParent(ctx context.Context, ownerID int64, name string, parentID *int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, folder := range f.folders {
		if folder.OwnerID == ownerID && folder.Name == name && eqID(folder.ParentID, parentID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFoldersRepo) subtreeIDs(rootID int64) map[int64]bool {
	ids := map[int64]bool{rootID: true}
	for changed := true; changed; {
		changed = false
		for _, folder := range f.folders {
			if folder.ParentID != nil && ids[*folder.ParentID] && !ids[folder.ID] {
				ids[folder.ID] = true
				changed = true
			}
		}
	}
	return ids
}

func (f *fakeFoldersRepo) DeleteSubtree(ctx context.Context, rootID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.folders[rootID]; !ok {
		return common.ErrFolderNotFound
	}
	for id := range f.subtreeIDs(rootID) {
		delete(f.folders, id)
	}
	return nil
}

func eqID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// --- in-memory files repository ---

type fakeFilesRepo struct {
	mu     sync.Mutex
	nextID int64
	files  map[int64]*models.File

	// folders backs the subtree operations; nil is fine when no cascade
	// test needs them.
	folders *fakeFoldersRepo

	deleteErr error
}

func newFakeFilesRepo(folders *fakeFoldersRepo) *fakeFilesRepo {
	return &fakeFilesRepo{files: map[int64]*models.File{}, folders: folders}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.files {
		if existing.StorageKey == file.StorageKey {
			return nil, common.ErrValidation
		}
	}
	f.nextID++
	created := &models.File{
		ID: f.nextID, Filename: file.Filename, MimeType: file.MimeType,
		SizeKB: file.SizeKB, StorageKey: file.StorageKey,
		OwnerID: file.OwnerID, FolderID: file.FolderID,
		UploadedAt: time.Unix(f.nextID, 0),
	}
	f.files[created.ID] = created
	return created, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, common.ErrFileNotFound
	}
	return file, nil
}

func (f *fakeFilesRepo) GetByShareToken(ctx context.Context, token string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.ShareToken != nil && *file.ShareToken == token {
			return file, nil
		}
	}
	return nil, common.ErrShareNotFound
}

func (f *fakeFilesRepo) List(ctx context.Context, ownerID int64, filter filesrepo.ListFilter) ([]*models.File, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.File
	for _, file := range f.files {
		if file.OwnerID != ownerID {
			continue
		}
		if filter.FilterFolder && !eqID(file.FolderID, filter.FolderID) {
			continue
		}
		if filter.MimeType != "" && file.MimeType != filter.MimeType {
			continue
		}
		matched = append(matched, file)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UploadedAt.Equal(matched[j].UploadedAt) {
			return matched[i].UploadedAt.After(matched[j].UploadedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeFilesRepo) ListByFolder(ctx context.Context, ownerID, folderID int64) ([]*models.File, error) {
	list, _, err := f.List(ctx, ownerID, filesrepo.ListFilter{FilterFolder: true, FolderID: &folderID, Limit: 1 << 30})
	return list, err
}

func (f *fakeFilesRepo) UpdateName(ctx context.Context, id int64, filename string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, common.ErrFileNotFound
	}
	file.Filename = filename
	return file, nil
}

func (f *fakeFilesRepo) UpdateFolder(ctx context.Context, id int64, folderID *int64) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, common.ErrFileNotFound
	}
	file.FolderID = folderID
	return file, nil
}

func (f *fakeFilesRepo) SetShare(ctx context.Context, id int64, token string, expiry time.Time) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, common.ErrFileNotFound
	}
	file.ShareToken = &token
	file.ShareExpiry = &expiry
	// Return a snapshot, like the real repo's RETURNING scan; callers must
	// not observe later mutations of the stored row.
	snapshot := *file
	return &snapshot, nil
}

func (f *fakeFilesRepo) ClearShare(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return common.ErrFileNotFound
	}
	file.ShareToken = nil
	file.ShareExpiry = nil
	return nil
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.files[id]; !ok {
		return common.ErrFileNotFound
	}
	delete(f.files, id)
	return nil
}

func (f *fakeFilesRepo) ListKeysBySubtree(ctx context.Context, rootID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.folders.subtreeIDs(rootID)
	var keys []string
	for _, file := range f.files {
		if file.FolderID != nil && ids[*file.FolderID] {
			keys = append(keys, file.StorageKey)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeFilesRepo) DeleteBySubtree(ctx context.Context, rootID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.folders.subtreeIDs(rootID)
	for id, file := range f.files {
		if file.FolderID != nil && ids[*file.FolderID] {
			delete(f.files, id)
		}
	}
	return nil
}

// --- repo manager over the fakes ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	d *fakeFoldersRepo
	f *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	folders := newFakeFoldersRepo()
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		d: folders,
		f: newFakeFilesRepo(folders),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository   { return m.d }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository       { return m.f }

// --- fake object store ---

type fakeStore struct {
	mu sync.Mutex

	objects map[string]bool

	presignPutErr error
	presignGetErr error
	deleteErr     error

	putKeys     []string
	getKeys     []string
	deletedKeys []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]bool{}}
}

func (s *fakeStore) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presignPutErr != nil {
		return "", s.presignPutErr
	}
	s.putKeys = append(s.putKeys, key)
	return "https://store.example.com/put/" + key, nil
}

func (s *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presignGetErr != nil {
		return "", s.presignGetErr
	}
	s.getKeys = append(s.getKeys, key)
	return "https://store.example.com/get/" + key, nil
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key], nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}
