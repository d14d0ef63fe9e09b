package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophnotes/internal/server/spellcheck"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		S3Region:                    "us-east-1",
		S3RootUser:                  "minioadmin",
		S3RootPassword:              "minioadmin",
		S3BaseEndpoint:              "http://127.0.0.1:9000",
		S3Bucket:                    "notes",
	}
}

// memUsers is an in-memory users.Repository. Copies are handed out so that
// callers cannot mutate stored rows behind the repository's back.
type memUsers struct {
	rows   map[int64]models.User
	nextID int64
	err    error
}

func newMemUsers() *memUsers { return &memUsers{rows: map[int64]models.User{}} }

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.Email == email {
			r := r
			return &r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := m.rows[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.rows[u.ID] = *u
	return u, nil
}

func (m *memUsers) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, id)
	return nil
}

type memNotes struct {
	rows    map[int64]models.Note
	nextID  int64
	updates int
	deletes int
	err     error
}

func newMemNotes() *memNotes { return &memNotes{rows: map[int64]models.Note{}} }

func (m *memNotes) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	n.ID = m.nextID
	m.rows[n.ID] = *n
	return n, nil
}

func (m *memNotes) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (m *memNotes) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.Note, 0)
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNotes) Update(ctx context.Context, n *models.Note) (*models.Note, error) {
	m.updates++
	if _, ok := m.rows[n.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.rows[n.ID] = *n
	return n, nil
}

func (m *memNotes) Delete(ctx context.Context, id int64) error {
	m.deletes++
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, id)
	return nil
}

// cascade mimics ON DELETE CASCADE for tests that delete users.
func (m *memNotes) cascade(ownerID int64) {
	for id, r := range m.rows {
		if r.OwnerID == ownerID {
			delete(m.rows, id)
		}
	}
}

type fakeRepoManager struct {
	u *memUsers
	n *memNotes
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newMemUsers(), n: newMemNotes()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository           { return m.n }

// fakeSpeller rejects the words listed in bad and fails with err when set.
type fakeSpeller struct {
	bad   map[string][]string
	err   error
	calls []string
}

func (f *fakeSpeller) Check(ctx context.Context, text string) error {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return f.err
	}
	if s, ok := f.bad[text]; ok {
		return &spellcheck.ValidationError{Words: []spellcheck.Misspelling{{Word: text, Suggestions: s}}}
	}
	return nil
}
