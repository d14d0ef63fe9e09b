package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// register -> login -> create note -> delete user -> delete user again.
func TestScenario_RegisterLoginNoteDeleteTwice(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	cfg := testConfig()
	users := NewUserService(db, rm, cfg)
	notes := NewNoteService(db, rm, &fakeSpeller{}, cfg)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	u, err := users.Register(ctx, "Test User", "t@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	token, err := users.Login(ctx, "t@example.com", "pw")
	require.NoError(t, err)

	caller, err := users.ResolveCaller(ctx, token)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	n, err := notes.Create(ctx, caller, "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, u.ID, n.OwnerID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	deleted, err := users.DeleteUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", deleted.Email)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = users.DeleteUser(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = users.ResolveCaller(ctx, token)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
