package database

import (
	"path/filepath"
	"testing"

	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	d := New(db)
	require.NoError(t, d.Migrate())
	return d
}

func TestSessionRepoUpsertAndFind(t *testing.T) {
	repo := newTestDatabase(t).SessionRepo()

	require.NoError(t, repo.Upsert(&models.SessionEntry{Namespace: "a", Key: session.KeyToken, Value: "first"}))
	require.NoError(t, repo.Upsert(&models.SessionEntry{Namespace: "a", Key: session.KeyToken, Value: "second"}))

	value, ok, err := repo.Find("a", session.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	_, ok, err = repo.Find("a", session.KeyRole)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepoNamespacesAreIsolated(t *testing.T) {
	repo := newTestDatabase(t).SessionRepo()
	a := repo.Store("browser-a")
	b := repo.Store("browser-b")

	require.NoError(t, a.Set(session.KeyRole, "ADMIN"))
	require.NoError(t, b.Set(session.KeyRole, "USER"))

	role, _, err := a.Get(session.KeyRole)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", role)

	require.NoError(t, a.Delete(session.KeyRole))
	_, ok, err := a.Get(session.KeyRole)
	require.NoError(t, err)
	assert.False(t, ok)

	role, ok, err = b.Get(session.KeyRole)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "USER", role)
}

func TestSessionRepoBacksSession(t *testing.T) {
	repo := newTestDatabase(t).SessionRepo()
	store := repo.Store("browser-c")
	require.NoError(t, store.Set(session.KeyToken, "a.b.c"))
	require.NoError(t, store.Set(session.KeyEmail, "ana@example.com"))
	require.NoError(t, store.Set(session.KeyRole, "JEFE"))

	s := session.New(repo.Store("browser-c"))
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "ana@example.com", s.User().Email)

	s.Logout()
	assert.False(t, session.New(repo.Store("browser-c")).IsAuthenticated())
}
