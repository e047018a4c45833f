package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/userauth/internal/client/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func testSession() *storage.SessionData {
	return &storage.SessionData{
		Email:     "a@x.com",
		SessionID: "sid-1",
		ServerURL: "http://localhost:5000",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveSession(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	session := testSession()
	require.NoError(t, store.SaveSession(ctx, session))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Email, got.Email)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, session.ServerURL, got.ServerURL)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
}

func TestSaveSession_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, testSession()))

	second := testSession()
	second.Email = "b@x.com"
	second.SessionID = "sid-2"
	require.NoError(t, store.SaveSession(ctx, second))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", got.Email)
	assert.Equal(t, "sid-2", got.SessionID)
}

func TestGetSession_NotFound(t *testing.T) {
	store := setupTestStorage(t)

	got, err := store.GetSession(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.Nil(t, got)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, testSession()))
	require.NoError(t, store.DeleteSession(ctx))

	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление
	assert.ErrorIs(t, store.DeleteSession(ctx), storage.ErrSessionNotFound)
}
