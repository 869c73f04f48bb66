package session_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/core/session"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	rec := session.Record{Token: "tok", User: `{"id":1}`}

	_, err := store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Save(ctx, id, rec, 0))
	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.Token = "rotated"
	require.NoError(t, store.Save(ctx, id, rec, time.Hour))
	got, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Token)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, session.ErrEmptyID)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, session.NewMemoryStore())
}

func TestMemoryStore_TTL(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "sid", session.Record{Token: "t", User: "{}"}, time.Millisecond))

	assert.Eventually(t, func() bool {
		_, err := store.Load(ctx, "sid")
		return err == session.ErrNotFound
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, store.Len())
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile", "session.json")
	exerciseStore(t, session.NewFileStore(path))

	t.Run("survives a new process", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "session.json")
		ctx := context.Background()

		require.NoError(t, session.NewFileStore(path).Save(ctx, "cli", session.Record{Token: "t", User: `{"id":2}`}, 0))

		got, err := session.NewFileStore(path).Load(ctx, "cli")
		require.NoError(t, err)
		assert.Equal(t, "t", got.Token)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("corrupted file reads as empty and is removed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

		_, err := session.NewFileStore(path).Load(context.Background(), "cli")
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = os.Stat(path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("corrupted profile restores as anonymous", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"cli":{"token":`), 0o600))

		sess, err := session.NewManager(session.NewFileStore(path)).Restore(context.Background(), "cli")
		require.NoError(t, err)
		assert.False(t, sess.IsAuthenticated())
		assert.NoFileExists(t, path)
	})
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, session.NewRedisStore(client, "test:session:"))
}

func TestNewStoreFromConfig(t *testing.T) {
	t.Parallel()

	store := session.NewStoreFromConfig(session.Config{Store: session.StoreRedis}, nil, nil)
	assert.IsType(t, &session.MemoryStore{}, store)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	store = session.NewStoreFromConfig(session.Config{Store: session.StoreRedis}, client, nil)
	assert.IsType(t, &session.RedisStore{}, store)
}
