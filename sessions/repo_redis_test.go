package sessions_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/holsteinlabs/authgate/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*sessions.RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return sessions.NewRedisRepo(client), mr
}

func TestRedisRepo_RoundTrip(t *testing.T) {
	repo, _ := newRedisRepo(t)
	session := testSession(time.Now().Add(time.Hour))

	require.NoError(t, repo.Upsert("sid-1", session))

	got, err := repo.Get("sid-1")
	require.NoError(t, err)
	require.Equal(t, session.User, got.User)
	require.Equal(t, session.RefreshToken, got.RefreshToken)
	require.WithinDuration(t, session.TokenExpiresAt, got.TokenExpiresAt, time.Second)

	require.NoError(t, repo.Delete("sid-1"))
	_, err = repo.Get("sid-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestRedisRepo_MissingSession(t *testing.T) {
	repo, _ := newRedisRepo(t)

	_, err := repo.Get("nope")
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestRedisRepo_TTLExpiry(t *testing.T) {
	repo, mr := newRedisRepo(t)

	require.NoError(t, repo.Upsert("sid-1", testSession(time.Now().Add(time.Minute))))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get("sid-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)
}
