package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goldenloop/workplace/internal/logging"
)

func init() {
	logging.Disable()
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "workplace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadStateEmpty(t *testing.T) {
	s := openTestStore(t)

	data, err := s.LoadState(context.Background())
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	blob := []byte(`{"companies":[{"id":"c1","name":"Acme"}]}`)
	require.NoError(t, s.SaveState(ctx, blob))

	got, err := s.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, blob, got)
}

func TestSaveStateOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveState(ctx, []byte(`{"v":1}`)))
	require.NoError(t, s.SaveState(ctx, []byte(`{"v":2}`)))

	got, err := s.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"v":2}`), got)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "workplace.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveState(context.Background(), []byte(`{}`)))
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workplace.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveState(ctx, []byte(`{"companies":[]}`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"companies":[]}`), got)
}
