package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, ok, err := store.GetData(ctx, "settings")
	require.NoError(t, err)
	require.False(t, ok)

	first := map[string]any{"settings": map[string]any{"core": map[string]any{"flag": true}}}
	require.NoError(t, store.SetData(ctx, "settings", first))

	second := map[string]any{"settings": map[string]any{"core": map[string]any{"flag": false}}}
	require.NoError(t, store.SetData(ctx, "settings", second))

	got, ok, err := store.GetData(ctx, "settings")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, got)

	var rows int
	require.NoError(t, store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+DefaultTable).Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestStoreInMemoryWithCustomTable(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:", WithTable("prefs"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SetData(ctx, "ui", map[string]any{"zoom": float64(2)}))
	got, ok, err := store.GetData(ctx, "ui")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float64(2), got["zoom"])
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.Error(t, store.SetData(ctx, "", nil))
	_, _, err = store.GetData(ctx, "")
	require.Error(t, err)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
}
