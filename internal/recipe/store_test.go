package recipe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "recipes.json")
	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	return store, path
}

func TestNewStoreRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", zap.NewNop())
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	recipes, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, recipes)
}

func TestUpsertRoundTrip(t *testing.T) {
	t.Parallel()
	store, path := newTestStore(t)

	records := []Recipe{
		{URL: "https://example.com/recipes/b/", Title: "B", Ingredients: []string{"x"}},
		{URL: "https://example.com/recipes/a/", Title: "A", Ingredients: []string{"y"}},
	}
	require.NoError(t, store.Upsert(records))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "https://example.com/recipes/a/", got[0].URL, "records should be sorted by URL")

	// The file on disk must be a plain JSON array.
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
}

func TestUpsertReplacesByURL(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	first := Recipe{URL: "https://example.com/recipes/pie/", Title: "Old Title"}
	require.NoError(t, store.Upsert([]Recipe{first}))

	second := Recipe{URL: "https://example.com/recipes/pie/", Title: "New Title"}
	other := Recipe{URL: "https://example.com/recipes/cake/", Title: "Cake"}
	require.NoError(t, store.Upsert([]Recipe{second, other}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		if r.URL == "https://example.com/recipes/pie/" {
			require.Equal(t, "New Title", r.Title, "newer record should replace the old one")
		}
	}
}

func TestUpsertSkipsEmptyURL(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	require.NoError(t, store.Upsert([]Recipe{{Title: "no url"}}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUpsertEmptyBatchKeepsExisting(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	require.NoError(t, store.Upsert([]Recipe{{URL: "https://example.com/recipes/pie/"}}))
	require.NoError(t, store.Upsert(nil))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
}
