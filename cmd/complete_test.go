package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	global := flag.NewFlagSet("dvd", flag.ContinueOnError)
	global.String("config", "", "")
	global.String("data-root", "", "")
	global.Bool("v", false, "")

	root := completion(global)
	for _, name := range []string{"fetch", "refresh", "list", "analyze", "assist", "topic", "help"} {
		require.Contains(t, root.Sub, name)
	}
	require.Contains(t, root.Flags, "v")
	require.Contains(t, root.Flags, "config")

	fetch := root.Sub["fetch"]
	require.Contains(t, fetch.Flags, "refresh")
	require.NotNil(t, fetch.Args)

	analyze := root.Sub["analyze"]
	for _, name := range []string{"years", "target", "d", "refresh", "skip-events"} {
		require.Contains(t, analyze.Flags, name)
	}
	require.Contains(t, root.Sub["assist"].Flags, "years")
	require.Nil(t, root.Sub["list"].Args)

	topics := root.Sub["topic"].Args.Predict("")
	require.Contains(t, topics, "cache")
	require.Contains(t, topics, "analysis")
}

func TestPredictIDs(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), "data")

	old := *dataRoot
	*dataRoot = root
	defer func() { *dataRoot = old }()

	// a missing data root is not created.
	require.Empty(t, predictIDs.Predict(""))
	_, err := os.Stat(root)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.MkdirAll(root, 0o755))
	registry := "TSX:REI.UN: 16-10-2026\nNYSE:KO: 01-02-2024\ninit: null\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "cache.yaml"), []byte(registry), 0o644))

	ids := predictIDs.Predict("")
	require.True(t, slices.Equal(ids, []string{"NYSE:KO", "TSX:REI.UN"}), "got %v", ids)
}
