package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestResolver_DatabasePath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "found.db"))

		r := New(Config{Root: root, DatabasePath: "/tmp/explicit.db"})
		assert.Equal(t, "/tmp/explicit.db", r.DatabasePath())
	})

	t.Run("single discovered file is used", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "found.sqlite3"))

		r := New(Config{Root: root})
		assert.Equal(t, filepath.Join(root, "found.sqlite3"), r.DatabasePath())
	})

	t.Run("empty root falls back to the default name", func(t *testing.T) {
		root := t.TempDir()

		r := New(Config{Root: root})
		assert.Equal(t, filepath.Join(root, DefaultFileName), r.DatabasePath())
	})

	t.Run("multiple candidates fall back to the default", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "a.db"))
		touch(t, filepath.Join(root, "b.db"))

		r := New(Config{Root: root})
		assert.Equal(t, filepath.Join(root, DefaultFileName), r.DatabasePath())
	})
}

func TestResolver_Candidates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	touch(t, filepath.Join(root, "a.db"))
	touch(t, filepath.Join(root, "nested", "b.sqlite3"))
	touch(t, filepath.Join(root, "notes.txt"))

	r := New(Config{Root: root})
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.db"),
		filepath.Join(root, "nested", "b.sqlite3"),
	}, r.Candidates())
}
