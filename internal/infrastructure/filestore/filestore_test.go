package filestore

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 1 << 20

func buildZip(t *testing.T, files map[string]string) (*bytes.Reader, int64) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return bytes.NewReader(buf.Bytes()), int64(buf.Len())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), testMaxSize)
}

func TestAcceptAndList(t *testing.T) {
	store := newTestStore(t)
	archive, size := buildZip(t, map[string]string{
		"index.html":    "<html></html>",
		"assets/app.js": "console.log(1)",
	})

	require.NoError(t, store.Accept(context.Background(), 7, archive, size, "index.html"))

	listing, err := store.List(7)
	require.NoError(t, err)
	assert.Len(t, listing.Files, 2)
	assert.Equal(t, int64(len("<html></html>")+len("console.log(1)")), listing.TotalSize)

	paths := []string{listing.Files[0].Path, listing.Files[1].Path}
	assert.Contains(t, paths, "index.html")
	assert.Contains(t, paths, "assets/app.js")
}

func TestAcceptReplacesPreviousBundle(t *testing.T) {
	store := newTestStore(t)

	first, size := buildZip(t, map[string]string{"index.html": "v1", "old.txt": "stale"})
	require.NoError(t, store.Accept(context.Background(), 1, first, size, "index.html"))

	second, size := buildZip(t, map[string]string{"index.html": "v2"})
	require.NoError(t, store.Accept(context.Background(), 1, second, size, "index.html"))

	listing, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "index.html", listing.Files[0].Path)
}

func TestAcceptRejectsNonZip(t *testing.T) {
	store := newTestStore(t)
	junk := bytes.NewReader([]byte("definitely not a zip"))

	err := store.Accept(context.Background(), 1, junk, junk.Size(), "")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Reason, "not a valid zip")
}

func TestAcceptRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"../escape.txt", "a/../../escape.txt", "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			archive, size := buildZip(t, map[string]string{
				"index.html": "ok",
				name:         "evil",
			})
			err := store.Accept(context.Background(), 1, archive, size, "index.html")
			var rej *RejectError
			require.ErrorAs(t, err, &rej)
		})
	}

	// Nothing may have been written outside or inside the store.
	assert.False(t, store.Exists(1))
}

func TestAcceptRejectsMissingEntryFile(t *testing.T) {
	store := newTestStore(t)

	t.Run("explicit entry file", func(t *testing.T) {
		archive, size := buildZip(t, map[string]string{"main.html": "x"})
		err := store.Accept(context.Background(), 1, archive, size, "index.html")
		var rej *RejectError
		require.ErrorAs(t, err, &rej)
		assert.Contains(t, rej.Reason, "index.html")
	})

	t.Run("no default entry point", func(t *testing.T) {
		archive, size := buildZip(t, map[string]string{"readme.txt": "x"})
		err := store.Accept(context.Background(), 1, archive, size, "")
		var rej *RejectError
		require.ErrorAs(t, err, &rej)
	})

	t.Run("entry file only at archive root", func(t *testing.T) {
		archive, size := buildZip(t, map[string]string{"sub/index.html": "x"})
		err := store.Accept(context.Background(), 1, archive, size, "index.html")
		var rej *RejectError
		require.ErrorAs(t, err, &rej)
	})
}

func TestAcceptRejectsOversizedBundle(t *testing.T) {
	store := New(t.TempDir(), 10)

	archive, size := buildZip(t, map[string]string{"index.html": "this body is longer than ten bytes"})
	err := store.Accept(context.Background(), 1, archive, size, "index.html")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
}

func TestAcceptRollsBackOnCancelledContext(t *testing.T) {
	store := newTestStore(t)

	original, size := buildZip(t, map[string]string{"index.html": "v1"})
	require.NoError(t, store.Accept(context.Background(), 3, original, size, "index.html"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	replacement, size := buildZip(t, map[string]string{"index.html": "v2"})
	err := store.Accept(ctx, 3, replacement, size, "index.html")
	require.ErrorIs(t, err, context.Canceled)

	// The previous bundle survives and no staging directory is left behind.
	listing, err := store.List(3)
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".partial")
	}
}

func TestListMissingBundle(t *testing.T) {
	store := newTestStore(t)
	_, err := store.List(42)
	require.ErrorIs(t, err, ErrNotUploaded)

	var rej *RejectError
	assert.False(t, errors.As(err, &rej), "a read miss is not an upload rejection")
}

func TestVerify(t *testing.T) {
	store := newTestStore(t)
	archive, size := buildZip(t, map[string]string{"tool.html": "x"})
	require.NoError(t, store.Accept(context.Background(), 5, archive, size, "tool.html"))

	ok, reason := store.Verify(5, "tool.html")
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = store.Verify(5, "index.html")
	assert.False(t, ok)
	assert.Contains(t, reason, "index.html")

	ok, reason = store.Verify(99, "")
	assert.False(t, ok)
	assert.Contains(t, reason, "does not exist")
}

func TestFindOrphans(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []int{1, 2, 99} {
		archive, size := buildZip(t, map[string]string{"index.html": "x"})
		require.NoError(t, store.Accept(context.Background(), id, archive, size, "index.html"))
	}
	// Non-numeric directories are not bundle directories.
	require.NoError(t, os.MkdirAll(filepath.Join(store.Root(), "tmp"), 0o755))

	known := map[int]struct{}{1: {}, 2: {}}
	orphans, err := store.FindOrphans(known)
	require.NoError(t, err)
	assert.Equal(t, []string{"99"}, orphans)

	require.NoError(t, store.Delete(99))
	orphans, err = store.FindOrphans(known)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	archive, size := buildZip(t, map[string]string{"index.html": "x"})
	require.NoError(t, store.Accept(context.Background(), 8, archive, size, ""))

	require.NoError(t, store.Delete(8))
	assert.False(t, store.Exists(8))
	require.NoError(t, store.Delete(8))
}

func TestStats(t *testing.T) {
	store := newTestStore(t)

	count, total, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, total)

	archive, size := buildZip(t, map[string]string{"index.html": "12345"})
	require.NoError(t, store.Accept(context.Background(), 1, archive, size, ""))
	archive, size = buildZip(t, map[string]string{"index.html": "1234567890"})
	require.NoError(t, store.Accept(context.Background(), 2, archive, size, ""))

	count, total, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(15), total)
}

func TestSafePath(t *testing.T) {
	good := map[string]string{
		"index.html":     "index.html",
		"a/b/c.txt":      "a/b/c.txt",
		"./index.html":   "index.html",
		"a//b.txt":       "a/b.txt",
		"assets/../x.js": "x.js",
	}
	for in, want := range good {
		got, err := safePath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	bad := []string{"", "..", "../x", "a/../../x", "/abs/path"}
	for _, in := range bad {
		_, err := safePath(in)
		var rej *RejectError
		assert.True(t, errors.As(err, &rej), in)
	}
}
