package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sculpt/internal/adapters/fs"
	"go.trai.ch/sculpt/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, ".cache")

	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "node_modules", "dep", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(cacheDir, "project.json"), "{}")
	writeFile(t, filepath.Join(tmpDir, "src", "main.ts"), "export {}")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	walker := fs.NewWalker(cacheDir)
	var files []string
	for path, err := range walker.WalkFiles(tmpDir, []string{"ignored"}) {
		require.NoError(t, err)
		files = append(files, path)
	}
	slices.Sort(files)

	want := []string{
		filepath.Join(tmpDir, "README.md"),
		filepath.Join(tmpDir, "src", "main.ts"),
	}
	if !slices.Equal(files, want) {
		t.Errorf("expected %v, got %v", want, files)
	}
}

func TestWalker_WalkFilesStopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.ts"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.ts"), "b")

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir, nil) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected iteration to stop after one file, got %d", count)
	}
}

func TestWalker_WalkFilesReportsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "a")
	writeFile(t, filepath.Join(locked, "secret.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "b", "index.ts"), "")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	var walkErr error
	for _, err := range fs.NewWalker().WalkFiles(tmpDir, nil) {
		if err != nil {
			walkErr = err
		}
	}
	require.Error(t, walkErr)
	assert.ErrorIs(t, walkErr, domain.ErrFileIO)
	assert.ErrorIs(t, walkErr, os.ErrPermission)
}

func TestFingerprinter_Fingerprint(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "index.ts")
	writeFile(t, path, "export const a = 1")

	fp := fs.NewFingerprinter()
	first, err := fp.Fingerprint(path)
	require.NoError(t, err)

	assert.Equal(t, path, first.Path)
	assert.Len(t, first.Hash, 16)

	modTime, err := fp.ModTime(path)
	require.NoError(t, err)
	assert.Equal(t, modTime, first.ModifiedAt)

	again, err := fp.Fingerprint(path)
	require.NoError(t, err)
	assert.True(t, first.Equal(again))

	writeFile(t, path, "export const a = 2")
	later := time.Unix(0, first.ModifiedAt).Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := fp.Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.Hash, changed.Hash)
	assert.Equal(t, later.UnixNano(), changed.ModifiedAt)
}

func TestFingerprinter_SameContentSameHash(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.ts")
	b := filepath.Join(tmpDir, "b.ts")
	writeFile(t, a, "same")
	writeFile(t, b, "same")

	fp := fs.NewFingerprinter()
	fa, err := fp.Fingerprint(a)
	require.NoError(t, err)
	fb, err := fp.Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa.Hash, fb.Hash)
}

func TestFingerprinter_Missing(t *testing.T) {
	fp := fs.NewFingerprinter()
	path := filepath.Join(t.TempDir(), "missing.ts")

	_, err := fp.ModTime(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = fp.Fingerprint(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}
