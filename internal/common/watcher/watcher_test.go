package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))

	fw, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	calls := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{target}, func(path string) { calls <- path }))
	fw.Start()

	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte(`{"objects":[]}`), 0o644))
	}

	select {
	case path := <-calls:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, abs, path)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case path := <-calls:
		t.Fatalf("unexpected second callback for %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchFollowsRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))

	fw, err := NewFileWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	calls := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{target}, func(path string) { calls <- path }))
	fw.Start()

	tmp := filepath.Join(dir, ".project-tmp.json")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"name":"x"}`), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("rename not reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	assert.Error(t, fw.Watch([]string{filepath.Join(t.TempDir(), "nope", "project.json")}, func(string) {}))
}
