package service

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	logger.Discard()
	m := NewSessionManager(scene.DefaultOptions())

	s, err := m.Create("studio")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	var count int
	require.NoError(t, m.Do(s.ID, func(c *scene.Controller) error {
		count = len(c.Entities())
		return nil
	}))
	assert.Equal(t, 10, count)

	assert.True(t, m.Close(s.ID))
	assert.False(t, m.Close(s.ID))

	err = m.Do(s.ID, func(*scene.Controller) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateWithUnknownTemplate(t *testing.T) {
	logger.Discard()
	m := NewSessionManager(scene.DefaultOptions())
	_, err := m.Create("castle")
	assert.Error(t, err)
	assert.Zero(t, m.Len())
}

func TestDoPropagatesError(t *testing.T) {
	logger.Discard()
	m := NewSessionManager(scene.DefaultOptions())
	s, err := m.Create("")
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, m.Do(s.ID, func(*scene.Controller) error { return boom }), boom)
}

func TestDoSerializesConcurrentEvents(t *testing.T) {
	logger.Discard()
	m := NewSessionManager(scene.DefaultOptions())
	s, err := m.Create("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Do(s.ID, func(c *scene.Controller) error {
				y := float64(i * 40)
				if err := c.SetToolMode(scene.ToolWall, scene.Payload{}); err != nil {
					return err
				}
				c.PointerDown(0, y, scene.ButtonLeft, scene.Modifiers{})
				c.PointerMove(200, y, scene.Modifiers{})
				c.PointerUp(200, y, scene.ButtonLeft, scene.Modifiers{})
				return nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, m.Do(s.ID, func(c *scene.Controller) error {
		assert.Len(t, c.Entities(), 20)
		return nil
	}))
}

func TestExpire(t *testing.T) {
	logger.Discard()
	m := NewSessionManager(scene.DefaultOptions())
	_, err := m.Create("")
	require.NoError(t, err)

	assert.Zero(t, m.Expire(time.Hour))
	assert.Equal(t, 1, m.Expire(-time.Second))
	assert.Zero(t, m.Len())
}

func TestFileStorage(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	assert.Error(t, s.EnsureDir("../escape"))
	assert.Error(t, s.EnsureDir(""))
	assert.Error(t, ValidateName(`a\b`))

	require.NoError(t, s.SaveFile("flat", s.JSONPath("flat"), []byte(`{}`)))
	data, err := os.ReadFile(filepath.Join(s.Root(), "flat", "project.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	require.NoError(t, s.EnsureUploadsDir("flat"))
	assert.Equal(t, filepath.Join(s.Root(), "flat", "uploads", "plan.svg"), s.UploadPath("flat", "../../plan.svg"))

	path, err := s.SaveUpload("flat", "../source.svg", []byte("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "flat", "uploads", "source.svg"), path)
	assert.FileExists(t, path)

	assert.Error(t, s.Remove("../flat"))
	require.NoError(t, s.Remove("flat"))
	assert.NoDirExists(t, s.ProjectDir("flat"))
	assert.NoError(t, s.Remove("flat"), "missing dir is fine")
}
