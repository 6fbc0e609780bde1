package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"floorplan/internal/editor/models"
	"floorplan/internal/editor/project"
	"floorplan/internal/editor/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	statsJSON, statsWatch = false, false
	importOutput, importName, importScale, importOffsetX, importOffsetY = "", "", 1, 0, 0
	exportOutput, templateOutput = "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTemplateCommand(t *testing.T) {
	out, err := run(t, "template")
	require.NoError(t, err)
	assert.Contains(t, out, "studio")
	assert.Contains(t, out, "two-room")

	dst := filepath.Join(t.TempDir(), "studio.json")
	out, err = run(t, "template", "studio", "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "10 walls")

	p, entities, err := project.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, "studio", p.Name)
	assert.Len(t, entities, 10)

	_, err = run(t, "template", "castle", "-o", dst)
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "plan.json")
	w, err := models.NewWall(0, 0, 500, 0, models.DefaultWallThickness)
	require.NoError(t, err)
	z, err := models.NewFloorZone(0, 0, 100, 200)
	require.NoError(t, err)
	require.NoError(t, project.Save(dst, project.New("flat"), []models.Entity{z, w}))

	out, err := run(t, "stats", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Project: flat")
	assert.Contains(t, out, "Walls:     1 (5.00 m)")

	out, err = run(t, "stats", "--json", dst)
	require.NoError(t, err)
	var stats scene.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Zones)
	assert.InDelta(t, 500.0, stats.WallLength, 1e-9)

	_, err = run(t, "stats", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, project.ErrPersistence)
}

func TestImportExportCommands(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "plan.svg")
	require.NoError(t, os.WriteFile(svgPath, []byte(`<svg xmlns="http://www.w3.org/2000/svg">
  <rect id="Wall_top" x="0" y="0" width="400" height="10"/>
  <rect id="Window_1" x="100" y="0" width="60" height="10"/>
  <rect id="logo" x="500" y="500" width="5" height="5"/>
</svg>`), 0o644))

	out, err := run(t, "import-svg", svgPath, "--scale", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Walls: 1, Openings: 1, Zones: 0")
	assert.NotContains(t, out, "Skipped")

	jsonPath := filepath.Join(dir, "plan.json")
	p, entities, err := project.Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "plan", p.Name)
	require.Len(t, entities, 2)
	wall, ok := entities[0].(*models.Wall)
	require.True(t, ok)
	assert.InDelta(t, 800.0, wall.Length(), 1e-9)

	out, err = run(t, "export-svg", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Window_")

	svgOut := filepath.Join(dir, "out.svg")
	out, err = run(t, "export-svg", jsonPath, "-o", svgOut)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 entities")
	assert.FileExists(t, svgOut)
}
