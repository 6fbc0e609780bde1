package svgexport

import (
	"strings"
	"testing"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/scene"
	"floorplan/internal/editor/svgimport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyScene(t *testing.T) {
	svg := Render(nil)
	assert.Contains(t, svg, `viewBox="0 0 800 600"`)
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestRenderElements(t *testing.T) {
	diagonal, err := models.NewWall(0, 0, 100, 100, 12)
	require.NoError(t, err)
	straight, err := models.NewWall(0, 200, 300, 200, 10)
	require.NoError(t, err)
	window := models.NewOpening(models.StyleWindow, 100, 193, 100, 15, 0)
	door := models.NewOpening(models.StyleDoor, 100, 193, 100, 15, 90)
	zone, err := models.NewFloorZone(0, 0, 300, 200)
	require.NoError(t, err)
	item := models.NewPlacedItem(`assets/a&b_chair.svg`, "", 10, 10, 80, 80, 45)

	svg := Render([]models.Entity{diagonal, straight, window, door, zone, item})

	assert.Contains(t, svg, `<line id="Wall_`+diagonal.ID()+`" x1="0" y1="0" x2="100" y2="100" stroke="#000" stroke-width="12" />`)
	assert.Contains(t, svg, `<rect id="Wall_`+straight.ID()+`" x="0" y="195" width="300" height="10"`)
	assert.Contains(t, svg, `<rect id="Window_`+window.ID()+`" x="100" y="193" width="100" height="15"`)
	assert.Contains(t, svg, `<path id="Door_`+door.ID()+`" d="M `)
	assert.Contains(t, svg, `href="assets/a&amp;b_chair.svg"`)
	assert.Contains(t, svg, `rotate(45 50 50)`)

	zoneAt := strings.Index(svg, "Room_"+zone.ID())
	wallAt := strings.Index(svg, "Wall_"+diagonal.ID())
	require.NotEqual(t, -1, zoneAt)
	assert.Less(t, zoneAt, wallAt, "zones are emitted first")
}

func TestTemplateSurvivesRoundTrip(t *testing.T) {
	logger.Discard()
	c, err := scene.New(scene.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, c.LoadTemplate("studio"))

	svg := Render(c.Entities())
	res, err := svgimport.Import(strings.NewReader(svg), svgimport.DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, res.Skipped)
	assert.GreaterOrEqual(t, res.Walls, 10, "walls may be split at junctions")
	assert.InDelta(t, c.Statistics().WallLength, scene.ComputeStatistics(res.Entities).WallLength, 1e-6)
	assert.Empty(t, collision.NewDetector().Detect(res.Entities))
}

func TestRotatedOpeningSurvivesRoundTrip(t *testing.T) {
	logger.Discard()
	wall, err := models.NewWall(200, 0, 200, 400, 10)
	require.NoError(t, err)
	door := models.NewOpening(models.StyleDoor, 150, 193, 100, 15, 90)

	res, err := svgimport.Import(strings.NewReader(Render([]models.Entity{wall, door})), svgimport.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, res.Openings)

	var got *models.Opening
	for _, e := range res.Entities {
		if op, ok := e.(*models.Opening); ok {
			got = op
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, models.StyleDoor, got.Style)
	assert.InDelta(t, 90, got.Rotation(), 1e-9)
	assert.InDelta(t, door.Bounds().X, got.Bounds().X, 1e-9)
	assert.InDelta(t, door.Bounds().H, got.Bounds().H, 1e-9)
}
