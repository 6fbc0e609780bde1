package svgimport

import (
	"strings"
	"testing"

	"floorplan/internal/common/logger"
	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plan = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="1000" height="800">
  <rect id="Wall_top" x="0" y="0" width="400" height="10"/>
  <rect id="Wall_left" x="0" y="0" width="10" height="300"/>
  <g id="inner">
    <path id="Wall_mid" d="M 200 5 L 210 5 L 210 300 L 200 300 Z"/>
  </g>
  <rect id="Window_1" x="100" y="0" width="60" height="10"/>
  <rect id="Door_1" x="0" y="100" width="10" height="80"/>
  <rect id="Kitchen_room" x="10" y="10" width="190" height="290"/>
  <rect id="decor" x="0" y="0" width="5" height="5"/>
</svg>`

func TestParsePath(t *testing.T) {
	points, err := ParsePath("M 0 0 L 10 0 l 0 10 H 0 z")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}, points)

	points, err = ParsePath("m 5,5 10,0 v 5")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 10}}, points)

	_, err = ParsePath("   ")
	assert.Error(t, err)
}

func TestParseSVGClassifiesByID(t *testing.T) {
	elements, err := ParseSVG(strings.NewReader(plan))
	require.NoError(t, err)

	byType := map[ElementType]int{}
	for _, el := range elements {
		byType[el.Type]++
	}
	assert.Equal(t, map[ElementType]int{TypeWall: 3, TypeWindow: 1, TypeDoor: 1, TypeRoom: 1}, byType)

	_, err = ParseSVG(strings.NewReader("<svg><rect"))
	assert.Error(t, err)
}

func TestClassifyElementByID(t *testing.T) {
	cases := map[string]ElementType{
		"Wall_1":       TypeWall,
		"Hui_Wall_7":   TypeWall,
		"Door_2":       TypeDoor,
		"Window_3":     TypeWindow,
		"Room_1":       TypeRoom,
		"Toilet_room":  TypeRoom,
		"Hall_Room":    TypeRoom,
		"Balcony":      TypeBalcony,
		"Balcony_2":    TypeBalcony,
		"Furniture_01": "",
	}
	for id, want := range cases {
		assert.Equal(t, want, classifyElementByID(id), id)
	}
}

func TestImportPlan(t *testing.T) {
	logger.Discard()
	res, err := Import(strings.NewReader(plan), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Walls, "corner stubs are pruned, the top wall is split at the junction")
	assert.Equal(t, 2, res.Openings)
	assert.Equal(t, 1, res.Zones)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Entities, 7)
	assert.Equal(t, models.KindFloorZone, res.Entities[0].Kind(), "zones come first")

	var segments [][4]float64
	for _, w := range models.Walls(res.Entities) {
		segments = append(segments, [4]float64{w.X1, w.Y1, w.X2, w.Y2})
		assert.Equal(t, 10.0, w.Thickness)
	}
	assert.ElementsMatch(t, [][4]float64{
		{5, 5, 205, 5},
		{205, 5, 400, 5},
		{5, 5, 5, 300},
		{205, 5, 205, 300},
	}, segments)

	assert.Empty(t, collision.NewDetector().Detect(res.Entities))
}

func TestImportOpenings(t *testing.T) {
	logger.Discard()
	res, err := Import(strings.NewReader(plan), DefaultOptions())
	require.NoError(t, err)

	var window, door *models.Opening
	for _, e := range res.Entities {
		if op, ok := e.(*models.Opening); ok {
			if op.Style == models.StyleDoor {
				door = op
			} else {
				window = op
			}
		}
	}
	require.NotNil(t, window)
	require.NotNil(t, door)

	assert.Equal(t, geometry.Rect{X: 100, Y: 0, W: 60, H: 10}, window.Frame())
	assert.Zero(t, window.Rotation())
	assert.True(t, window.WallAttachment)

	assert.Equal(t, 90.0, door.Rotation(), "vertical door is stored rotated")
	assert.Equal(t, geometry.Rect{X: -35, Y: 135, W: 80, H: 10}, door.Frame())
	assert.Equal(t, geometry.Rect{X: 0, Y: 100, W: 10, H: 80}, door.Bounds())
	assert.True(t, door.WallAttachment)
}

func TestImportDetachedWindow(t *testing.T) {
	logger.Discard()
	src := `<svg>
  <rect id="Wall_1" x="0" y="0" width="200" height="10"/>
  <rect id="Window_far" x="0" y="500" width="60" height="10"/>
</svg>`
	res, err := Import(strings.NewReader(src), DefaultOptions())
	require.NoError(t, err)

	for _, e := range res.Entities {
		if op, ok := e.(*models.Opening); ok {
			assert.False(t, op.WallAttachment)
		}
	}
}

func TestImportScalesAndOffsets(t *testing.T) {
	logger.Discard()
	src := `<svg><rect id="Wall_1" x="0" y="0" width="100" height="10"/></svg>`
	res, err := Import(strings.NewReader(src), Options{Scale: 2, OffsetX: 10})
	require.NoError(t, err)

	walls := models.Walls(res.Entities)
	require.Len(t, walls, 1)
	assert.Equal(t, [4]float64{10, 10, 210, 10}, [4]float64{walls[0].X1, walls[0].Y1, walls[0].X2, walls[0].Y2})
	assert.Equal(t, 20.0, walls[0].Thickness)
}

func TestImportCrossingWallsBecomeJunction(t *testing.T) {
	logger.Discard()
	src := `<svg>
  <line id="Wall_h" x1="0" y1="100" x2="200" y2="100" stroke-width="10"/>
  <line id="Wall_v" x1="100" y1="0" x2="100" y2="200" stroke-width="10"/>
</svg>`
	res, err := Import(strings.NewReader(src), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Walls)
	assert.Empty(t, collision.NewDetector().Detect(res.Entities))
}

func TestImportSkipsBrokenPaths(t *testing.T) {
	logger.Discard()
	src := `<svg><path id="Wall_bad" d=""/><path id="Room_bad" d="Q"/></svg>`
	res, err := Import(strings.NewReader(src), DefaultOptions())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Wall_bad", "Room_bad"}, res.Skipped)
	assert.Empty(t, res.Entities)
}
