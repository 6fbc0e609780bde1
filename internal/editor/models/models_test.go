package models

import (
	"testing"

	"floorplan/internal/editor/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallRejectsZeroLength(t *testing.T) {
	_, err := NewWall(10, 10, 10, 10, 10)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)

	w, err := NewWall(0, 0, 100, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWallThickness, w.Thickness)
	assert.NotEmpty(t, w.ID())
}

func TestWallBoundsIncludeHitMargin(t *testing.T) {
	w, err := NewWall(100, 0, 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: -5, Y: -5, W: 110, H: 10}, w.Bounds())
}

func TestFloorZoneNormalizesDragRect(t *testing.T) {
	z, err := NewFloorZone(300, 200, -200, -100)
	require.NoError(t, err)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, W: 200, H: 100}, z.Bounds())
	assert.InDelta(t, 2.0, z.AreaSquareMeters(), 1e-9)

	_, err = NewFloorZone(10, 10, 50, 0)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestPlacedItemStructuralDetection(t *testing.T) {
	door := NewPlacedItem("assets/doors/single.svg", "", 0, 0, 80, 80, 0)
	assert.True(t, door.Structural)
	assert.True(t, IsWallAttachment(door))
	assert.Equal(t, DefaultItemCategory, door.Category)

	leaf := NewPlacedItem(`assets\misc\AdobeStock_front_door.png`, "Doors", 0, 0, 80, 80, 0)
	assert.True(t, leaf.Structural)
	assert.Equal(t, "Front Door", leaf.Name())

	sofa := NewPlacedItem("assets/living/sofa.svg", "Living", 0, 0, 80, 80, 0)
	assert.False(t, sofa.Structural)
	assert.False(t, IsWallAttachment(sofa))
}

func TestOpeningAttachmentFlag(t *testing.T) {
	o := NewOpening("", 0, 0, 100, 15, 0)
	assert.Equal(t, StyleWindow, o.Style)
	assert.True(t, IsWallAttachment(o))

	o.WallAttachment = false
	assert.False(t, IsWallAttachment(o))
	assert.Equal(t, 15.0, Thickness(o))
}

func TestRotationNormalized(t *testing.T) {
	o := NewOpening(StyleWindow, 0, 0, 100, 15, -90)
	assert.Equal(t, 270.0, o.Rotation())
	o.SetRotation(450)
	assert.Equal(t, 90.0, o.Rotation())
	assert.Equal(t, geometry.Rect{X: 42.5, Y: -42.5, W: 15, H: 100}, o.Bounds())
}

func TestCloneAllDoesNotAlias(t *testing.T) {
	w, err := NewWall(0, 0, 100, 0, 10)
	require.NoError(t, err)
	item := NewPlacedItem("sofa.svg", "", 10, 10, 20, 20, 0)
	live := []Entity{w, item}

	copied := CloneAll(live)
	w.X2 = 500
	item.SetSelected(true)

	cw := copied[0].(*Wall)
	assert.Equal(t, 100.0, cw.X2)
	assert.Equal(t, w.ID(), cw.ID())
	assert.False(t, copied[1].Selected())
}

func TestWithIDAndFind(t *testing.T) {
	z, err := NewFloorZone(0, 0, 10, 10)
	require.NoError(t, err)
	z = WithID(z, "zone-1")

	entities := []Entity{z}
	assert.Equal(t, 0, IndexOf(entities, "zone-1"))
	assert.Same(t, z, Find(entities, "zone-1"))
	assert.Nil(t, Find(entities, "missing"))
}
