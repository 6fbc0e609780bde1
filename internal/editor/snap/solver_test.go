package snap

import (
	"testing"

	"floorplan/internal/editor/geometry"
	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(x, y, w, h float64) *models.PlacedItem {
	return models.NewPlacedItem("crate.svg", "", x, y, w, h, 0)
}

func TestSnapsToSiblingLeftEdge(t *testing.T) {
	a := item(100, 100, 50, 50)
	b := item(0, 0, 50, 50)

	res := NewSolver(10).Solve(b, []models.Entity{a, b}, 103, 100)

	assert.Equal(t, 100.0, res.X)
	assert.True(t, res.SnappedX)
	require.NotEmpty(t, res.Guides)
	assert.Equal(t, Vertical, res.Guides[0].Orientation)
	assert.Equal(t, geometry.Point{X: 100, Y: 50}, res.Guides[0].From)
	assert.Equal(t, geometry.Point{X: 100, Y: 200}, res.Guides[0].To)
}

func TestNoNearbyEdgesLeavesProposal(t *testing.T) {
	a := item(100, 100, 50, 50)
	b := item(0, 0, 50, 50)

	res := NewSolver(10).Solve(b, []models.Entity{a}, 200, 300)

	assert.Equal(t, 200.0, res.X)
	assert.Equal(t, 300.0, res.Y)
	assert.False(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Empty(t, res.Guides)

	res = NewSolver(10).Solve(b, []models.Entity{a}, 200, 100)
	assert.Equal(t, 200.0, res.X)
	assert.Equal(t, 100.0, res.Y)
	assert.False(t, res.SnappedX)
}

func TestRightEdgeAbutsLeftEdge(t *testing.T) {
	a := item(100, 100, 50, 50)
	b := item(0, 0, 30, 30)

	// правый край b (65+30=95) рядом с левым краем a
	res := NewSolver(10).Solve(b, []models.Entity{a}, 65, 400)

	assert.Equal(t, 70.0, res.X)
	assert.False(t, res.SnappedY)
}

func TestCenterAlignment(t *testing.T) {
	a := item(100, 100, 100, 100) // центр 150
	b := item(0, 0, 20, 20)

	res := NewSolver(10).Solve(b, []models.Entity{a}, 400, 144)

	assert.True(t, res.SnappedY)
	assert.Equal(t, 140.0, res.Y)
}

func TestFirstSiblingWinsOverCloser(t *testing.T) {
	far := item(100, 500, 50, 50)
	near := item(104, 800, 50, 50)
	b := item(0, 0, 50, 50)

	res := NewSolver(10).Solve(b, []models.Entity{far, near}, 105, 0)
	assert.Equal(t, 100.0, res.X)

	res = NewSolver(10).Solve(b, []models.Entity{near, far}, 105, 0)
	assert.Equal(t, 104.0, res.X)
}

func TestThresholdIsStrict(t *testing.T) {
	a := item(100, 100, 50, 50)
	b := item(0, 0, 50, 50)

	res := NewSolver(10).Solve(b, []models.Entity{a}, 110, 400)
	assert.False(t, res.SnappedX)
	assert.Equal(t, 110.0, res.X)
}
