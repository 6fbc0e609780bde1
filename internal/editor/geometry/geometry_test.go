package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToGridIdempotent(t *testing.T) {
	points := []Point{{0, 0}, {9.9, 10.1}, {-31, 47}, {123.456, -0.5}, {1e4 + 3, 7}}
	for _, g := range []float64{1, 7, 10, 20, 33.3} {
		cs, err := NewCoordinateSystem(g, 1)
		require.NoError(t, err)
		for _, p := range points {
			x, y := cs.SnapToGrid(p.X, p.Y)
			x2, y2 := cs.SnapToGrid(x, y)
			assert.InDelta(t, x, x2, 1e-9, "grid %v point %v", g, p)
			assert.InDelta(t, y, y2, 1e-9, "grid %v point %v", g, p)
		}
	}
}

func TestSnapToGridRounds(t *testing.T) {
	cs := DefaultCoordinateSystem()
	x, y := cs.SnapToGrid(29, 31)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 40.0, y)
}

func TestSetGridSizeRejectsNonPositive(t *testing.T) {
	cs := DefaultCoordinateSystem()

	err := cs.SetGridSize(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.Equal(t, DefaultGridSize, cs.GridSize())

	err = cs.SetScale(-2)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, DefaultScale, cs.Scale())

	_, err = NewCoordinateSystem(-1, 1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPixelsRealConversion(t *testing.T) {
	cs, err := NewCoordinateSystem(20, 5)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, cs.PixelsToReal(100), 1e-9)
	assert.InDelta(t, 100.0, cs.RealToPixels(25), 1e-9)
}

func TestRotatePoint(t *testing.T) {
	x, y := RotatePoint(10, 0, 0, 0, 90)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)

	// inverse rotation brings the point back
	x, y = RotatePoint(x, y, 0, 0, -90)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestAngleBetweenNormalized(t *testing.T) {
	assert.InDelta(t, 0, AngleBetween(0, 0, 10, 0), 1e-9)
	assert.InDelta(t, 90, AngleBetween(0, 0, 0, 10), 1e-9)
	assert.InDelta(t, 270, AngleBetween(0, 0, 0, -10), 1e-9)
	assert.InDelta(t, 180, AngleBetween(0, 0, -5, 0), 1e-9)
}

func TestFormatLength(t *testing.T) {
	cs := DefaultCoordinateSystem()
	assert.Equal(t, "2.50 m", cs.FormatLength(250))

	require.True(t, cs.SetDisplayUnit(UnitCentimeter))
	assert.Equal(t, "250.00 cm", cs.FormatLength(250))

	assert.False(t, cs.SetDisplayUnit("ft"))
	assert.Equal(t, UnitCentimeter, cs.DisplayUnit())
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "80.0 cm", FormatDistance(80))
	assert.Equal(t, "2.50 m", FormatDistance(250))
}

func TestRectNormalize(t *testing.T) {
	r := NewRect(50, 60, -40, -20).Normalize()
	assert.Equal(t, Rect{X: 10, Y: 40, W: 40, H: 20}, r)
}

func TestRectIntersectTouchingIsEmpty(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(10, 0, 10, 10)
	assert.False(t, a.Overlaps(b))

	c := NewRect(9, 5, 10, 10)
	in, ok := a.Intersect(c)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 9, Y: 5, W: 1, H: 5}, in)
	assert.Equal(t, 1.0, a.OverlapDepth(c))
}

func TestRotatedBoundsQuarterTurnSwapsSides(t *testing.T) {
	r := NewRect(0, 0, 100, 20).RotatedBounds(90)
	assert.Equal(t, Rect{X: 40, Y: -40, W: 20, H: 100}, r)
}

func TestSegmentCrossing(t *testing.T) {
	a := Segment{A: Point{0, 0}, B: Point{100, 100}}
	b := Segment{A: Point{0, 100}, B: Point{100, 0}}
	assert.True(t, a.Crosses(b))

	// corner: shared endpoint
	h := Segment{A: Point{0, 0}, B: Point{100, 0}}
	v := Segment{A: Point{100, 0}, B: Point{100, 100}}
	assert.False(t, h.Crosses(v))

	// T-junction
	tee := Segment{A: Point{50, 0}, B: Point{50, 80}}
	assert.False(t, h.Crosses(tee))
}

func TestSegmentBoxesOverlapCollinear(t *testing.T) {
	a := Segment{A: Point{0, 0}, B: Point{100, 0}}
	touching := Segment{A: Point{100, 0}, B: Point{200, 0}}
	overlapping := Segment{A: Point{50, 0}, B: Point{150, 0}}
	offset := Segment{A: Point{0, 20}, B: Point{100, 20}}

	assert.True(t, a.Parallel(touching))
	assert.False(t, a.BoxesOverlap(touching))
	assert.True(t, a.BoxesOverlap(overlapping))
	assert.False(t, a.BoxesOverlap(offset))
}

func TestDistanceToPoint(t *testing.T) {
	s := Segment{A: Point{0, 0}, B: Point{100, 0}}
	assert.InDelta(t, 5, s.DistanceToPoint(Point{50, 5}), 1e-9)
	assert.InDelta(t, math.Sqrt(2)*10, s.DistanceToPoint(Point{110, 10}), 1e-9)
}
