package geom

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, maxX, maxY float64) Polygon {
	return FromBound(orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}})
}

func TestIntersect(t *testing.T) {
	a := box(-10, -10, 10, 10)
	b := box(0, 0, 20, 20)
	got, ok := Intersect(a, b)
	require.True(t, ok)
	require.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, got.Bound())
}

func TestIntersect_Empty(t *testing.T) {
	a := box(-10, -10, -5, -5)
	b := box(5, 5, 10, 10)
	_, ok := Intersect(a, b)
	require.False(t, ok)
}

func TestNetPolygon_CoversEverywhere(t *testing.T) {
	huge := box(-1000, -1000, 1000, 1000)
	netted := NetPolygon(&huge)
	require.Equal(t, Everywhere.Bound(), netted.Bound())
}

func TestNetPolygon_InsideEverywhere(t *testing.T) {
	small := box(-10, -10, 10, 10)
	netted := NetPolygon(&small)
	require.Equal(t, small.Bound(), netted.Bound())
}

func TestNetPolygon_Nil(t *testing.T) {
	require.Nil(t, NetPolygon(nil))
}

func TestOverlap(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)

	got, ok := Overlap(Interval{t0, t1}, Interval{t2, t3})
	require.True(t, ok)
	require.Equal(t, t2, got.Start)
	require.Equal(t, t1, got.End)
}

func TestOverlap_Empty(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)

	_, ok := Overlap(Interval{t0, t1}, Interval{t2, t3})
	require.False(t, ok)
}

func TestInstant(t *testing.T) {
	now := time.Now()
	require.True(t, Interval{now, now}.Instant())
	require.False(t, Interval{now, now.Add(time.Hour)}.Instant())
}
