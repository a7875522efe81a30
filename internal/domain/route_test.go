package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStringDistance(t *testing.T) {
	// 0.01 degrees of longitude at ~52N is roughly 685 meters.
	ls := LineString{
		Type: "LineString",
		Coordinates: [][]float64{
			{4.3007, 52.0705},
			{4.3107, 52.0705},
		},
	}

	d := ls.DistanceMeters()
	assert.InDelta(t, 690, d, 690*0.05)
	assert.Equal(t, d, float64(int(d)), "distance should be whole meters")
}

func TestLineStringDistanceSegmentsAdd(t *testing.T) {
	twoLegs := LineString{
		Coordinates: [][]float64{
			{4.3007, 52.0705},
			{4.3107, 52.0705},
			{4.3207, 52.0705},
		},
	}
	oneLeg := LineString{
		Coordinates: [][]float64{
			{4.3007, 52.0705},
			{4.3107, 52.0705},
		},
	}
	assert.InDelta(t, 2*oneLeg.DistanceMeters(), twoLegs.DistanceMeters(), 1.0)
}

func TestLineStringDistanceDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, LineString{}.DistanceMeters())
	assert.Equal(t, 0.0, LineString{Coordinates: [][]float64{{4.3, 52.07}}}.DistanceMeters())
}

func TestLineStringEndpoints(t *testing.T) {
	ls := LineString{
		Coordinates: [][]float64{
			{4.30, 52.07},
			{4.31, 52.08},
			{4.32, 52.09},
		},
	}

	lng, lat, ok := ls.StartPoint()
	require.True(t, ok)
	assert.Equal(t, 4.30, lng)
	assert.Equal(t, 52.07, lat)

	lng, lat, ok = ls.EndPoint()
	require.True(t, ok)
	assert.Equal(t, 4.32, lng)
	assert.Equal(t, 52.09, lat)

	_, _, ok = LineString{}.StartPoint()
	assert.False(t, ok)
}
