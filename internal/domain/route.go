package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Route types.
const (
	RouteLoop         = "loop"
	RouteOutAndBack   = "out_and_back"
	RoutePointToPoint = "point_to_point"
)

const earthRadiusMeters = 6371000

// LineString is a GeoJSON-style path: an ordered sequence of [longitude,
// latitude] pairs in decimal degrees.
type LineString struct {
	Type        string      `bson:"type" json:"type"` // always "LineString"
	Coordinates [][]float64 `bson:"coordinates" json:"coordinates"`
}

// DistanceMeters sums the haversine great-circle distance between each
// consecutive pair of points, rounded to the nearest whole meter.
// Fewer than 2 points yields 0.
func (l LineString) DistanceMeters() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(l.Coordinates)-1; i++ {
		total += haversine(l.Coordinates[i], l.Coordinates[i+1])
	}
	return math.Round(total)
}

// StartPoint returns the first vertex as (lng, lat). ok is false when the
// geometry is empty.
func (l LineString) StartPoint() (lng, lat float64, ok bool) {
	if len(l.Coordinates) == 0 || len(l.Coordinates[0]) < 2 {
		return 0, 0, false
	}
	return l.Coordinates[0][0], l.Coordinates[0][1], true
}

// EndPoint returns the last vertex as (lng, lat).
func (l LineString) EndPoint() (lng, lat float64, ok bool) {
	if len(l.Coordinates) == 0 {
		return 0, 0, false
	}
	last := l.Coordinates[len(l.Coordinates)-1]
	if len(last) < 2 {
		return 0, 0, false
	}
	return last[0], last[1], true
}

// haversine computes the great-circle distance in meters between two
// [lon, lat] points.
func haversine(p1, p2 []float64) float64 {
	lat1 := p1[1] * math.Pi / 180
	lat2 := p2[1] * math.Pi / 180
	dLat := (p2[1] - p1[1]) * math.Pi / 180
	dLng := (p2[0] - p1[0]) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Route is a hand-drawn running route. TimesCompleted is mutated only by
// activity creation/deletion through an atomic increment.
type Route struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Distance         float64            `bson:"distance" json:"distance"` // meters
	ElevationGain    *float64           `bson:"elevationGain,omitempty" json:"elevationGain,omitempty"`
	ElevationLoss    *float64           `bson:"elevationLoss,omitempty" json:"elevationLoss,omitempty"`
	Geometry         LineString         `bson:"routeGeometry" json:"routeGeometry"`
	StartPointLat    float64            `bson:"startPointLat" json:"startPointLat"`
	StartPointLng    float64            `bson:"startPointLng" json:"startPointLng"`
	EndPointLat      float64            `bson:"endPointLat" json:"endPointLat"`
	EndPointLng      float64            `bson:"endPointLng" json:"endPointLng"`
	RouteType        string             `bson:"routeType" json:"routeType"`
	SurfaceTypes     []string           `bson:"surfaceTypes,omitempty" json:"surfaceTypes,omitempty"`
	DifficultyRating string             `bson:"difficultyRating,omitempty" json:"difficultyRating,omitempty"` // easy, moderate, hard, expert
	EstimatedTime    *int               `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`       // seconds
	IsPublic         bool               `bson:"isPublic" json:"isPublic"`
	IsFavorite       bool               `bson:"isFavorite" json:"isFavorite"`
	TimesCompleted   int                `bson:"timesCompleted" json:"timesCompleted"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether the route can be read by the given user.
func (r *Route) VisibleTo(userID primitive.ObjectID) bool {
	return r.UserID == userID || r.IsPublic
}
