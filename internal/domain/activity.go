package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types.
const (
	ActivityRun         = "run"
	ActivityTrailRun    = "trail_run"
	ActivityRace        = "race"
	ActivityRecoveryRun = "recovery_run"
)

// TrackFile is the metadata of a recorded GPS track (GPX/TCX) attached to an
// activity. The file itself lives in object storage.
type TrackFile struct {
	ObjectKey   string    `bson:"objectKey" json:"-"`
	FileName    string    `bson:"fileName" json:"fileName"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Activity is a logged run. When linked to a route, creating the activity
// increments that route's completion counter and deleting it decrements it.
type Activity struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID  `bson:"userId" json:"userId"`
	Name              string              `bson:"name,omitempty" json:"name,omitempty"`
	ActivityType      string              `bson:"activityType" json:"activityType"`
	RouteID           *primitive.ObjectID `bson:"routeId,omitempty" json:"routeId,omitempty"`
	StartedAt         time.Time           `bson:"startedAt" json:"startedAt"`
	Distance          float64             `bson:"distance" json:"distance"` // meters
	Duration          int                 `bson:"duration" json:"duration"` // seconds
	MovingTime        *int                `bson:"movingTime,omitempty" json:"movingTime,omitempty"`
	ElevationGain     *float64            `bson:"elevationGain,omitempty" json:"elevationGain,omitempty"`
	ElevationLoss     *float64            `bson:"elevationLoss,omitempty" json:"elevationLoss,omitempty"`
	AveragePace       *float64            `bson:"averagePace,omitempty" json:"averagePace,omitempty"` // sec/km
	AverageSpeed      *float64            `bson:"averageSpeed,omitempty" json:"averageSpeed,omitempty"`
	MaxSpeed          *float64            `bson:"maxSpeed,omitempty" json:"maxSpeed,omitempty"`
	AverageHeartRate  *int                `bson:"averageHeartRate,omitempty" json:"averageHeartRate,omitempty"`
	MaxHeartRate      *int                `bson:"maxHeartRate,omitempty" json:"maxHeartRate,omitempty"`
	Calories          *int                `bson:"calories,omitempty" json:"calories,omitempty"`
	Temperature       *float64            `bson:"temperature,omitempty" json:"temperature,omitempty"`
	WeatherConditions string              `bson:"weatherConditions,omitempty" json:"weatherConditions,omitempty"`
	PerceivedEffort   *int                `bson:"perceivedEffort,omitempty" json:"perceivedEffort,omitempty"` // 1..10
	GPSData           interface{}         `bson:"gpsData,omitempty" json:"gpsData,omitempty"`
	Splits            interface{}         `bson:"splits,omitempty" json:"splits,omitempty"`
	Notes             string              `bson:"notes,omitempty" json:"notes,omitempty"`
	IsRace            bool                `bson:"isRace" json:"isRace"`
	IsPrivate         bool                `bson:"isPrivate" json:"isPrivate"`
	Track             *TrackFile          `bson:"track,omitempty" json:"track,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
