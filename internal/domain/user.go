package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings holds per-user training preferences. Stored embedded in the
// user document and created with defaults at registration.
type Settings struct {
	// Weight added on top of the suggested working weight, in kilograms.
	OverloadIncrement  float64 `bson:"overloadIncrement" json:"overloadIncrement"`
	DefaultRestSeconds int     `bson:"defaultRestSeconds" json:"defaultRestSeconds"`
	AutoSuggestWeights bool    `bson:"autoSuggestWeights" json:"autoSuggestWeights"`
}

// DefaultSettings returns the settings assigned to a freshly registered user.
func DefaultSettings() Settings {
	return Settings{
		OverloadIncrement:  2.5,
		DefaultRestSeconds: 90,
		AutoSuggestWeights: true,
	}
}

// User represents a runner's account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	FirstName    string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	DateOfBirth  *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Settings     Settings           `bson:"settings" json:"settings"`
	LastLoginAt  *time.Time         `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
