package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise categories used by the seeded library.
const (
	CategoryLowerBody = "lower_body"
	CategoryUpperBody = "upper_body"
	CategoryCore      = "core"
	CategoryMobility  = "mobility"
)

// Exercise is a reference entry in the exercise library. The seeded set is
// global (IsCustom=false, no creator); users may add their own custom entries
// which are visible only to them.
type Exercise struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Category        string              `bson:"category" json:"category"`
	MuscleGroups    []string            `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment       []string            `bson:"equipment,omitempty" json:"equipment,omitempty"`
	IsCompound      bool                `bson:"isCompound" json:"isCompound"`
	DifficultyLevel string              `bson:"difficultyLevel,omitempty" json:"difficultyLevel,omitempty"` // beginner, intermediate, advanced
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	IsCustom        bool                `bson:"isCustom" json:"isCustom"`
	CreatedByUserID *primitive.ObjectID `bson:"createdByUserId,omitempty" json:"createdByUserId,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether the exercise can be referenced by the given user:
// global entries are visible to everyone, custom entries only to their creator.
func (e *Exercise) VisibleTo(userID primitive.ObjectID) bool {
	if !e.IsCustom {
		return true
	}
	return e.CreatedByUserID != nil && *e.CreatedByUserID == userID
}
