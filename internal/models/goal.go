package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GoalWater    = "water"    // glasses
	GoalCalories = "calories" // kcal
	GoalSleep    = "sleep"    // hours
)

// GoalTypes lists the tracked metric types in dashboard order.
var GoalTypes = []string{GoalWater, GoalCalories, GoalSleep}

// Goal is one user's reading for one metric on one calendar day.
// At most one document exists per (userId, type, UTC day); same-day
// writes update in place.
type Goal struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Type   string             `bson:"type" json:"type"`
	Value  float64            `bson:"value" json:"value"`
	Target float64            `bson:"target" json:"target"`
	Date   time.Time          `bson:"date" json:"date"`
}

// DefaultTarget returns the daily target used until the user sets one.
func DefaultTarget(goalType string) float64 {
	switch goalType {
	case GoalCalories:
		return 2000
	default: // water glasses and sleep hours share a default
		return 8
	}
}

// ValidGoalType reports whether t is one of the tracked metric types.
func ValidGoalType(t string) bool {
	switch t {
	case GoalWater, GoalCalories, GoalSleep:
		return true
	}
	return false
}
