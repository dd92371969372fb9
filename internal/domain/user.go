package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the body measurements used by the BMI calculator and the
// profile_complete achievement. Height is in centimetres, weight in kilograms.
type Profile struct {
	Age    int     `bson:"age,omitempty" json:"age,omitempty"`
	Height float64 `bson:"height,omitempty" json:"height,omitempty"`
	Weight float64 `bson:"weight,omitempty" json:"weight,omitempty"`
}

// IsComplete reports whether age, height and weight are all set.
func (p Profile) IsComplete() bool {
	return p.Age > 0 && p.Height > 0 && p.Weight > 0
}

// User represents an account owning a set of per-user collections.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	Profile      Profile            `bson:"profile" json:"profile"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
