package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Modality classifies what kind of training an exercise is.
type Modality string

const (
	ModalityStrength    Modality = "strength"
	ModalityCardio      Modality = "cardio"
	ModalityFlexibility Modality = "flexibility"
	ModalityMobility    Modality = "mobility"
)

// Exercise is a single entry in the exercise library. System defaults are
// seeded at startup (IsDefault = true) and cannot be deleted; everything
// else is authored by a trainer.
type Exercise struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Modality        Modality            `bson:"modality" json:"modality"`
	MuscleGroups    []string            `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"` // e.g. "Chest", "Triceps"
	MovementPattern string              `bson:"movementPattern,omitempty" json:"movementPattern,omitempty"` // e.g. "Push", "Hinge"
	Instructions    string              `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Category        string              `bson:"category,omitempty" json:"category,omitempty"` // e.g. "Compound", "Isolation", "HIIT"
	VideoURL        string              `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"` // demo video, object lives in S3
	IsDefault       bool                `bson:"isDefault" json:"isDefault"`
	CreatedBy       *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // nil for system defaults
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
