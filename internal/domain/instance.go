package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstanceStatus tracks the lifecycle of an assigned program.
type InstanceStatus string

const (
	InstanceActive    InstanceStatus = "active"
	InstancePaused    InstanceStatus = "paused"
	InstanceCompleted InstanceStatus = "completed"
	InstanceCancelled InstanceStatus = "cancelled"
)

// DayRef identifies one day within a template by week and day number.
type DayRef struct {
	Week int `bson:"week" json:"week"`
	Day  int `bson:"day" json:"day"`
}

// DayOverride replaces the exercise list of one template day for one
// client, without forking the whole template.
type DayOverride struct {
	WeekNumber int               `bson:"weekNumber" json:"weekNumber"`
	DayNumber  int               `bson:"dayNumber" json:"dayNumber"`
	Exercises  []ProgramExercise `bson:"exercises" json:"exercises"`
}

// ProgramInstance binds one template to one client with live progress
// tracking. The template content is referenced by id, not copied, so
// template edits propagate to every instance unless a day is overridden.
//
// At most one active instance per client is enforced at creation time:
// activating a new instance pauses the previously active one.
type ProgramInstance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateID  primitive.ObjectID `bson:"templateId" json:"templateId"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	AssignedAt  time.Time          `bson:"assignedAt" json:"assignedAt"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	Status      InstanceStatus     `bson:"status" json:"status"`
	CurrentWeek int                `bson:"currentWeek" json:"currentWeek"`
	CurrentDay  int                `bson:"currentDay" json:"currentDay"`

	CompletedWeeks    []int         `bson:"completedWeeks,omitempty" json:"completedWeeks,omitempty"`
	CompletedDays     []DayRef      `bson:"completedDays,omitempty" json:"completedDays,omitempty"`
	ModifiedExercises []DayOverride `bson:"modifiedExercises,omitempty" json:"modifiedExercises,omitempty"`

	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OverrideFor returns the exercise override for (week, day), if any.
func (i *ProgramInstance) OverrideFor(week, day int) *DayOverride {
	for idx := range i.ModifiedExercises {
		o := &i.ModifiedExercises[idx]
		if o.WeekNumber == week && o.DayNumber == day {
			return o
		}
	}
	return nil
}

// HasCompletedDay reports whether (week, day) was already logged complete.
func (i *ProgramInstance) HasCompletedDay(week, day int) bool {
	for _, d := range i.CompletedDays {
		if d.Week == week && d.Day == day {
			return true
		}
	}
	return false
}
