package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionType groups a block of exercises by its role within a day.
type SectionType string

const (
	SectionWarmup   SectionType = "warmup"
	SectionMain     SectionType = "main"
	SectionSkill    SectionType = "skill"
	SectionCooldown SectionType = "cooldown"
	SectionCustom   SectionType = "custom"
)

// SectionFormat describes how the exercises of a section are executed.
type SectionFormat string

const (
	FormatStraightSets SectionFormat = "straight-sets"
	FormatCircuit      SectionFormat = "circuit"
	FormatSuperset     SectionFormat = "superset"
	FormatAMRAP        SectionFormat = "amrap"
	FormatEMOM         SectionFormat = "emom"
	FormatTabata       SectionFormat = "tabata"
	FormatCustom       SectionFormat = "custom"
)

// ProgramTemplate is a reusable, trainer-authored workout blueprint.
// Templates are shared by reference: every assignment/instance pointing at
// one sees edits live, until a trainer clones it into a standalone copy.
type ProgramTemplate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	DaysPerWeek   int                `bson:"daysPerWeek" json:"daysPerWeek"`
	Weeks         []ProgramWeek      `bson:"weeks" json:"weeks"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"` // trainer who authored it

	// Set on personalized copies produced by Clone. A template with a
	// ClientID is a private fork for that client, not a shared blueprint.
	ClientID           *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	OriginalTemplateID *primitive.ObjectID `bson:"originalTemplateId,omitempty" json:"originalTemplateId,omitempty"`

	IsArchived bool      `bson:"isArchived" json:"isArchived"`
	Version    int64     `bson:"version" json:"version"` // bumped on every weeks replacement
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsPersonalized reports whether this template is a private per-client fork.
func (t *ProgramTemplate) IsPersonalized() bool {
	return t.ClientID != nil && *t.ClientID != primitive.NilObjectID
}

// MaxWeekNumber returns the highest week number, 0 for an empty template.
func (t *ProgramTemplate) MaxWeekNumber() int {
	max := 0
	for _, w := range t.Weeks {
		if w.WeekNumber > max {
			max = w.WeekNumber
		}
	}
	return max
}

// ProgramWeek holds one week of days, ordered by ascending DayNumber.
// WeekNumber sequences are contiguous starting at 1.
type ProgramWeek struct {
	WeekNumber int          `bson:"weekNumber" json:"weekNumber"`
	Days       []ProgramDay `bson:"days" json:"days"`
}

// ProgramDay is one day within a week. DayNumber restarts at 1 per week.
// A rest day normally carries no sections.
type ProgramDay struct {
	DayNumber int              `bson:"dayNumber" json:"dayNumber"`
	Name      string           `bson:"name" json:"name"`
	IsRestDay bool             `bson:"isRestDay" json:"isRestDay"`
	Sections  []ProgramSection `bson:"sections" json:"sections"`
}

// ProgramSection is a grouped block of exercises sharing a training format.
type ProgramSection struct {
	ID            string            `bson:"id" json:"id"` // uuid; sections are embedded, not their own documents
	SectionType   SectionType       `bson:"sectionType" json:"sectionType"`
	SectionFormat SectionFormat     `bson:"sectionFormat" json:"sectionFormat"`
	Name          string            `bson:"name" json:"name"`
	Duration      int               `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Exercises     []ProgramExercise `bson:"exercises" json:"exercises"`
	Rounds        int               `bson:"rounds,omitempty" json:"rounds,omitempty"`     // circuits, AMRAP
	WorkTime      int               `bson:"workTime,omitempty" json:"workTime,omitempty"` // EMOM/Tabata, seconds
	RestTime      int               `bson:"restTime,omitempty" json:"restTime,omitempty"` // EMOM/Tabata, seconds
}

// ProgramExercise is one prescribed exercise within a section.
type ProgramExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets" json:"sets"`
	Reps       string             `bson:"reps" json:"reps"`                         // "8-12", "AMRAP"
	Weight     string             `bson:"weight,omitempty" json:"weight,omitempty"` // "70%", "RPE 8", "100"
	Rest       int                `bson:"rest" json:"rest"`                         // seconds
	Tempo      string             `bson:"tempo,omitempty" json:"tempo,omitempty"`   // "3-1-1-0"
	RPE        int                `bson:"rpe,omitempty" json:"rpe,omitempty"`       // 1-10
}
