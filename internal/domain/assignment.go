package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramAssignment binds a client to a template's day numbering starting
// at a real date. It is the legacy scheduling path: no template content is
// copied and no progress is tracked, resolution is purely date-driven.
//
// StartingDay is the template day number the client begins on, which
// allows mid-program starts. It is not range-checked against the template
// at creation time; an out-of-range value simply never resolves to a day.
type ProgramAssignment struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID            primitive.ObjectID `bson:"clientId" json:"clientId"`
	ProgramID           primitive.ObjectID `bson:"programId" json:"programId"` // -> ProgramTemplate
	AssignmentStartDate time.Time          `bson:"assignmentStartDate" json:"assignmentStartDate"`
	StartingDay         int                `bson:"startingDay" json:"startingDay"`
	NotifyClient        bool               `bson:"notifyClient" json:"notifyClient"`
	AssignedAt          time.Time          `bson:"assignedAt" json:"assignedAt"`
}
