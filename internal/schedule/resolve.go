// Package schedule holds the pure program scheduling core: mapping real
// calendar dates onto template days, and the weeks transformations behind
// every structural template edit. Nothing in here touches storage; every
// function is a computation over domain values.
package schedule

import (
	"math"
	"time"

	"coachkit/trainer-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientProgramDay is the resolved content for one client on one real
// calendar date. Derived, never persisted.
type ClientProgramDay struct {
	DayNumber  int               `json:"dayNumber"` // flat counter, see ResolveAssignmentDay
	WeekNumber int               `json:"weekNumber"`
	DayData    domain.ProgramDay `json:"dayData"`
}

// midnight strips the time-of-day in the timestamp's own location. The
// scheduler reasons in whole local calendar days, not instants.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole days from start to target, both taken at local
// midnight. Negative when target precedes start.
func daysBetween(start, target time.Time) int {
	diff := midnight(target).Sub(midnight(start))
	return int(math.Floor(diff.Hours() / 24))
}

// ResolveAssignmentDay maps a real calendar date onto a template day for a
// legacy assignment. It returns nil when the template is missing, the
// target date precedes the assignment start, or no day carries the
// computed day number.
//
// The computed counter startingDay+daysPassed is flat across the whole
// template, while ProgramDay.DayNumber restarts at 1 per week. The two
// only line up within the first week (or wherever a later week happens to
// carry a matching number). That mismatch is long-standing observed
// behavior that calendar consumers depend on; ResolveInstanceDay is the
// variant that walks weeks with a true global index. Do not "fix" this
// here without migrating stored assignments.
func ResolveAssignmentDay(assignment *domain.ProgramAssignment, targetDate time.Time, template *domain.ProgramTemplate) *ClientProgramDay {
	if template == nil {
		return nil
	}

	daysPassed := daysBetween(assignment.AssignmentStartDate, targetDate)
	if daysPassed < 0 {
		// Program has not started yet for this client.
		return nil
	}

	currentProgramDay := assignment.StartingDay + daysPassed

	for _, week := range template.Weeks {
		for _, day := range week.Days {
			if day.DayNumber == currentProgramDay {
				return &ClientProgramDay{
					DayNumber:  currentProgramDay,
					WeekNumber: week.WeekNumber,
					DayData:    day,
				}
			}
		}
	}

	// Counter ran past every defined day: program over, or day not found.
	return nil
}

// ResolveInstanceDay maps a real calendar date onto a template day for a
// program instance. Unlike the legacy assignment path it computes a true
// global day index from the instance start date, so multi-week templates
// with per-week 1..N numbering resolve across week boundaries:
//
//	week = (index-1)/daysPerWeek + 1
//	day  = (index-1)%daysPerWeek + 1
//
// A per-client exercise override stored on the instance replaces the
// resolved day's section content.
func ResolveInstanceDay(instance *domain.ProgramInstance, targetDate time.Time, template *domain.ProgramTemplate) *ClientProgramDay {
	if template == nil || template.DaysPerWeek <= 0 {
		return nil
	}

	daysPassed := daysBetween(instance.StartDate, targetDate)
	if daysPassed < 0 {
		return nil
	}

	index := daysPassed + 1 // instances always begin at day 1 of week 1
	weekNumber := (index-1)/template.DaysPerWeek + 1
	dayNumber := (index-1)%template.DaysPerWeek + 1

	day := findDay(template.Weeks, weekNumber, dayNumber)
	if day == nil {
		return nil
	}

	resolved := *day
	if override := instance.OverrideFor(weekNumber, dayNumber); override != nil {
		resolved.Sections = []domain.ProgramSection{overrideSection(resolved.Name, override.Exercises)}
	}

	return &ClientProgramDay{
		DayNumber:  index,
		WeekNumber: weekNumber,
		DayData:    resolved,
	}
}

// overrideSection wraps a per-client exercise override into a single main
// section, since overrides prescribe exercises, not section structure.
func overrideSection(name string, exercises []domain.ProgramExercise) domain.ProgramSection {
	return domain.ProgramSection{
		SectionType:   domain.SectionMain,
		SectionFormat: domain.FormatStraightSets,
		Name:          name,
		Exercises:     exercises,
	}
}

func findDay(weeks []domain.ProgramWeek, weekNumber, dayNumber int) *domain.ProgramDay {
	for wi := range weeks {
		if weeks[wi].WeekNumber != weekNumber {
			continue
		}
		for di := range weeks[wi].Days {
			if weeks[wi].Days[di].DayNumber == dayNumber {
				return &weeks[wi].Days[di]
			}
		}
	}
	return nil
}

// ResolvedAssignment joins one assignment with its client, template and
// the day resolved for a target date.
type ResolvedAssignment struct {
	Assignment domain.ProgramAssignment `json:"assignment"`
	Client     *domain.User             `json:"client,omitempty"`
	Template   *domain.ProgramTemplate  `json:"template,omitempty"`
	Day        *ClientProgramDay        `json:"day"`
}

// ResolveAllForDate answers "who trains on this date and with what": it
// resolves every assignment for targetDate and drops the ones that
// resolve to nothing (not started, completed, or dangling template).
func ResolveAllForDate(
	targetDate time.Time,
	assignments []domain.ProgramAssignment,
	clientByID func(primitive.ObjectID) *domain.User,
	templateByID func(primitive.ObjectID) *domain.ProgramTemplate,
) []ResolvedAssignment {
	resolved := make([]ResolvedAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		template := templateByID(assignment.ProgramID)
		day := ResolveAssignmentDay(&assignment, targetDate, template)
		if day == nil {
			continue
		}
		resolved = append(resolved, ResolvedAssignment{
			Assignment: assignment,
			Client:     clientByID(assignment.ClientID),
			Template:   template,
			Day:        day,
		})
	}
	return resolved
}
