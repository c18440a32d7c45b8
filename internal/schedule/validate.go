package schedule

import (
	"fmt"

	"coachkit/trainer-app/internal/domain"
)

// ValidateWeeks checks the structural invariants the resolution algorithms
// rely on: week numbers contiguous from 1, day numbers contiguous from 1
// within every week, and the same day count in every week. A weeks value
// violating these would make flat-counter resolution ambiguous, so the
// template store refuses to persist it.
func ValidateWeeks(weeks []domain.ProgramWeek) error {
	dayCount := -1
	for wi, week := range weeks {
		if week.WeekNumber != wi+1 {
			return fmt.Errorf("week at position %d has number %d, want %d", wi, week.WeekNumber, wi+1)
		}
		if len(week.Days) < MinDaysPerWeek || len(week.Days) > MaxDaysPerWeek {
			return fmt.Errorf("week %d has %d days, want between %d and %d",
				week.WeekNumber, len(week.Days), MinDaysPerWeek, MaxDaysPerWeek)
		}
		if dayCount == -1 {
			dayCount = len(week.Days)
		} else if len(week.Days) != dayCount {
			return fmt.Errorf("week %d has %d days while week 1 has %d", week.WeekNumber, len(week.Days), dayCount)
		}
		for di, day := range week.Days {
			if day.DayNumber != di+1 {
				return fmt.Errorf("week %d day at position %d has number %d, want %d",
					week.WeekNumber, di, day.DayNumber, di+1)
			}
		}
	}
	return nil
}
