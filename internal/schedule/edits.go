package schedule

import (
	"errors"
	"fmt"

	"coachkit/trainer-app/internal/domain"

	"github.com/google/uuid"
)

// Structural template edits are expressed as pure transformations: take
// the old weeks value, return a freshly built one, and feed the result
// through the template store's ReplaceWeeks primitive. The input is never
// mutated, so a failed edit leaves the caller's copy untouched and the
// last-writer-wins replacement contract stays in one place.

const (
	// MaxDaysPerWeek caps a week at a calendar week.
	MaxDaysPerWeek = 7
	// MinDaysPerWeek keeps every week from going empty.
	MinDaysPerWeek = 1
)

var (
	ErrWeekNotFound     = errors.New("week not found")
	ErrDayNotFound      = errors.New("day not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrExerciseNotFound = errors.New("exercise not found in section")
	ErrMaxDaysReached   = errors.New("week already has the maximum number of days")
	ErrMinDaysReached   = errors.New("week must keep at least one day")
	ErrBadFrequency     = errors.New("training frequency must be between 3 and 7 days per week")
)

// frequencyPatterns maps days-per-week presets to the day numbers that
// stay training days; everything else in the week becomes a rest day.
var frequencyPatterns = map[int][]int{
	3: {1, 3, 5},          // Mon, Wed, Fri
	4: {1, 2, 4, 5},       // Mon, Tue, Thu, Fri
	5: {1, 2, 3, 4, 5},    // Mon-Fri
	6: {1, 2, 3, 4, 5, 6}, // Mon-Sat
	7: {1, 2, 3, 4, 5, 6, 7},
}

// CloneWeeks deep-copies a weeks structure, including sections and
// exercise prescriptions. The copy shares nothing with the original.
func CloneWeeks(weeks []domain.ProgramWeek) []domain.ProgramWeek {
	if weeks == nil {
		return nil
	}
	out := make([]domain.ProgramWeek, len(weeks))
	for wi, week := range weeks {
		days := make([]domain.ProgramDay, len(week.Days))
		for di, day := range week.Days {
			sections := make([]domain.ProgramSection, len(day.Sections))
			for si, section := range day.Sections {
				exercises := make([]domain.ProgramExercise, len(section.Exercises))
				copy(exercises, section.Exercises)
				section.Exercises = exercises
				sections[si] = section
			}
			day.Sections = sections
			days[di] = day
		}
		week.Days = days
		out[wi] = week
	}
	return out
}

func newDay(dayNumber int) domain.ProgramDay {
	return domain.ProgramDay{
		DayNumber: dayNumber,
		Name:      fmt.Sprintf("Day %d", dayNumber),
		IsRestDay: false,
		Sections:  []domain.ProgramSection{},
	}
}

// DefaultWeeks seeds a freshly created template: one week of seven
// training days with empty sections.
func DefaultWeeks() []domain.ProgramWeek {
	days := make([]domain.ProgramDay, MaxDaysPerWeek)
	for i := range days {
		days[i] = newDay(i + 1)
	}
	return []domain.ProgramWeek{{WeekNumber: 1, Days: days}}
}

// AddWeek appends a new week numbered max(weekNumbers)+1 mirroring the
// first week's day count, all training days.
func AddWeek(weeks []domain.ProgramWeek) []domain.ProgramWeek {
	out := CloneWeeks(weeks)

	maxWeek := 0
	for _, w := range out {
		if w.WeekNumber > maxWeek {
			maxWeek = w.WeekNumber
		}
	}
	dayCount := MaxDaysPerWeek
	if len(out) > 0 {
		dayCount = len(out[0].Days)
	}

	days := make([]domain.ProgramDay, dayCount)
	for i := range days {
		days[i] = newDay(i + 1)
	}
	return append(out, domain.ProgramWeek{WeekNumber: maxWeek + 1, Days: days})
}

// AddDay appends one day to every week in lockstep, keeping day counts
// aligned across weeks. Capped at MaxDaysPerWeek.
func AddDay(weeks []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
	if len(weeks) > 0 && len(weeks[0].Days) >= MaxDaysPerWeek {
		return nil, ErrMaxDaysReached
	}
	out := CloneWeeks(weeks)
	for wi := range out {
		maxDay := 0
		for _, d := range out[wi].Days {
			if d.DayNumber > maxDay {
				maxDay = d.DayNumber
			}
		}
		out[wi].Days = append(out[wi].Days, newDay(maxDay+1))
	}
	return out, nil
}

// RemoveDay drops the given day number from every week and renumbers the
// remaining days contiguously from 1 (names follow the numbering).
func RemoveDay(weeks []domain.ProgramWeek, dayNumber int) ([]domain.ProgramWeek, error) {
	if len(weeks) > 0 && len(weeks[0].Days) <= MinDaysPerWeek {
		return nil, ErrMinDaysReached
	}
	out := CloneWeeks(weeks)
	for wi := range out {
		kept := make([]domain.ProgramDay, 0, len(out[wi].Days))
		for _, d := range out[wi].Days {
			if d.DayNumber == dayNumber {
				continue
			}
			kept = append(kept, d)
		}
		for di := range kept {
			kept[di].DayNumber = di + 1
			kept[di].Name = fmt.Sprintf("Day %d", di+1)
		}
		out[wi].Days = kept
	}
	return out, nil
}

// SetRestDay sets a single day's rest flag.
func SetRestDay(weeks []domain.ProgramWeek, weekNumber, dayNumber int, isRestDay bool) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	day := findDay(out, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	day.IsRestDay = isRestDay
	return out, nil
}

// ToggleRestDay flips a single day between training and rest.
func ToggleRestDay(weeks []domain.ProgramWeek, weekNumber, dayNumber int) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	day := findDay(out, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	day.IsRestDay = !day.IsRestDay
	return out, nil
}

// ApplyFrequencyPreset stamps a named training-frequency pattern onto one
// week: days in the pattern train, the rest become rest days. Applying
// the same preset twice is a no-op the second time.
func ApplyFrequencyPreset(weeks []domain.ProgramWeek, weekNumber, frequency int) ([]domain.ProgramWeek, error) {
	pattern, ok := frequencyPatterns[frequency]
	if !ok {
		return nil, ErrBadFrequency
	}

	out := CloneWeeks(weeks)
	for wi := range out {
		if out[wi].WeekNumber != weekNumber {
			continue
		}
		for di := range out[wi].Days {
			out[wi].Days[di].IsRestDay = !containsInt(pattern, out[wi].Days[di].DayNumber)
		}
		return out, nil
	}
	return nil, ErrWeekNotFound
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// AddSection appends a section to one day. A missing section id is
// assigned here so callers can submit bare section specs.
func AddSection(weeks []domain.ProgramWeek, weekNumber, dayNumber int, section domain.ProgramSection) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	day := findDay(out, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	if section.Exercises == nil {
		section.Exercises = []domain.ProgramExercise{}
	}
	day.Sections = append(day.Sections, section)
	return out, nil
}

// RemoveSection deletes a section from one day by id.
func RemoveSection(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	day := findDay(out, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	for si, section := range day.Sections {
		if section.ID == sectionID {
			day.Sections = append(day.Sections[:si], day.Sections[si+1:]...)
			return out, nil
		}
	}
	return nil, ErrSectionNotFound
}

// MoveSection repositions a section within its day. Target positions are
// clamped to the section list bounds.
func MoveSection(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string, newIndex int) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	day := findDay(out, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	from := -1
	for si, section := range day.Sections {
		if section.ID == sectionID {
			from = si
			break
		}
	}
	if from == -1 {
		return nil, ErrSectionNotFound
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(day.Sections) {
		newIndex = len(day.Sections) - 1
	}
	section := day.Sections[from]
	day.Sections = append(day.Sections[:from], day.Sections[from+1:]...)
	day.Sections = append(day.Sections[:newIndex], append([]domain.ProgramSection{section}, day.Sections[newIndex:]...)...)
	return out, nil
}

// SetSectionExercises replaces the full exercise list of one section.
func SetSectionExercises(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string, exercises []domain.ProgramExercise) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	section, err := findSection(out, weekNumber, dayNumber, sectionID)
	if err != nil {
		return nil, err
	}
	section.Exercises = append([]domain.ProgramExercise{}, exercises...)
	return out, nil
}

// UpdateExercise replaces one exercise prescription within a section.
func UpdateExercise(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string, exerciseIndex int, exercise domain.ProgramExercise) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	section, err := findSection(out, weekNumber, dayNumber, sectionID)
	if err != nil {
		return nil, err
	}
	if exerciseIndex < 0 || exerciseIndex >= len(section.Exercises) {
		return nil, ErrExerciseNotFound
	}
	section.Exercises[exerciseIndex] = exercise
	return out, nil
}

// RemoveExercise drops one exercise prescription from a section.
func RemoveExercise(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string, exerciseIndex int) ([]domain.ProgramWeek, error) {
	out := CloneWeeks(weeks)
	section, err := findSection(out, weekNumber, dayNumber, sectionID)
	if err != nil {
		return nil, err
	}
	if exerciseIndex < 0 || exerciseIndex >= len(section.Exercises) {
		return nil, ErrExerciseNotFound
	}
	section.Exercises = append(section.Exercises[:exerciseIndex], section.Exercises[exerciseIndex+1:]...)
	return out, nil
}

func findSection(weeks []domain.ProgramWeek, weekNumber, dayNumber int, sectionID string) (*domain.ProgramSection, error) {
	day := findDay(weeks, weekNumber, dayNumber)
	if day == nil {
		return nil, ErrDayNotFound
	}
	for si := range day.Sections {
		if day.Sections[si].ID == sectionID {
			return &day.Sections[si], nil
		}
	}
	return nil, ErrSectionNotFound
}
