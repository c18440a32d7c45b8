package schedule

import (
	"fmt"
	"testing"

	"coachkit/trainer-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func restPattern(week domain.ProgramWeek) []bool {
	pattern := make([]bool, len(week.Days))
	for i, d := range week.Days {
		pattern[i] = d.IsRestDay
	}
	return pattern
}

func TestDefaultWeeks(t *testing.T) {
	weeks := DefaultWeeks()

	require.Len(t, weeks, 1)
	require.Len(t, weeks[0].Days, 7)
	assert.Equal(t, 1, weeks[0].WeekNumber)
	for i, d := range weeks[0].Days {
		assert.Equal(t, i+1, d.DayNumber)
		assert.False(t, d.IsRestDay)
		assert.Empty(t, d.Sections)
	}
	assert.NoError(t, ValidateWeeks(weeks))
}

func TestCloneWeeks_Independence(t *testing.T) {
	original := DefaultWeeks()
	original[0].Days[0].Sections = []domain.ProgramSection{{
		ID:            "s1",
		SectionType:   domain.SectionMain,
		SectionFormat: domain.FormatStraightSets,
		Name:          "Main",
		Exercises:     []domain.ProgramExercise{{Sets: 3, Reps: "10", Rest: 90}},
	}}

	clone := CloneWeeks(original)
	require.Equal(t, original, clone)

	// Mutations must not travel in either direction.
	clone[0].Days[0].Sections[0].Exercises[0].Sets = 5
	clone[0].Days[1].IsRestDay = true
	assert.Equal(t, 3, original[0].Days[0].Sections[0].Exercises[0].Sets)
	assert.False(t, original[0].Days[1].IsRestDay)

	original[0].Days[0].Sections[0].Name = "Changed"
	assert.Equal(t, "Main", clone[0].Days[0].Sections[0].Name)
}

func TestApplyFrequencyPreset_Four(t *testing.T) {
	weeks, err := ApplyFrequencyPreset(DefaultWeeks(), 1, 4)

	require.NoError(t, err)
	// Train Mon, Tue, Thu, Fri; rest Wed, Sat, Sun.
	assert.Equal(t, []bool{false, false, true, false, false, true, true}, restPattern(weeks[0]))
}

func TestApplyFrequencyPreset_Idempotent(t *testing.T) {
	once, err := ApplyFrequencyPreset(DefaultWeeks(), 1, 3)
	require.NoError(t, err)

	twice, err := ApplyFrequencyPreset(once, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyFrequencyPreset_OnlyTargetWeek(t *testing.T) {
	weeks := AddWeek(DefaultWeeks())

	weeks, err := ApplyFrequencyPreset(weeks, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, false, false, false, false, false, false}, restPattern(weeks[0]))
	assert.Equal(t, []bool{false, true, false, true, false, true, true}, restPattern(weeks[1]))
}

func TestApplyFrequencyPreset_Errors(t *testing.T) {
	_, err := ApplyFrequencyPreset(DefaultWeeks(), 1, 2)
	assert.ErrorIs(t, err, ErrBadFrequency)

	_, err = ApplyFrequencyPreset(DefaultWeeks(), 9, 3)
	assert.ErrorIs(t, err, ErrWeekNotFound)
}

func TestApplyFrequencyPreset_DoesNotMutateInput(t *testing.T) {
	input := DefaultWeeks()

	_, err := ApplyFrequencyPreset(input, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, DefaultWeeks(), input)
}

func TestToggleRestDay(t *testing.T) {
	weeks, err := ToggleRestDay(DefaultWeeks(), 1, 3)
	require.NoError(t, err)
	assert.True(t, weeks[0].Days[2].IsRestDay)

	weeks, err = ToggleRestDay(weeks, 1, 3)
	require.NoError(t, err)
	assert.False(t, weeks[0].Days[2].IsRestDay)

	_, err = ToggleRestDay(weeks, 1, 8)
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestSetRestDay(t *testing.T) {
	weeks, err := SetRestDay(DefaultWeeks(), 1, 7, true)
	require.NoError(t, err)
	assert.True(t, weeks[0].Days[6].IsRestDay)

	// Setting an already-set flag holds.
	weeks, err = SetRestDay(weeks, 1, 7, true)
	require.NoError(t, err)
	assert.True(t, weeks[0].Days[6].IsRestDay)
}

func TestAddWeek_MirrorsFirstWeek(t *testing.T) {
	base, err := RemoveDay(DefaultWeeks(), 7)
	require.NoError(t, err)

	weeks := AddWeek(base)

	require.Len(t, weeks, 2)
	assert.Equal(t, 2, weeks[1].WeekNumber)
	assert.Len(t, weeks[1].Days, 6)
	for _, d := range weeks[1].Days {
		assert.False(t, d.IsRestDay)
	}
	assert.NoError(t, ValidateWeeks(weeks))
}

func TestAddDay_AppendsToEveryWeek(t *testing.T) {
	weeks, err := RemoveDay(AddWeek(DefaultWeeks()), 7)
	require.NoError(t, err)

	weeks, err = AddDay(weeks)
	require.NoError(t, err)

	for _, w := range weeks {
		require.Len(t, w.Days, 7)
		assert.Equal(t, 7, w.Days[6].DayNumber)
		assert.Equal(t, "Day 7", w.Days[6].Name)
	}
}

func TestAddDay_CapsAtSeven(t *testing.T) {
	_, err := AddDay(DefaultWeeks())
	assert.ErrorIs(t, err, ErrMaxDaysReached)
}

func TestRemoveDay_RenumbersContiguously(t *testing.T) {
	weeks, err := RemoveDay(AddWeek(DefaultWeeks()), 3)
	require.NoError(t, err)

	for _, w := range weeks {
		require.Len(t, w.Days, 6)
		for i, d := range w.Days {
			assert.Equal(t, i+1, d.DayNumber)
			assert.Equal(t, fmt.Sprintf("Day %d", i+1), d.Name)
		}
	}
	assert.NoError(t, ValidateWeeks(weeks))
}

func TestRemoveDay_MinimumOneDay(t *testing.T) {
	weeks := DefaultWeeks()
	var err error
	for day := 7; day >= 2; day-- {
		weeks, err = RemoveDay(weeks, day)
		require.NoError(t, err)
	}

	_, err = RemoveDay(weeks, 1)
	assert.ErrorIs(t, err, ErrMinDaysReached)
}

func sampleSection() domain.ProgramSection {
	return domain.ProgramSection{
		SectionType:   domain.SectionMain,
		SectionFormat: domain.FormatCircuit,
		Name:          "Conditioning",
		Rounds:        4,
		Exercises: []domain.ProgramExercise{
			{ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: "12", Rest: 60},
		},
	}
}

func TestAddSection_AssignsID(t *testing.T) {
	weeks, err := AddSection(DefaultWeeks(), 1, 2, sampleSection())
	require.NoError(t, err)

	sections := weeks[0].Days[1].Sections
	require.Len(t, sections, 1)
	assert.NotEmpty(t, sections[0].ID)
	assert.Equal(t, "Conditioning", sections[0].Name)
}

func TestRemoveSection(t *testing.T) {
	weeks, err := AddSection(DefaultWeeks(), 1, 1, sampleSection())
	require.NoError(t, err)
	id := weeks[0].Days[0].Sections[0].ID

	weeks, err = RemoveSection(weeks, 1, 1, id)
	require.NoError(t, err)
	assert.Empty(t, weeks[0].Days[0].Sections)

	_, err = RemoveSection(weeks, 1, 1, id)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestMoveSection(t *testing.T) {
	weeks, err := AddSection(DefaultWeeks(), 1, 1, sampleSection())
	require.NoError(t, err)
	warmup := sampleSection()
	warmup.SectionType = domain.SectionWarmup
	warmup.Name = "Warmup"
	weeks, err = AddSection(weeks, 1, 1, warmup)
	require.NoError(t, err)

	warmupID := weeks[0].Days[0].Sections[1].ID
	weeks, err = MoveSection(weeks, 1, 1, warmupID, 0)
	require.NoError(t, err)

	sections := weeks[0].Days[0].Sections
	require.Len(t, sections, 2)
	assert.Equal(t, "Warmup", sections[0].Name)
	assert.Equal(t, "Conditioning", sections[1].Name)
}

func TestSetSectionExercises(t *testing.T) {
	weeks, err := AddSection(DefaultWeeks(), 1, 1, sampleSection())
	require.NoError(t, err)
	id := weeks[0].Days[0].Sections[0].ID

	replacement := []domain.ProgramExercise{
		{ExerciseID: primitive.NewObjectID(), Sets: 5, Reps: "5", Weight: "80%", Rest: 180},
		{ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: "AMRAP", Rest: 120},
	}
	weeks, err = SetSectionExercises(weeks, 1, 1, id, replacement)
	require.NoError(t, err)

	assert.Equal(t, replacement, weeks[0].Days[0].Sections[0].Exercises)
}

func TestUpdateAndRemoveExercise(t *testing.T) {
	weeks, err := AddSection(DefaultWeeks(), 1, 1, sampleSection())
	require.NoError(t, err)
	id := weeks[0].Days[0].Sections[0].ID

	updated := domain.ProgramExercise{ExerciseID: primitive.NewObjectID(), Sets: 4, Reps: "8-12", RPE: 8, Rest: 90}
	weeks, err = UpdateExercise(weeks, 1, 1, id, 0, updated)
	require.NoError(t, err)
	assert.Equal(t, updated, weeks[0].Days[0].Sections[0].Exercises[0])

	_, err = UpdateExercise(weeks, 1, 1, id, 5, updated)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	weeks, err = RemoveExercise(weeks, 1, 1, id, 0)
	require.NoError(t, err)
	assert.Empty(t, weeks[0].Days[0].Sections[0].Exercises)
}

func TestValidateWeeks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]domain.ProgramWeek) []domain.ProgramWeek
		wantErr bool
	}{
		{"valid single week", func(w []domain.ProgramWeek) []domain.ProgramWeek { return w }, false},
		{"valid two weeks", AddWeek, false},
		{"week numbering gap", func(w []domain.ProgramWeek) []domain.ProgramWeek {
			w = AddWeek(w)
			w[1].WeekNumber = 3
			return w
		}, true},
		{"day numbering gap", func(w []domain.ProgramWeek) []domain.ProgramWeek {
			w[0].Days[3].DayNumber = 9
			return w
		}, true},
		{"uneven day counts", func(w []domain.ProgramWeek) []domain.ProgramWeek {
			w = AddWeek(w)
			w[1].Days = w[1].Days[:5]
			return w
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWeeks(tc.mutate(DefaultWeeks()))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
