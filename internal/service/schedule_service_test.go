package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"coachkit/trainer-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scheduleFixture struct {
	svc            ScheduleService
	templateRepo   *fakeTemplateRepo
	instanceRepo   *fakeInstanceRepo
	assignmentRepo *fakeAssignmentRepo
	userRepo       *fakeUserRepo
	trainerID      primitive.ObjectID
	clientID       primitive.ObjectID
	template       *domain.ProgramTemplate
}

// newScheduleFixture seeds one trainer, one client, and a two-week
// template with three days per week.
func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	templateRepo := newFakeTemplateRepo()
	instanceRepo := newFakeInstanceRepo()
	assignmentRepo := newFakeAssignmentRepo()
	userRepo := newFakeUserRepo()

	trainer := &domain.User{Name: "Coach", Email: "coach@example.com", Role: domain.RoleTrainer}
	trainerID, err := userRepo.Create(context.Background(), trainer)
	require.NoError(t, err)

	client := &domain.User{Name: "Alex", Email: "alex@example.com", Role: domain.RoleClient}
	clientID, err := userRepo.Create(context.Background(), client)
	require.NoError(t, err)

	weeks := make([]domain.ProgramWeek, 2)
	for w := range weeks {
		days := make([]domain.ProgramDay, 3)
		for d := range days {
			days[d] = domain.ProgramDay{
				DayNumber: d + 1,
				Name:      fmt.Sprintf("W%d D%d", w+1, d+1),
				Sections: []domain.ProgramSection{{
					ID:            fmt.Sprintf("sec-%d-%d", w+1, d+1),
					SectionType:   domain.SectionMain,
					SectionFormat: domain.FormatStraightSets,
					Name:          "Main",
					Exercises: []domain.ProgramExercise{{
						ExerciseID: primitive.NewObjectID(),
						Sets:       3,
						Reps:       "8-12",
						Rest:       90,
					}},
				}},
			}
		}
		weeks[w] = domain.ProgramWeek{WeekNumber: w + 1, Days: days}
	}
	template := &domain.ProgramTemplate{
		Name:          "Two Week Block",
		DurationWeeks: 2,
		DaysPerWeek:   3,
		Weeks:         weeks,
		CreatedBy:     trainerID,
	}
	_, err = templateRepo.Create(context.Background(), template)
	require.NoError(t, err)

	return &scheduleFixture{
		svc:            NewScheduleService(assignmentRepo, instanceRepo, templateRepo, userRepo),
		templateRepo:   templateRepo,
		instanceRepo:   instanceRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		trainerID:      trainerID,
		clientID:       clientID,
		template:       template,
	}
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// --- Assignments ---

func TestAssignProgramWithSchedule_Defaults(t *testing.T) {
	f := newScheduleFixture(t)

	assignment, err := f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:  f.clientID,
		ProgramID: f.template.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, assignment.StartingDay)
	assert.False(t, assignment.AssignmentStartDate.IsZero())
	assert.False(t, assignment.ID.IsZero())
}

func TestAssignProgramWithSchedule_OutOfRangeStartingDayAccepted(t *testing.T) {
	f := newScheduleFixture(t)

	assignment, err := f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:    f.clientID,
		ProgramID:   f.template.ID,
		StartingDay: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, assignment.StartingDay)

	// It simply never resolves to a day.
	day, err := f.svc.ResolveAssignmentForDate(context.Background(), assignment.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestResolveAssignmentForDate(t *testing.T) {
	f := newScheduleFixture(t)
	start := utcDate(2026, time.March, 2)

	assignment, err := f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:            f.clientID,
		ProgramID:           f.template.ID,
		AssignmentStartDate: start,
		StartingDay:         1,
	})
	require.NoError(t, err)

	day, err := f.svc.ResolveAssignmentForDate(context.Background(), assignment.ID, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, 2, day.DayNumber)
	assert.Equal(t, 1, day.WeekNumber)

	// The day before the start resolves to nothing.
	day, err = f.svc.ResolveAssignmentForDate(context.Background(), assignment.ID, start.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestResolveAssignmentForDate_DeletedTemplateResolvesNil(t *testing.T) {
	f := newScheduleFixture(t)

	assignment, err := f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:            f.clientID,
		ProgramID:           f.template.ID,
		AssignmentStartDate: utcDate(2026, time.March, 2),
	})
	require.NoError(t, err)

	require.NoError(t, f.templateRepo.Delete(context.Background(), f.template.ID))

	day, err := f.svc.ResolveAssignmentForDate(context.Background(), assignment.ID, utcDate(2026, time.March, 2))
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestGetScheduleForDate_OnlyResolvableAssignments(t *testing.T) {
	f := newScheduleFixture(t)
	start := utcDate(2026, time.March, 2)

	_, err := f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:            f.clientID,
		ProgramID:           f.template.ID,
		AssignmentStartDate: start,
		StartingDay:         1,
	})
	require.NoError(t, err)

	// Second client starts a week later: unresolved on the target date.
	otherID, err := f.userRepo.Create(context.Background(), &domain.User{
		Name: "Sam", Email: "sam@example.com", Role: domain.RoleClient,
	})
	require.NoError(t, err)
	_, err = f.svc.AssignProgramWithSchedule(context.Background(), AssignmentSpec{
		ClientID:            otherID,
		ProgramID:           f.template.ID,
		AssignmentStartDate: start.AddDate(0, 0, 7),
		StartingDay:         1,
	})
	require.NoError(t, err)

	resolved, err := f.svc.GetScheduleForDate(context.Background(), start)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, f.clientID, resolved[0].Assignment.ClientID)
	require.NotNil(t, resolved[0].Client)
	assert.Equal(t, "Alex", resolved[0].Client.Name)
	require.NotNil(t, resolved[0].Day)
	assert.Equal(t, 1, resolved[0].Day.DayNumber)
}

// --- Instances ---

func (f *scheduleFixture) createInstance(t *testing.T, start time.Time) *domain.ProgramInstance {
	t.Helper()
	instance, err := f.svc.CreateInstance(context.Background(), InstanceSpec{
		TemplateID: f.template.ID,
		ClientID:   f.clientID,
		TrainerID:  f.trainerID,
		StartDate:  start,
	})
	require.NoError(t, err)
	return instance
}

func TestCreateInstance_PausesPreviousActive(t *testing.T) {
	f := newScheduleFixture(t)

	first := f.createInstance(t, utcDate(2026, time.March, 2))
	assert.Equal(t, domain.InstanceActive, first.Status)

	second := f.createInstance(t, utcDate(2026, time.April, 6))
	assert.Equal(t, domain.InstanceActive, second.Status)

	reloaded, err := f.svc.GetInstanceByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstancePaused, reloaded.Status)

	active, err := f.svc.GetActiveInstance(context.Background(), f.clientID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestCreateInstance_UnknownTemplate(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.CreateInstance(context.Background(), InstanceSpec{
		TemplateID: primitive.NewObjectID(),
		ClientID:   f.clientID,
		TrainerID:  f.trainerID,
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSetInstanceStatus_ReactivatingPausesTheOther(t *testing.T) {
	f := newScheduleFixture(t)

	first := f.createInstance(t, utcDate(2026, time.March, 2))
	second := f.createInstance(t, utcDate(2026, time.April, 6))

	_, err := f.svc.SetInstanceStatus(context.Background(), f.trainerID, first.ID, domain.InstanceActive)
	require.NoError(t, err)

	reloaded, err := f.svc.GetInstanceByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstancePaused, reloaded.Status)

	// Only the owning trainer can move the lifecycle.
	_, err = f.svc.SetInstanceStatus(context.Background(), primitive.NewObjectID(), first.ID, domain.InstancePaused)
	assert.ErrorIs(t, err, ErrInstanceAccess)
}

func TestResolveInstanceForDate_CrossesWeekBoundary(t *testing.T) {
	f := newScheduleFixture(t)
	start := utcDate(2026, time.March, 2)
	instance := f.createInstance(t, start)

	// Day 4 of a 3-days-per-week template lands on week 2 day 1.
	day, err := f.svc.ResolveInstanceForDate(context.Background(), instance.ID, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, 2, day.WeekNumber)
	assert.Equal(t, "W2 D1", day.DayData.Name)

	// Past the last template day resolves to nothing.
	day, err = f.svc.ResolveInstanceForDate(context.Background(), instance.ID, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestOverrideInstanceDay(t *testing.T) {
	f := newScheduleFixture(t)
	start := utcDate(2026, time.March, 2)
	instance := f.createInstance(t, start)

	custom := []domain.ProgramExercise{{
		ExerciseID: primitive.NewObjectID(),
		Sets:       5,
		Reps:       "5",
		Rest:       180,
	}}
	_, err := f.svc.OverrideInstanceDay(context.Background(), f.trainerID, instance.ID, domain.DayOverride{
		WeekNumber: 1,
		DayNumber:  2,
		Exercises:  custom,
	})
	require.NoError(t, err)

	day, err := f.svc.ResolveInstanceForDate(context.Background(), instance.ID, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Len(t, day.DayData.Sections, 1)
	assert.Equal(t, custom, day.DayData.Sections[0].Exercises)

	// Overriding the same day again replaces, never stacks.
	replacement := []domain.ProgramExercise{{ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: "10", Rest: 60}}
	updated, err := f.svc.OverrideInstanceDay(context.Background(), f.trainerID, instance.ID, domain.DayOverride{
		WeekNumber: 1,
		DayNumber:  2,
		Exercises:  replacement,
	})
	require.NoError(t, err)
	require.Len(t, updated.ModifiedExercises, 1)
	assert.Equal(t, replacement, updated.ModifiedExercises[0].Exercises)
}

func TestOverrideInstanceDay_RejectsDayOutsideTemplate(t *testing.T) {
	f := newScheduleFixture(t)
	instance := f.createInstance(t, utcDate(2026, time.March, 2))

	_, err := f.svc.OverrideInstanceDay(context.Background(), f.trainerID, instance.ID, domain.DayOverride{
		WeekNumber: 5,
		DayNumber:  1,
	})
	assert.ErrorIs(t, err, ErrDayOutOfTemplate)
}

func TestMarkDayCompleted_AdvancesCursor(t *testing.T) {
	f := newScheduleFixture(t)
	instance := f.createInstance(t, utcDate(2026, time.March, 2))

	updated, err := f.svc.MarkDayCompleted(context.Background(), instance.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentWeek)
	assert.Equal(t, 2, updated.CurrentDay)
	assert.True(t, updated.HasCompletedDay(1, 1))
	assert.Empty(t, updated.CompletedWeeks)

	// Completing the last day of the week rolls to the next week and logs
	// the week as complete.
	_, err = f.svc.MarkDayCompleted(context.Background(), instance.ID, 1, 2)
	require.NoError(t, err)
	updated, err = f.svc.MarkDayCompleted(context.Background(), instance.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentWeek)
	assert.Equal(t, 1, updated.CurrentDay)
	assert.Equal(t, []int{1}, updated.CompletedWeeks)
}

func TestMarkDayCompleted_Idempotent(t *testing.T) {
	f := newScheduleFixture(t)
	instance := f.createInstance(t, utcDate(2026, time.March, 2))

	_, err := f.svc.MarkDayCompleted(context.Background(), instance.ID, 1, 1)
	require.NoError(t, err)
	updated, err := f.svc.MarkDayCompleted(context.Background(), instance.ID, 1, 1)
	require.NoError(t, err)

	count := 0
	for _, d := range updated.CompletedDays {
		if d.Week == 1 && d.Day == 1 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMarkDayCompleted_FinalDayCompletesInstance(t *testing.T) {
	f := newScheduleFixture(t)
	instance := f.createInstance(t, utcDate(2026, time.March, 2))

	for week := 1; week <= 2; week++ {
		for day := 1; day <= 3; day++ {
			_, err := f.svc.MarkDayCompleted(context.Background(), instance.ID, week, day)
			require.NoError(t, err)
		}
	}

	final, err := f.svc.GetInstanceByID(context.Background(), instance.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstanceCompleted, final.Status)
	assert.ElementsMatch(t, []int{1, 2}, final.CompletedWeeks)
}

func TestMarkDayCompleted_RejectsDayOutsideTemplate(t *testing.T) {
	f := newScheduleFixture(t)
	instance := f.createInstance(t, utcDate(2026, time.March, 2))

	_, err := f.svc.MarkDayCompleted(context.Background(), instance.ID, 3, 1)
	assert.ErrorIs(t, err, ErrDayOutOfTemplate)
}

func TestResolveClientDate_UsesActiveInstance(t *testing.T) {
	f := newScheduleFixture(t)
	start := utcDate(2026, time.March, 2)
	f.createInstance(t, start)

	day, err := f.svc.ResolveClientDate(context.Background(), f.clientID, start)
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, "W1 D1", day.DayData.Name)
}

func TestResolveClientDate_NoActiveInstance(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.ResolveClientDate(context.Background(), f.clientID, time.Now())
	assert.ErrorIs(t, err, ErrNoActiveInstance)
}
