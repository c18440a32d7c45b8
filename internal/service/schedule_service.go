package service

import (
	"context"
	"errors"
	"time"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"
	"coachkit/trainer-app/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAssignmentNotFound = errors.New("program assignment not found")
	ErrInstanceNotFound   = errors.New("program instance not found")
	ErrInstanceAccess     = errors.New("access denied to modify this program instance")
	ErrNoActiveInstance   = errors.New("client has no active program instance")
	ErrDayOutOfTemplate   = errors.New("week/day does not exist in the assigned template")
)

// AssignmentSpec is the input for the legacy scheduling path.
type AssignmentSpec struct {
	ClientID            primitive.ObjectID
	ProgramID           primitive.ObjectID
	AssignmentStartDate time.Time
	StartingDay         int
	NotifyClient        bool
}

// InstanceSpec is the input for assigning a template as a tracked instance.
type InstanceSpec struct {
	TemplateID primitive.ObjectID
	ClientID   primitive.ObjectID
	TrainerID  primitive.ObjectID
	StartDate  time.Time
	Notes      string
}

type ScheduleService interface {
	// Legacy assignment path.
	AssignProgramWithSchedule(ctx context.Context, spec AssignmentSpec) (*domain.ProgramAssignment, error)
	UnassignProgram(ctx context.Context, assignmentID primitive.ObjectID) error
	GetAssignmentsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	ResolveAssignmentForDate(ctx context.Context, assignmentID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error)
	// GetScheduleForDate answers "who trains on this date and with what"
	// across every stored assignment.
	GetScheduleForDate(ctx context.Context, targetDate time.Time) ([]schedule.ResolvedAssignment, error)

	// Instance path.
	CreateInstance(ctx context.Context, spec InstanceSpec) (*domain.ProgramInstance, error)
	GetInstanceByID(ctx context.Context, instanceID primitive.ObjectID) (*domain.ProgramInstance, error)
	GetInstancesByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramInstance, error)
	GetActiveInstance(ctx context.Context, clientID primitive.ObjectID) (*domain.ProgramInstance, error)
	SetInstanceStatus(ctx context.Context, trainerID, instanceID primitive.ObjectID, status domain.InstanceStatus) (*domain.ProgramInstance, error)
	DeleteInstance(ctx context.Context, trainerID, instanceID primitive.ObjectID) error
	OverrideInstanceDay(ctx context.Context, trainerID, instanceID primitive.ObjectID, override domain.DayOverride) (*domain.ProgramInstance, error)
	MarkDayCompleted(ctx context.Context, instanceID primitive.ObjectID, week, day int) (*domain.ProgramInstance, error)
	ResolveInstanceForDate(ctx context.Context, instanceID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error)
	// ResolveClientDate resolves the client's active instance for a date:
	// the "what should I do today" query.
	ResolveClientDate(ctx context.Context, clientID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error)
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	assignmentRepo repository.AssignmentRepository
	instanceRepo   repository.InstanceRepository
	templateRepo   repository.TemplateRepository
	userRepo       repository.UserRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	assignmentRepo repository.AssignmentRepository,
	instanceRepo repository.InstanceRepository,
	templateRepo repository.TemplateRepository,
	userRepo repository.UserRepository,
) ScheduleService {
	return &scheduleService{
		assignmentRepo: assignmentRepo,
		instanceRepo:   instanceRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
	}
}

// === Legacy assignment path ===

// AssignProgramWithSchedule binds a client to a template starting at a
// real date. StartingDay is deliberately not range-checked against the
// template: an out-of-range value is legal here and resolves to no day at
// lookup time.
func (s *scheduleService) AssignProgramWithSchedule(ctx context.Context, spec AssignmentSpec) (*domain.ProgramAssignment, error) {
	if spec.ClientID == primitive.NilObjectID || spec.ProgramID == primitive.NilObjectID {
		return nil, errors.New("client ID and program ID are required")
	}
	if spec.StartingDay < 1 {
		spec.StartingDay = 1
	}
	if spec.AssignmentStartDate.IsZero() {
		spec.AssignmentStartDate = time.Now()
	}

	assignment := &domain.ProgramAssignment{
		ClientID:            spec.ClientID,
		ProgramID:           spec.ProgramID,
		AssignmentStartDate: spec.AssignmentStartDate,
		StartingDay:         spec.StartingDay,
		NotifyClient:        spec.NotifyClient,
	}

	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// UnassignProgram removes the assignment without touching the template.
func (s *scheduleService) UnassignProgram(ctx context.Context, assignmentID primitive.ObjectID) error {
	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}

// GetAssignmentsByClient lists every assignment a client holds.
func (s *scheduleService) GetAssignmentsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID cannot be nil")
	}
	return s.assignmentRepo.GetByClientID(ctx, clientID)
}

// ResolveAssignmentForDate maps one assignment onto a template day for a
// date. A nil day (not started, completed, rest gap) is not an error.
func (s *scheduleService) ResolveAssignmentForDate(ctx context.Context, assignmentID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, assignment.ProgramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	// A deleted template resolves to nil, same as the lookup contract.
	return schedule.ResolveAssignmentDay(assignment, targetDate, template), nil
}

// GetScheduleForDate resolves every assignment for one date.
func (s *scheduleService) GetScheduleForDate(ctx context.Context, targetDate time.Time) ([]schedule.ResolvedAssignment, error) {
	assignments, err := s.assignmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	// The batch resolver takes lookup funcs so it stays pure; memoize the
	// repo reads since many assignments share clients and templates.
	clientCache := map[primitive.ObjectID]*domain.User{}
	templateCache := map[primitive.ObjectID]*domain.ProgramTemplate{}

	clientByID := func(id primitive.ObjectID) *domain.User {
		if cached, ok := clientCache[id]; ok {
			return cached
		}
		client, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			client = nil
		}
		clientCache[id] = client
		return client
	}
	templateByID := func(id primitive.ObjectID) *domain.ProgramTemplate {
		if cached, ok := templateCache[id]; ok {
			return cached
		}
		template, err := s.templateRepo.GetByID(ctx, id)
		if err != nil {
			template = nil
		}
		templateCache[id] = template
		return template
	}

	return schedule.ResolveAllForDate(targetDate, assignments, clientByID, templateByID), nil
}

// === Instance path ===

// CreateInstance assigns a template to a client with progress tracking.
// Any previously active instance for the client is paused, keeping one
// active instance per client.
func (s *scheduleService) CreateInstance(ctx context.Context, spec InstanceSpec) (*domain.ProgramInstance, error) {
	if spec.TemplateID == primitive.NilObjectID || spec.ClientID == primitive.NilObjectID || spec.TrainerID == primitive.NilObjectID {
		return nil, errors.New("template ID, client ID, and trainer ID are required")
	}
	if _, err := s.templateRepo.GetByID(ctx, spec.TemplateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if spec.StartDate.IsZero() {
		spec.StartDate = time.Now()
	}

	instance := &domain.ProgramInstance{
		TemplateID: spec.TemplateID,
		ClientID:   spec.ClientID,
		TrainerID:  spec.TrainerID,
		StartDate:  spec.StartDate,
		Status:     domain.InstanceActive,
		Notes:      spec.Notes,
	}

	instanceID, err := s.instanceRepo.Create(ctx, instance)
	if err != nil {
		return nil, err
	}
	instance.ID = instanceID

	if err := s.instanceRepo.PauseActiveForClient(ctx, spec.ClientID, instanceID); err != nil {
		return nil, err
	}
	return s.instanceRepo.GetByID(ctx, instanceID)
}

// GetInstanceByID retrieves a single instance.
func (s *scheduleService) GetInstanceByID(ctx context.Context, instanceID primitive.ObjectID) (*domain.ProgramInstance, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

// GetInstancesByClient lists a client's instances, newest first.
func (s *scheduleService) GetInstancesByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramInstance, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID cannot be nil")
	}
	return s.instanceRepo.GetByClientID(ctx, clientID)
}

// GetActiveInstance retrieves the client's active instance.
func (s *scheduleService) GetActiveInstance(ctx context.Context, clientID primitive.ObjectID) (*domain.ProgramInstance, error) {
	instance, err := s.instanceRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveInstance
		}
		return nil, err
	}
	return instance, nil
}

// SetInstanceStatus moves an instance through its lifecycle. Activating an
// instance pauses any other active instance of the same client.
func (s *scheduleService) SetInstanceStatus(ctx context.Context, trainerID, instanceID primitive.ObjectID, status domain.InstanceStatus) (*domain.ProgramInstance, error) {
	switch status {
	case domain.InstanceActive, domain.InstancePaused, domain.InstanceCompleted, domain.InstanceCancelled:
	default:
		return nil, errors.New("invalid instance status")
	}

	instance, err := s.ownedInstance(ctx, trainerID, instanceID)
	if err != nil {
		return nil, err
	}

	instance.Status = status
	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		return nil, err
	}
	if status == domain.InstanceActive {
		if err := s.instanceRepo.PauseActiveForClient(ctx, instance.ClientID, instance.ID); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// DeleteInstance removes an instance entirely.
func (s *scheduleService) DeleteInstance(ctx context.Context, trainerID, instanceID primitive.ObjectID) error {
	if _, err := s.ownedInstance(ctx, trainerID, instanceID); err != nil {
		return err
	}
	if err := s.instanceRepo.Delete(ctx, instanceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInstanceNotFound
		}
		return err
	}
	return nil
}

// OverrideInstanceDay replaces one day's exercise list for this client
// only, leaving the shared template untouched. Overriding the same day
// twice replaces the previous override.
func (s *scheduleService) OverrideInstanceDay(ctx context.Context, trainerID, instanceID primitive.ObjectID, override domain.DayOverride) (*domain.ProgramInstance, error) {
	instance, err := s.ownedInstance(ctx, trainerID, instanceID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !dayExists(template, override.WeekNumber, override.DayNumber) {
		return nil, ErrDayOutOfTemplate
	}

	replaced := false
	for i := range instance.ModifiedExercises {
		existing := &instance.ModifiedExercises[i]
		if existing.WeekNumber == override.WeekNumber && existing.DayNumber == override.DayNumber {
			existing.Exercises = override.Exercises
			replaced = true
			break
		}
	}
	if !replaced {
		instance.ModifiedExercises = append(instance.ModifiedExercises, override)
	}

	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// MarkDayCompleted logs one template day as done and advances the
// instance cursor. Completing the final day completes the instance.
func (s *scheduleService) MarkDayCompleted(ctx context.Context, instanceID primitive.ObjectID, week, day int) (*domain.ProgramInstance, error) {
	instance, err := s.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !dayExists(template, week, day) {
		return nil, ErrDayOutOfTemplate
	}

	if !instance.HasCompletedDay(week, day) {
		instance.CompletedDays = append(instance.CompletedDays, domain.DayRef{Week: week, Day: day})
	}

	if weekFullyCompleted(instance, template, week) && !containsWeek(instance.CompletedWeeks, week) {
		instance.CompletedWeeks = append(instance.CompletedWeeks, week)
	}

	// Advance the cursor to the day after the completed one.
	nextWeek, nextDay := week, day+1
	if nextDay > template.DaysPerWeek {
		nextWeek, nextDay = week+1, 1
	}
	if nextWeek > template.MaxWeekNumber() {
		instance.Status = domain.InstanceCompleted
		nextWeek, nextDay = week, day
	}
	instance.CurrentWeek = nextWeek
	instance.CurrentDay = nextDay

	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// ResolveInstanceForDate maps an instance onto its template day for a date.
func (s *scheduleService) ResolveInstanceForDate(ctx context.Context, instanceID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error) {
	instance, err := s.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, instance.TemplateID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return schedule.ResolveInstanceDay(instance, targetDate, template), nil
}

// ResolveClientDate answers "what should this client do on this date"
// through their active instance.
func (s *scheduleService) ResolveClientDate(ctx context.Context, clientID primitive.ObjectID, targetDate time.Time) (*schedule.ClientProgramDay, error) {
	instance, err := s.GetActiveInstance(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.ResolveInstanceForDate(ctx, instance.ID, targetDate)
}

func (s *scheduleService) ownedInstance(ctx context.Context, trainerID, instanceID primitive.ObjectID) (*domain.ProgramInstance, error) {
	instance, err := s.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if instance.TrainerID != trainerID {
		return nil, ErrInstanceAccess
	}
	return instance, nil
}

func dayExists(template *domain.ProgramTemplate, week, day int) bool {
	for _, w := range template.Weeks {
		if w.WeekNumber != week {
			continue
		}
		for _, d := range w.Days {
			if d.DayNumber == day {
				return true
			}
		}
	}
	return false
}

func weekFullyCompleted(instance *domain.ProgramInstance, template *domain.ProgramTemplate, week int) bool {
	for _, w := range template.Weeks {
		if w.WeekNumber != week {
			continue
		}
		for _, d := range w.Days {
			if d.IsRestDay {
				continue
			}
			if !instance.HasCompletedDay(week, d.DayNumber) {
				return false
			}
		}
		return true
	}
	return false
}

func containsWeek(weeks []int, week int) bool {
	for _, w := range weeks {
		if w == week {
			return true
		}
	}
	return false
}
