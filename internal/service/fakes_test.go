package service

import (
	"context"
	"sort"
	"time"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"
	"coachkit/trainer-app/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// contracts: copies in and out (no shared mutable state with callers),
// repository.ErrNotFound on misses, and version CAS on ReplaceWeeks.

// --- templates ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.ProgramTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[primitive.ObjectID]*domain.ProgramTemplate{}}
}

func copyTemplate(t *domain.ProgramTemplate) *domain.ProgramTemplate {
	cp := *t
	cp.Weeks = schedule.CloneWeeks(t.Weeks)
	return &cp
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.ProgramTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	template.Version = 1
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now
	r.templates[template.ID] = copyTemplate(template)
	return template.ID, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTemplate(t), nil
}

func (r *fakeTemplateRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID, includeArchived bool) ([]domain.ProgramTemplate, error) {
	var out []domain.ProgramTemplate
	for _, t := range r.templates {
		if t.CreatedBy != trainerID {
			continue
		}
		if t.IsArchived && !includeArchived {
			continue
		}
		out = append(out, *copyTemplate(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTemplateRepo) UpdateMeta(_ context.Context, template *domain.ProgramTemplate) error {
	t, ok := r.templates[template.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.Name = template.Name
	t.Description = template.Description
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeTemplateRepo) ReplaceWeeks(_ context.Context, id primitive.ObjectID, expectedVersion int64, weeks []domain.ProgramWeek, durationWeeks, daysPerWeek int) error {
	t, ok := r.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	if t.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	t.Weeks = schedule.CloneWeeks(weeks)
	t.DurationWeeks = durationWeeks
	t.DaysPerWeek = daysPerWeek
	t.Version++
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeTemplateRepo) SetArchived(_ context.Context, id primitive.ObjectID, archived bool) error {
	t, ok := r.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.IsArchived = archived
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

// bumpVersion simulates a concurrent editor winning the race.
func (r *fakeTemplateRepo) bumpVersion(id primitive.ObjectID) {
	r.templates[id].Version++
}

// --- assignments ---

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]*domain.ProgramAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[primitive.ObjectID]*domain.ProgramAssignment{}}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	assignment.AssignedAt = time.Now().UTC()
	cp := *assignment
	r.assignments[assignment.ID] = &cp
	return assignment.ID, nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	var out []domain.ProgramAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) List(_ context.Context) ([]domain.ProgramAssignment, error) {
	var out []domain.ProgramAssignment
	for _, a := range r.assignments {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

// --- instances ---

type fakeInstanceRepo struct {
	instances map[primitive.ObjectID]*domain.ProgramInstance
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{instances: map[primitive.ObjectID]*domain.ProgramInstance{}}
}

func (r *fakeInstanceRepo) Create(_ context.Context, instance *domain.ProgramInstance) (primitive.ObjectID, error) {
	instance.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	instance.AssignedAt = now
	instance.UpdatedAt = now
	if instance.Status == "" {
		instance.Status = domain.InstanceActive
	}
	if instance.CurrentWeek == 0 {
		instance.CurrentWeek = 1
	}
	if instance.CurrentDay == 0 {
		instance.CurrentDay = 1
	}
	cp := *instance
	r.instances[instance.ID] = &cp
	return instance.ID, nil
}

func (r *fakeInstanceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramInstance, error) {
	i, ok := r.instances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeInstanceRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.ProgramInstance, error) {
	var out []domain.ProgramInstance
	for _, i := range r.instances {
		if i.ClientID == clientID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].AssignedAt.After(out[b].AssignedAt) })
	return out, nil
}

func (r *fakeInstanceRepo) GetActiveByClientID(_ context.Context, clientID primitive.ObjectID) (*domain.ProgramInstance, error) {
	for _, i := range r.instances {
		if i.ClientID == clientID && i.Status == domain.InstanceActive {
			cp := *i
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInstanceRepo) Update(_ context.Context, instance *domain.ProgramInstance) error {
	stored, ok := r.instances[instance.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *instance
	cp.AssignedAt = stored.AssignedAt
	cp.UpdatedAt = time.Now().UTC()
	r.instances[instance.ID] = &cp
	return nil
}

func (r *fakeInstanceRepo) PauseActiveForClient(_ context.Context, clientID, excludeID primitive.ObjectID) error {
	for _, i := range r.instances {
		if i.ClientID == clientID && i.ID != excludeID && i.Status == domain.InstanceActive {
			i.Status = domain.InstancePaused
		}
	}
	return nil
}

func (r *fakeInstanceRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.instances[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.instances, id)
	return nil
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.RepositoryError("email already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	t, ok := r.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	t.ClientIDs = append(t.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	t, ok := r.users[trainerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]domain.User, 0, len(t.ClientIDs))
	for _, id := range t.ClientIDs {
		if c, ok := r.users[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetTrainerForClient(_ context.Context, clientID, trainerID primitive.ObjectID) error {
	c, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TrainerID = &trainerID
	return nil
}
