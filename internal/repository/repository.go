package repository

import (
	"context"

	"coachkit/trainer-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound        = RepositoryError("not found")
	ErrVersionConflict = RepositoryError("version conflict: template was edited concurrently")
	ErrUpdateFailed    = RepositoryError("update failed")
	ErrDeleteFailed    = RepositoryError("delete failed")
)

// RepositoryError distinguishes repository errors from everything else.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository handles trainer and client accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// ExerciseRepository handles the exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	GetByCreator(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Delete refuses system defaults; the filter excludes isDefault documents.
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountDefaults(ctx context.Context) (int64, error)
}

// TemplateRepository handles program templates. ReplaceWeeks is the single
// structural-edit primitive: the whole weeks array is swapped under a
// version compare-and-swap, so concurrent editors get ErrVersionConflict
// instead of silently losing their edit.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.ProgramTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, includeArchived bool) ([]domain.ProgramTemplate, error)
	UpdateMeta(ctx context.Context, template *domain.ProgramTemplate) error
	ReplaceWeeks(ctx context.Context, id primitive.ObjectID, expectedVersion int64, weeks []domain.ProgramWeek, durationWeeks, daysPerWeek int) error
	SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AssignmentRepository handles the legacy scheduling path.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
	List(ctx context.Context) ([]domain.ProgramAssignment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// InstanceRepository handles assigned program instances.
type InstanceRepository interface {
	Create(ctx context.Context, instance *domain.ProgramInstance) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramInstance, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramInstance, error)
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.ProgramInstance, error)
	Update(ctx context.Context, instance *domain.ProgramInstance) error
	// PauseActiveForClient pauses every active instance of the client except
	// the excluded one. Keeps the single-active-instance invariant at write time.
	PauseActiveForClient(ctx context.Context, clientID, excludeID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
