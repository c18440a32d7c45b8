package service

import (
	"context"
	"errors"
	"fmt"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"
	"coachkit/trainer-app/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTemplateNotFound     = errors.New("program template not found")
	ErrTemplateAccessDenied = errors.New("access denied to modify this program template")
	ErrTemplateNameRequired = errors.New("program template name is required")
	ErrInvalidWeeks         = errors.New("weeks structure is invalid")
	ErrEditConflict         = errors.New("template was edited concurrently, reload and retry")
)

// WeeksEdit is a pure transformation from the current weeks value to the
// next one. Every structural edit (rest-day toggle, preset, section and
// exercise changes) is expressed this way and funneled through a single
// replace primitive, keeping the whole-array replacement contract in one
// place.
type WeeksEdit func(old []domain.ProgramWeek) ([]domain.ProgramWeek, error)

type ProgramService interface {
	CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.ProgramTemplate, error)
	GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.ProgramTemplate, error)
	GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID, includeArchived bool) ([]domain.ProgramTemplate, error)
	UpdateTemplateMeta(ctx context.Context, trainerID, templateID primitive.ObjectID, name, description string) (*domain.ProgramTemplate, error)
	ArchiveTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, archived bool) error
	DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error
	CloneTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, targetClientID *primitive.ObjectID) (*domain.ProgramTemplate, error)

	// EditWeeks runs a pure weeks transformation and persists the result
	// through the version-guarded replace primitive.
	EditWeeks(ctx context.Context, trainerID, templateID primitive.ObjectID, edit WeeksEdit) (*domain.ProgramTemplate, error)
	ReplaceWeeks(ctx context.Context, trainerID, templateID primitive.ObjectID, weeks []domain.ProgramWeek) (*domain.ProgramTemplate, error)
}

// programService implements the ProgramService interface.
type programService struct {
	templateRepo repository.TemplateRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(templateRepo repository.TemplateRepository) ProgramService {
	return &programService{templateRepo: templateRepo}
}

// CreateTemplate stores a fresh template seeded with one week of seven
// training days.
func (s *programService) CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.ProgramTemplate, error) {
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create a template")
	}

	weeks := schedule.DefaultWeeks()
	template := &domain.ProgramTemplate{
		Name:          name,
		Description:   description,
		DurationWeeks: len(weeks),
		DaysPerWeek:   len(weeks[0].Days),
		Weeks:         weeks,
		CreatedBy:     trainerID,
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

// GetTemplateByID retrieves a single template.
func (s *programService) GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.ProgramTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// GetTemplatesByTrainer lists a trainer's templates.
func (s *programService) GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID, includeArchived bool) ([]domain.ProgramTemplate, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.templateRepo.GetByTrainerID(ctx, trainerID, includeArchived)
}

// UpdateTemplateMeta updates name and description, enforcing ownership.
func (s *programService) UpdateTemplateMeta(ctx context.Context, trainerID, templateID primitive.ObjectID, name, description string) (*domain.ProgramTemplate, error) {
	if name == "" {
		return nil, ErrTemplateNameRequired
	}

	template, err := s.ownedTemplate(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}

	template.Name = name
	template.Description = description
	if err := s.templateRepo.UpdateMeta(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// ArchiveTemplate soft-deletes (or restores) a template. Archived
// templates stay resolvable for existing assignments.
func (s *programService) ArchiveTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, archived bool) error {
	if _, err := s.ownedTemplate(ctx, trainerID, templateID); err != nil {
		return err
	}
	if err := s.templateRepo.SetArchived(ctx, templateID, archived); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// DeleteTemplate hard-deletes a template. Assignments pointing at it
// resolve to "program no longer available" from then on.
func (s *programService) DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	if _, err := s.ownedTemplate(ctx, trainerID, templateID); err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// CloneTemplate deep-copies a template into an independent record. With a
// target client it becomes a personalized copy; either way edits to the
// original stop propagating to the clone.
func (s *programService) CloneTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, targetClientID *primitive.ObjectID) (*domain.ProgramTemplate, error) {
	source, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	originalID := source.ID
	if source.OriginalTemplateID != nil {
		// Cloning a clone still traces back to the root template.
		originalID = *source.OriginalTemplateID
	}

	clone := &domain.ProgramTemplate{
		Name:               fmt.Sprintf("%s (Copy)", source.Name),
		Description:        source.Description,
		DurationWeeks:      source.DurationWeeks,
		DaysPerWeek:        source.DaysPerWeek,
		Weeks:              schedule.CloneWeeks(source.Weeks),
		CreatedBy:          trainerID,
		ClientID:           targetClientID,
		OriginalTemplateID: &originalID,
	}

	cloneID, err := s.templateRepo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, cloneID)
}

// EditWeeks applies a pure transformation to the template's current weeks
// and persists the result. The version read before the edit guards the
// write: a concurrent editor surfaces as ErrEditConflict, never as a
// silently dropped change.
func (s *programService) EditWeeks(ctx context.Context, trainerID, templateID primitive.ObjectID, edit WeeksEdit) (*domain.ProgramTemplate, error) {
	template, err := s.ownedTemplate(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}

	newWeeks, err := edit(template.Weeks)
	if err != nil {
		return nil, err
	}
	return s.persistWeeks(ctx, template, newWeeks)
}

// ReplaceWeeks persists a caller-built weeks array wholesale. This is the
// read-modify-replace contract: the submitted array becomes the template's
// weeks exactly, no element-wise merging.
func (s *programService) ReplaceWeeks(ctx context.Context, trainerID, templateID primitive.ObjectID, weeks []domain.ProgramWeek) (*domain.ProgramTemplate, error) {
	template, err := s.ownedTemplate(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}
	return s.persistWeeks(ctx, template, schedule.CloneWeeks(weeks))
}

func (s *programService) persistWeeks(ctx context.Context, template *domain.ProgramTemplate, weeks []domain.ProgramWeek) (*domain.ProgramTemplate, error) {
	if err := schedule.ValidateWeeks(weeks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeeks, err)
	}

	durationWeeks := len(weeks)
	daysPerWeek := 0
	if durationWeeks > 0 {
		daysPerWeek = len(weeks[0].Days)
	}

	err := s.templateRepo.ReplaceWeeks(ctx, template.ID, template.Version, weeks, durationWeeks, daysPerWeek)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, ErrEditConflict
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, template.ID)
}

func (s *programService) ownedTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.ProgramTemplate, error) {
	if trainerID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and template ID are required")
	}

	template, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.CreatedBy != trainerID {
		return nil, ErrTemplateAccessDenied
	}
	return template, nil
}
