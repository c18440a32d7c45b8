package service

import (
	"context"
	"testing"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProgramServiceForTest() (ProgramService, *fakeTemplateRepo) {
	repo := newFakeTemplateRepo()
	return NewProgramService(repo), repo
}

func TestCreateTemplate_SeedsOneWeekOfSevenDays(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Strength Block", "8 week base")
	require.NoError(t, err)

	assert.Equal(t, "Strength Block", template.Name)
	assert.Equal(t, 1, template.DurationWeeks)
	assert.Equal(t, 7, template.DaysPerWeek)
	require.Len(t, template.Weeks, 1)
	assert.Len(t, template.Weeks[0].Days, 7)
	assert.Equal(t, int64(1), template.Version)
	assert.False(t, template.IsArchived)
}

func TestCreateTemplate_RequiresName(t *testing.T) {
	svc, _ := newProgramServiceForTest()

	_, err := svc.CreateTemplate(context.Background(), primitive.NewObjectID(), "", "")
	assert.ErrorIs(t, err, ErrTemplateNameRequired)
}

func TestUpdateTemplateMeta_OwnershipEnforced(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), owner, "Mine", "")
	require.NoError(t, err)

	_, err = svc.UpdateTemplateMeta(context.Background(), other, template.ID, "Stolen", "")
	assert.ErrorIs(t, err, ErrTemplateAccessDenied)

	updated, err := svc.UpdateTemplateMeta(context.Background(), owner, template.ID, "Renamed", "new desc")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new desc", updated.Description)
}

func TestEditWeeks_PersistsTransformAndBumpsVersion(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Block", "")
	require.NoError(t, err)

	updated, err := svc.EditWeeks(context.Background(), trainerID, template.ID, func(old []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.AddWeek(old), nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.DurationWeeks)
	assert.Len(t, updated.Weeks, 2)
	assert.Equal(t, template.Version+1, updated.Version)
}

func TestEditWeeks_ConcurrentEditSurfacesAsConflict(t *testing.T) {
	svc, repo := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Block", "")
	require.NoError(t, err)

	_, err = svc.EditWeeks(context.Background(), trainerID, template.ID, func(old []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		// Another editor commits while this edit is in flight.
		repo.bumpVersion(template.ID)
		return schedule.AddWeek(old), nil
	})
	assert.ErrorIs(t, err, ErrEditConflict)
}

func TestEditWeeks_RejectsInvalidResult(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Block", "")
	require.NoError(t, err)

	_, err = svc.EditWeeks(context.Background(), trainerID, template.ID, func(old []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		bad := schedule.CloneWeeks(old)
		bad[0].WeekNumber = 5
		return bad, nil
	})
	assert.ErrorIs(t, err, ErrInvalidWeeks)
}

func TestReplaceWeeks_SubmittedArrayBecomesTheTemplate(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Block", "")
	require.NoError(t, err)

	weeks := schedule.DefaultWeeks()
	weeks, err = schedule.ApplyFrequencyPreset(weeks, 1, 4)
	require.NoError(t, err)

	updated, err := svc.ReplaceWeeks(context.Background(), trainerID, template.ID, weeks)
	require.NoError(t, err)

	rest := 0
	for _, d := range updated.Weeks[0].Days {
		if d.IsRestDay {
			rest++
		}
	}
	assert.Equal(t, 3, rest)

	// Mutating the submitted slice afterwards must not leak into storage.
	weeks[0].Days[0].Name = "mutated"
	reloaded, err := svc.GetTemplateByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", reloaded.Weeks[0].Days[0].Name)
}

func TestCloneTemplate_IndependentCopyTracesToRoot(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	original, err := svc.CreateTemplate(context.Background(), trainerID, "Base", "")
	require.NoError(t, err)

	clone, err := svc.CloneTemplate(context.Background(), trainerID, original.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Base (Copy)", clone.Name)
	require.NotNil(t, clone.OriginalTemplateID)
	assert.Equal(t, original.ID, *clone.OriginalTemplateID)
	assert.False(t, clone.IsPersonalized())

	// Editing the original does not touch the clone.
	_, err = svc.EditWeeks(context.Background(), trainerID, original.ID, func(old []domain.ProgramWeek) ([]domain.ProgramWeek, error) {
		return schedule.AddWeek(old), nil
	})
	require.NoError(t, err)

	reloaded, err := svc.GetTemplateByID(context.Background(), clone.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Weeks, 1)

	// A clone of the clone still points at the root template.
	second, err := svc.CloneTemplate(context.Background(), trainerID, clone.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, second.OriginalTemplateID)
	assert.Equal(t, original.ID, *second.OriginalTemplateID)
}

func TestCloneTemplate_PersonalizedForClient(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()

	original, err := svc.CreateTemplate(context.Background(), trainerID, "Base", "")
	require.NoError(t, err)

	clone, err := svc.CloneTemplate(context.Background(), trainerID, original.ID, &clientID)
	require.NoError(t, err)
	assert.True(t, clone.IsPersonalized())
	assert.Equal(t, clientID, *clone.ClientID)
}

func TestArchiveTemplate_HiddenFromDefaultListing(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Old Block", "")
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveTemplate(context.Background(), trainerID, template.ID, true))

	visible, err := svc.GetTemplatesByTrainer(context.Background(), trainerID, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.GetTemplatesByTrainer(context.Background(), trainerID, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsArchived)

	// Archived templates still resolve by ID for existing assignments.
	got, err := svc.GetTemplateByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, template.ID, got.ID)
}

func TestDeleteTemplate_GoneForGood(t *testing.T) {
	svc, _ := newProgramServiceForTest()
	trainerID := primitive.NewObjectID()

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Doomed", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(context.Background(), trainerID, template.ID))

	_, err = svc.GetTemplateByID(context.Background(), template.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
