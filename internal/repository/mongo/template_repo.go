package mongo

import (
	"context"
	"errors"
	"time"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const templateCollectionName = "program_templates"

// mongoTemplateRepository implements repository.TemplateRepository.
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new program template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// Create inserts a new template.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.ProgramTemplate) (primitive.ObjectID, error) {
	if template.Name == "" || template.CreatedBy == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("template name and creator are required")
	}

	template.ID = primitive.NewObjectID()
	template.Version = 1
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single template.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error) {
	var template domain.ProgramTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetByTrainerID retrieves all templates authored by a trainer, newest
// first. Archived templates are filtered out unless asked for.
func (r *mongoTemplateRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, includeArchived bool) ([]domain.ProgramTemplate, error) {
	filter := bson.M{"createdBy": trainerID}
	if !includeArchived {
		filter["isArchived"] = false
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.ProgramTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// UpdateMeta updates a template's descriptive fields. Structural edits go
// through ReplaceWeeks, never through here.
func (r *mongoTemplateRepository) UpdateMeta(ctx context.Context, template *domain.ProgramTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}
	if template.Name == "" {
		return errors.New("template name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":        template.Name,
			"description": template.Description,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": template.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceWeeks swaps the entire weeks array under a version guard. The
// filter matches only when the stored version equals expectedVersion; a
// concurrent edit bumps the version and the late writer gets
// ErrVersionConflict instead of clobbering the other edit.
func (r *mongoTemplateRepository) ReplaceWeeks(ctx context.Context, id primitive.ObjectID, expectedVersion int64, weeks []domain.ProgramWeek, durationWeeks, daysPerWeek int) error {
	filter := bson.M{"_id": id, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"weeks":         weeks,
			"durationWeeks": durationWeeks,
			"daysPerWeek":   daysPerWeek,
			"updatedAt":     time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the template is gone or the version moved underneath us;
		// a second lookup tells the two apart.
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}
	return nil
}

// SetArchived flips the soft-delete flag.
func (r *mongoTemplateRepository) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	update := bson.M{
		"$set": bson.M{"isArchived": archived, "updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a template. Assignments and instances referencing it
// keep their id and resolve to "program no longer available" at read time.
func (r *mongoTemplateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTemplateIndexes creates the indexes for the program_templates
// collection.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "isArchived", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Best effort.
	}
}
