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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the library.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.Modality == "" {
		return primitive.NilObjectID, errors.New("exercise name and modality are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// List retrieves the whole library: system defaults plus trainer-authored
// exercises, defaults first then alphabetical.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "isDefault", Value: -1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByCreator retrieves the exercises authored by one trainer.
func (r *mongoExerciseRepository) GetByCreator(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"createdBy": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update modifies an existing exercise. Ownership and the IsDefault flag
// are not touchable through this path.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":            exercise.Name,
			"modality":        exercise.Modality,
			"muscleGroups":    exercise.MuscleGroups,
			"movementPattern": exercise.MovementPattern,
			"instructions":    exercise.Instructions,
			"category":        exercise.Category,
			"videoUrl":        exercise.VideoURL,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a trainer-authored exercise. System defaults never match
// the filter, so they cannot be deleted.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":       id,
		"isDefault": false,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountDefaults counts seeded system exercises; used to decide whether the
// startup seed needs to run.
func (r *mongoExerciseRepository) CountDefaults(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isDefault": true})
}

// EnsureExerciseIndexes creates the indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "isDefault", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "instructions", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Best effort.
	}
}
