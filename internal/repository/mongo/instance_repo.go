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

const instanceCollectionName = "program_instances"

// mongoInstanceRepository implements repository.InstanceRepository.
type mongoInstanceRepository struct {
	collection *mongo.Collection
}

// NewMongoInstanceRepository creates a new program instance repository.
func NewMongoInstanceRepository(db *mongo.Database) repository.InstanceRepository {
	return &mongoInstanceRepository{
		collection: db.Collection(instanceCollectionName),
	}
}

// Create inserts a new instance.
func (r *mongoInstanceRepository) Create(ctx context.Context, instance *domain.ProgramInstance) (primitive.ObjectID, error) {
	if instance.TemplateID == primitive.NilObjectID || instance.ClientID == primitive.NilObjectID || instance.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("instance requires templateId, clientId, and trainerId")
	}

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

	result, err := r.collection.InsertOne(ctx, instance)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted instance ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single instance.
func (r *mongoInstanceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramInstance, error) {
	var instance domain.ProgramInstance
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&instance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// GetByClientID retrieves all instances for a client, newest first.
func (r *mongoInstanceRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramInstance, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var instances []domain.ProgramInstance
	if err = cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// GetActiveByClientID retrieves the client's active instance. First match
// wins; creation keeps the invariant that there is at most one.
func (r *mongoInstanceRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.ProgramInstance, error) {
	filter := bson.M{"clientId": clientID, "status": domain.InstanceActive}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	var instance domain.ProgramInstance
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&instance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// Update persists the mutable instance fields. Identity and assignment
// references stay fixed.
func (r *mongoInstanceRepository) Update(ctx context.Context, instance *domain.ProgramInstance) error {
	if instance.ID == primitive.NilObjectID {
		return errors.New("instance ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"startDate":         instance.StartDate,
			"status":            instance.Status,
			"currentWeek":       instance.CurrentWeek,
			"currentDay":        instance.CurrentDay,
			"completedWeeks":    instance.CompletedWeeks,
			"completedDays":     instance.CompletedDays,
			"modifiedExercises": instance.ModifiedExercises,
			"notes":             instance.Notes,
			"updatedAt":         time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": instance.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PauseActiveForClient pauses every active instance of the client except
// excludeID.
func (r *mongoInstanceRepository) PauseActiveForClient(ctx context.Context, clientID, excludeID primitive.ObjectID) error {
	filter := bson.M{
		"clientId": clientID,
		"status":   domain.InstanceActive,
		"_id":      bson.M{"$ne": excludeID},
	}
	update := bson.M{
		"$set": bson.M{"status": domain.InstancePaused, "updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// Delete removes an instance.
func (r *mongoInstanceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureInstanceIndexes creates the indexes for the program_instances
// collection.
func EnsureInstanceIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "templateId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Best effort.
	}
}
