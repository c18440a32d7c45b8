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

const assignmentCollectionName = "program_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository.
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new program assignment repository.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment. StartingDay is stored as submitted;
// out-of-range values are legal here and resolve to no day at read time.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error) {
	if assignment.ClientID == primitive.NilObjectID || assignment.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires clientId and programId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.AssignedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single assignment.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	var assignment domain.ProgramAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClientID retrieves all assignments for a client, newest first.
func (r *mongoAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.ProgramAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// List retrieves every stored assignment; the batch date resolver walks
// all of them.
func (r *mongoAssignmentRepository) List(ctx context.Context) ([]domain.ProgramAssignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.ProgramAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes an assignment. The template is untouched.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates the indexes for the program_assignments
// collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Best effort.
	}
}
