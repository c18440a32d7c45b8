package service

import (
	"context"
	"errors"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

type TrainerService interface {
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo repository.UserRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{userRepo: userRepo}
}

// AddClientByEmail finds a client by email and links them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already linked to this trainer; idempotent.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Link both directions. Two writes, no transaction; a failure between
	// them leaves the link half-made and a retry repairs it.
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	return client, nil
}

// GetManagedClients retrieves the list of clients linked to the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// GetManagedClient fetches one client and verifies the trainer link.
func (s *trainerService) GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}
	client.PasswordHash = ""
	return client, nil
}
