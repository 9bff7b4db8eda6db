package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievify/models"
)

// In-memory implementations with the same contract as the Mongo stores.
// Handler and middleware tests run against these instead of a live server.

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[objID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Delete exists so tests can simulate an account removed after a token was
// issued.
func (s *MemoryUserStore) Delete(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type MemoryGoalStore struct {
	mu    sync.Mutex
	goals []models.Goal
}

func NewMemoryGoalStore() *MemoryGoalStore {
	return &MemoryGoalStore{}
}

func (s *MemoryGoalStore) List(_ context.Context, owner primitive.ObjectID) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Goals are appended in creation order, so this is ascending created_at.
	out := []models.Goal{}
	for _, g := range s.goals {
		if g.UserID == owner {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemoryGoalStore) Create(_ context.Context, owner primitive.ObjectID, ng NewGoal) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := models.Goal{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		Text:      ng.Text,
		DueDate:   ng.DueDate,
		Category:  ng.Category,
		Priority:  ng.Priority,
		CreatedAt: time.Now().UTC(),
	}
	if goal.Category == "" {
		goal.Category = DefaultCategory
	}
	if goal.Priority == "" {
		goal.Priority = DefaultPriority
	}

	s.goals = append(s.goals, goal)
	return &goal, nil
}

func (s *MemoryGoalStore) Update(_ context.Context, owner primitive.ObjectID, id string, patch GoalPatch) (*models.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		g := &s.goals[i]
		if g.ID != objID || g.UserID != owner {
			continue
		}
		if patch.Text != nil {
			g.Text = *patch.Text
		}
		if patch.Completed != nil {
			g.Completed = *patch.Completed
		}
		if patch.ClearDue {
			g.DueDate = nil
		} else if patch.DueDate != nil {
			due := *patch.DueDate
			g.DueDate = &due
		}
		if patch.Category != nil {
			g.Category = *patch.Category
		}
		if patch.Priority != nil {
			g.Priority = *patch.Priority
		}
		goal := *g
		return &goal, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryGoalStore) Delete(_ context.Context, owner primitive.ObjectID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID == objID && g.UserID == owner {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
