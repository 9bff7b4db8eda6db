package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"achievify/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Defaults applied when a goal is created without optional fields.
const (
	DefaultCategory = "Personal"
	DefaultPriority = "medium"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type NewGoal struct {
	Text     string
	DueDate  *string
	Category string
	Priority string
}

// GoalPatch carries only the fields the caller wants changed. A nil pointer
// means "leave alone"; ClearDue removes the due date (a JSON null upstream).
type GoalPatch struct {
	Text      *string
	Completed *bool
	DueDate   *string
	ClearDue  bool
	Category  *string
	Priority  *string
}

func (p GoalPatch) Empty() bool {
	return p.Text == nil && p.Completed == nil && p.DueDate == nil &&
		!p.ClearDue && p.Category == nil && p.Priority == nil
}

// GoalStore operations all take the resolved owner; a goal is never
// addressable by id alone.
type GoalStore interface {
	List(ctx context.Context, owner primitive.ObjectID) ([]models.Goal, error)
	Create(ctx context.Context, owner primitive.ObjectID, g NewGoal) (*models.Goal, error)
	Update(ctx context.Context, owner primitive.ObjectID, id string, patch GoalPatch) (*models.Goal, error)
	Delete(ctx context.Context, owner primitive.ObjectID, id string) error
}
