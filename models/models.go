package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Goal belongs to exactly one user. The owner id never appears in responses.
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
	DueDate   *string            `bson:"dueDate" json:"dueDate"`
	Category  string             `bson:"category" json:"category"`
	Priority  string             `bson:"priority" json:"priority"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
