package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"achievify/models"
)

type MongoGoalStore struct {
	col *mongo.Collection
}

func NewMongoGoalStore(database *mongo.Database) *MongoGoalStore {
	return &MongoGoalStore{col: database.Collection("goals")}
}

func (s *MongoGoalStore) List(ctx context.Context, owner primitive.ObjectID) ([]models.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		return nil, err
	}

	goals := []models.Goal{}
	if err := cur.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *MongoGoalStore) Create(ctx context.Context, owner primitive.ObjectID, g NewGoal) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:    owner,
		Text:      g.Text,
		DueDate:   g.DueDate,
		Category:  g.Category,
		Priority:  g.Priority,
		CreatedAt: time.Now().UTC(),
	}
	if goal.Category == "" {
		goal.Category = DefaultCategory
	}
	if goal.Priority == "" {
		goal.Priority = DefaultPriority
	}

	res, err := s.col.InsertOne(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = res.InsertedID.(primitive.ObjectID)
	return goal, nil
}

func (s *MongoGoalStore) Update(ctx context.Context, owner primitive.ObjectID, id string, patch GoalPatch) (*models.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.ClearDue {
		set["dueDate"] = nil
	} else if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}

	// The filter matches id and owner together; a zero match never says which
	// half failed.
	filter := bson.M{"_id": objID, "user_id": owner}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	var goal models.Goal
	err = s.col.FindOne(ctx, filter).Decode(&goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *MongoGoalStore) Delete(ctx context.Context, owner primitive.ObjectID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": objID, "user_id": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
