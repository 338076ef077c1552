package userRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a UserRepository over the "users" collection of db.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	repo := &MongoUserRepo{coll: db.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create user indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoUserRepo) ListNotifiable(ctx context.Context) ([]models.UserProfile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{FieldNotificationsEnabled: true})
	if err != nil {
		return nil, fmt.Errorf("failed to query notifiable users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.UserProfile
	for cursor.Next(ctx) {
		u, err := profileFromRaw(cursor.Current)
		if err != nil {
			utils.GetLogger().Warn("Skipping unreadable user record", zap.Error(err))
			continue
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.coll.FindOne(ctx, bson.M{FieldID: id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

func (r *MongoUserRepo) ClearFCMToken(ctx context.Context, id string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{FieldID: id},
		bson.M{"$set": bson.M{FieldFCMToken: "", FieldUpdatedAt: time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear token for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.upsert(ctx, id, bson.M{FieldFCMToken: token, FieldNotificationsEnabled: true})
}

func (r *MongoUserRepo) UpdateFCMToken(ctx context.Context, id, token string) error {
	return r.upsert(ctx, id, bson.M{FieldFCMToken: token})
}

func (r *MongoUserRepo) SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error {
	return r.upsert(ctx, id, bson.M{FieldNotificationsEnabled: enabled})
}

func (r *MongoUserRepo) upsert(ctx context.Context, id string, fields bson.M) error {
	now := time.Now()
	fields[FieldUpdatedAt] = now
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{FieldCreatedAt: now},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{FieldID: id}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return nil
}

// profileFromRaw reads a user document without binding the whole record to
// UserProfile, so unrelated fields of the wrong type do not fail the read.
func profileFromRaw(raw bson.Raw) (models.UserProfile, error) {
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to decode user: %w", err)
	}
	id, _ := fields[FieldID].(string)
	if id == "" {
		return models.UserProfile{}, fmt.Errorf("user document %v has no %s", fields["_id"], FieldID)
	}
	return profileFromFields(id, fields)
}
