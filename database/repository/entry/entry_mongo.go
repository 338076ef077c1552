package entryRepo

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

// MongoEntryRepo implements EntryRepository over the "entries" collection,
// one document per (userId, dateString).
type MongoEntryRepo struct {
	coll *mongo.Collection
}

func NewMongoEntryRepo(db *mongo.Database) *MongoEntryRepo {
	repo := &MongoEntryRepo{coll: db.Collection("entries")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create entry indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoEntryRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dateString", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoEntryRepo) GetEntry(ctx context.Context, userID, dateKey string) (*models.DayEntry, error) {
	var fields bson.M
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "dateString": dateKey}).Decode(&fields)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch entry %s for user %s: %w", dateKey, userID, err)
	}
	return entryFromFields(userID, dateKey, fields), nil
}
