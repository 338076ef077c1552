package userRepo

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/matheuskieling/sleep-tracker/models"
	"github.com/matheuskieling/sleep-tracker/utils"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UsersCollection holds one profile document per user, keyed by user id.
const UsersCollection = "users"

// FirestoreUserRepo implements UserRepository on the users collection the
// mobile app writes to.
type FirestoreUserRepo struct {
	client *firestore.Client
}

func NewFirestoreUserRepo(client *firestore.Client) *FirestoreUserRepo {
	return &FirestoreUserRepo{client: client}
}

func (r *FirestoreUserRepo) ListNotifiable(ctx context.Context) ([]models.UserProfile, error) {
	iter := r.client.Collection(UsersCollection).
		Where(FieldNotificationsEnabled, "==", true).
		Documents(ctx)
	defer iter.Stop()

	var users []models.UserProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query notifiable users: %w", err)
		}
		u, err := profileFromFields(doc.Ref.ID, doc.Data())
		if err != nil {
			utils.GetLogger().Warn("Skipping unreadable user record", zap.String("userId", doc.Ref.ID), zap.Error(err))
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *FirestoreUserRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	doc, err := r.client.Collection(UsersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	var u models.UserProfile
	if err := doc.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	u.ID = doc.Ref.ID
	return &u, nil
}

func (r *FirestoreUserRepo) ClearFCMToken(ctx context.Context, id string) error {
	_, err := r.client.Collection(UsersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: FieldFCMToken, Value: ""},
		{Path: FieldUpdatedAt, Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to clear token for user %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.merge(ctx, id, map[string]interface{}{
		FieldFCMToken:             token,
		FieldNotificationsEnabled: true,
	})
}

func (r *FirestoreUserRepo) UpdateFCMToken(ctx context.Context, id, token string) error {
	return r.merge(ctx, id, map[string]interface{}{
		FieldFCMToken: token,
	})
}

func (r *FirestoreUserRepo) SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error {
	return r.merge(ctx, id, map[string]interface{}{
		FieldNotificationsEnabled: enabled,
	})
}

func (r *FirestoreUserRepo) merge(ctx context.Context, id string, fields map[string]interface{}) error {
	fields[FieldUpdatedAt] = firestore.ServerTimestamp
	if _, err := r.client.Collection(UsersCollection).Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return nil
}
