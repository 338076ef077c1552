package entryRepo

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/matheuskieling/sleep-tracker/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreEntryRepo reads users/{uid}/entries/{dateKey}.
type FirestoreEntryRepo struct {
	client *firestore.Client
}

func NewFirestoreEntryRepo(client *firestore.Client) *FirestoreEntryRepo {
	return &FirestoreEntryRepo{client: client}
}

func (r *FirestoreEntryRepo) doc(userID, dateKey string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(userID).Collection("entries").Doc(dateKey)
}

func (r *FirestoreEntryRepo) GetEntry(ctx context.Context, userID, dateKey string) (*models.DayEntry, error) {
	snap, err := r.doc(userID, dateKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch entry %s for user %s: %w", dateKey, userID, err)
	}
	return entryFromFields(userID, dateKey, snap.Data()), nil
}
