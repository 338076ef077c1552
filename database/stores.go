package database

import (
	"context"
	"fmt"

	"github.com/matheuskieling/sleep-tracker/config"
	entryRepo "github.com/matheuskieling/sleep-tracker/database/repository/entry"
	userRepo "github.com/matheuskieling/sleep-tracker/database/repository/user"
	"github.com/matheuskieling/sleep-tracker/utils"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Stores is the user directory and entry store selected by STORE_BACKEND.
type Stores struct {
	Users   userRepo.UserRepository
	Entries entryRepo.EntryRepository
	// Check probes the backing database for the health monitor.
	Check utils.HealthCheck
}

// OpenStores builds the repositories for backend. Mongo and Firestore
// clients must already be initialized.
func OpenStores(backend string, fs *firestore.Client) (*Stores, error) {
	switch backend {
	case config.BackendFirestore:
		if fs == nil {
			return nil, fmt.Errorf("firestore backend selected but no Firestore client")
		}
		return &Stores{
			Users:   userRepo.NewFirestoreUserRepo(fs),
			Entries: entryRepo.NewFirestoreEntryRepo(fs),
			Check: func(ctx context.Context) error {
				_, err := fs.Collection(userRepo.UsersCollection).Limit(1).Documents(ctx).Next()
				if err == iterator.Done {
					return nil
				}
				return err
			},
		}, nil
	case config.BackendMongo:
		if MongoClient == nil {
			return nil, fmt.Errorf("mongo backend selected but MongoDB is not connected")
		}
		db := Database()
		return &Stores{
			Users:   userRepo.NewMongoUserRepo(db),
			Entries: entryRepo.NewMongoEntryRepo(db),
			Check: func(ctx context.Context) error {
				return MongoClient.Ping(ctx, nil)
			},
		}, nil
	case config.BackendMemory:
		return &Stores{
			Users:   userRepo.NewMemoryUserRepo(),
			Entries: entryRepo.NewMemoryEntryRepo(),
			Check:   func(ctx context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
