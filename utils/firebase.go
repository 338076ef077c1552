// utils/firebase.go
package utils

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/matheuskieling/sleep-tracker/config"
	"google.golang.org/api/option"
)

var (
	FirebaseApp     *firebase.App
	FCMClient       *messaging.Client
	AuthClient      *auth.Client
	FirestoreClient *firestore.Client
)

// FirebaseInit initializes the Firebase App with the Messaging and Auth clients.
// The Firestore client is only opened when it backs the user directory.
func FirebaseInit(withFirestore bool) {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	var fbConfig *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}
	FirebaseApp = app

	FCMClient, err = app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}

	AuthClient, err = app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}

	if withFirestore {
		FirestoreClient, err = app.Firestore(ctx)
		if err != nil {
			log.Fatalf("firebase: error getting Firestore client: %v", err)
		}
	}
}

// FirebaseClose releases the Firestore connection if one was opened.
func FirebaseClose() {
	if FirestoreClient != nil {
		if err := FirestoreClient.Close(); err != nil {
			log.Printf("firebase: error closing Firestore client: %v", err)
		}
	}
}
