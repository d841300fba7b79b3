package repository

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across handlers.
const (
	Users         = "users"
	Tasks         = "tasks"
	Documents     = "documents"
	Notifications = "notifications"
)

// EnsureIndexes creates the indexes the handlers rely on.
// Safe to call repeatedly; Mongo ignores requests for existing indexes.
func EnsureIndexes(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := db.Collection(Users).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("Failed to create unique email index: %v", err)
	}

	_, err = db.Collection(Tasks).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		log.Fatalf("Failed to create task createdAt index: %v", err)
	}

	_, err = db.Collection(Notifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		log.Fatalf("Failed to create notification user index: %v", err)
	}

	_, err = db.Collection(Documents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uploadDate", Value: -1}},
	})
	if err != nil {
		log.Fatalf("Failed to create document uploadDate index: %v", err)
	}
}

// DropAllCollections empties the database. Used to reset state between test runs.
func DropAllCollections(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, name := range []string{Users, Tasks, Documents, Notifications} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("Failed to drop collection %s: %v", name, err)
		}
	}
}
