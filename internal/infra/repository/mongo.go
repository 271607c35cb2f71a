package repository

import (
	"context"
	"errors"
	"fmt"

	Irepository "astro-connector/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDocument wraps an entity so any entity type can be stored under an
// explicit storage key, independent of its own field layout.
type mongoDocument[T any] struct {
	Key   string `bson:"storage_key"`
	Value T      `bson:"value"`
}

// MongoStore persists entities as keyed documents in one collection.
type MongoStore[T any] struct {
	collection *mongo.Collection
}

func NewMongoStore[T any](db *mongo.Database, collectionName string) *MongoStore[T] {
	return &MongoStore[T]{collection: db.Collection(collectionName)}
}

func (r *MongoStore[T]) Find(ctx context.Context, key string) (T, error) {
	var doc mongoDocument[T]
	err := r.collection.FindOne(ctx, bson.M{"storage_key": key}).Decode(&doc)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, Irepository.ErrNotFound
		}
		return zero, fmt.Errorf("mongo find: %w", err)
	}
	return doc.Value, nil
}

// Save upserts so a missing document is created in place.
func (r *MongoStore[T]) Save(ctx context.Context, key string, entity T) error {
	update := bson.M{"$set": mongoDocument[T]{Key: key, Value: entity}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"storage_key": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save: %w", err)
	}
	return nil
}

func (r *MongoStore[T]) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"storage_key": key})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (r *MongoStore[T]) FindAll(ctx context.Context) ([]T, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo find all: %w", err)
	}
	defer cursor.Close(ctx)

	var entities []T
	for cursor.Next(ctx) {
		var doc mongoDocument[T]
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		entities = append(entities, doc.Value)
	}
	return entities, cursor.Err()
}
