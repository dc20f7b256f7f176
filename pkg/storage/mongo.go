package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "otsaudit"
	DefaultCollection = "snapshots"
)

// MongoSnapshotStore stores snapshots in a MongoDB collection.
type MongoSnapshotStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSnapshotStore connects to uri, verifies the connection and ensures
// the (project, created_at) index exists. Empty names use the defaults.
func NewMongoSnapshotStore(ctx context.Context, uri, database, collection string) (*MongoSnapshotStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoSnapshotStore{client: client, coll: coll}, nil
}

func (m *MongoSnapshotStore) Save(ctx context.Context, s *Snapshot) error {
	prepare(s)
	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (m *MongoSnapshotStore) Latest(ctx context.Context, project string) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var s Snapshot
	err := m.coll.FindOne(ctx, bson.D{{Key: "project", Value: project}}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return &s, nil
}

func (m *MongoSnapshotStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ SnapshotStore = (*MongoSnapshotStore)(nil)
