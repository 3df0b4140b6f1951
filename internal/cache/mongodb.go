package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores the record as one document with _id = key.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
}

type mongoDoc struct {
	ID        string  `bson:"_id"`
	Timestamp float64 `bson:"timestamp"`
	Data      string  `bson:"data"`
}

func OpenMongo(ctx context.Context, uri, database, collection, key string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection(collection),
		key:    key,
	}, nil
}

func (m *MongoBackend) Name() string { return "mongodb" }

func (m *MongoBackend) Load(ctx context.Context) (Record, error) {
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("finding cache document: %w", err)
	}

	entries, err := decodeEntries(doc.Data)
	if err != nil {
		return Record{}, err
	}
	return Record{Timestamp: doc.Timestamp, Data: entries}, nil
}

func (m *MongoBackend) Save(ctx context.Context, rec Record) error {
	data, err := encodeEntries(rec.Data)
	if err != nil {
		return err
	}
	doc := mongoDoc{ID: m.key, Timestamp: rec.Timestamp, Data: data}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": m.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replacing cache document: %w", err)
	}
	return nil
}

func (m *MongoBackend) Clear(ctx context.Context) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": m.key})
	return err
}

func (m *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
