package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoBackend stores each kind in its own collection, keyed by _id.
type MongoBackend struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// OpenMongo connects to uri and pings the primary before returning.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*MongoBackend, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoBackend{client: client, db: client.Database(database), timeout: timeout}, nil
}

func (m *MongoBackend) coll(kind Kind) *mongo.Collection {
	return m.db.Collection(string(kind))
}

func (m *MongoBackend) Get(ctx context.Context, kind Kind, key string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.coll(kind).FindOne(ctx, bson.M{"_id": key}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *MongoBackend) Create(ctx context.Context, kind Kind, key string, doc any) error {
	d, err := document(key, doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.coll(kind).InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (m *MongoBackend) Put(ctx context.Context, kind Kind, key string, doc any) error {
	d, err := document(key, doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.coll(kind).ReplaceOne(ctx, bson.M{"_id": key}, d, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoBackend) Delete(ctx context.Context, kind Kind, key string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err := m.coll(kind).DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *MongoBackend) Scan(ctx context.Context, kind Kind, fn func(key string, decode Decoder) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cur, err := m.coll(kind).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		key, _ := cur.Current.Lookup("_id").StringValueOK()
		if err := fn(key, cur.Decode); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (m *MongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// document turns a record into a BSON document whose _id is key.
func document(key string, doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("bson marshal: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("bson unmarshal: %w", err)
	}
	d["_id"] = key
	return d, nil
}
