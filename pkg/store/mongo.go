package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boxlogic/stowplan/pkg/errors"
)

const (
	mongoDatabase   = "stowplan"
	mongoCollection = "plans"
)

// MongoStore persists plans in a MongoDB collection. Plans are small
// documents (a few KB of scene JSON) so no GridFS or chunking is
// needed.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection
// with a short ping.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Put implements Store.
func (s *MongoStore) Put(ctx context.Context, p Plan) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store plan %s", p.ID)
	}
	return nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (Plan, error) {
	var p Plan
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return Plan{}, notFound(id)
	}
	if err != nil {
		return Plan{}, errors.Wrap(errors.ErrCodeStorage, err, "load plan %s", id)
	}
	return p, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list plans")
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var p Plan
		if err := cur.Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode plan")
		}
		out = append(out, Summarize(p))
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate plans")
	}
	return out, nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
