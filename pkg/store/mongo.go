package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storyreel/reelgraph/pkg/canvas"
)

// Mongo database and collection names.
const (
	mongoDatabase   = "reelgraph"
	mongoCollection = "canvases"
)

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string
	// Database overrides the default database name when non-empty.
	Database string
}

// MongoStore keeps canvases as bson documents in a MongoDB collection,
// one document per canvas keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := mongoDatabase
	if cfg.Database != "" {
		db = cfg.Database
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (canvas.Document, error) {
	if id == "" {
		return canvas.Document{}, ErrInvalidID
	}
	var doc canvas.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return canvas.Document{}, ErrNotFound
	}
	if err != nil {
		return canvas.Document{}, fmt.Errorf("mongo find: %w", err)
	}
	return doc, nil
}

func (s *MongoStore) Put(ctx context.Context, doc canvas.Document) error {
	if doc.ID == "" {
		return ErrInvalidID
	}
	doc = doc.Normalize()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var infos []Info
	for cur.Next(ctx) {
		var doc canvas.Document
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		infos = append(infos, infoOf(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close disconnects the underlying Mongo client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
