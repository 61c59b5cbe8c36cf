package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
)

// MongoStore is the MongoDB-backed document store.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and ensures the unique email index on users.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()
	if err := cli.Ping(pctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(cfg.Database)
	_, err = db.Collection(domain.CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("unable to ensure users email index", zap.Error(err))
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &MongoStore{client: cli, db: db}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("mongo client not configured")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) FindOne(ctx context.Context, filter domain.Filter) (domain.Document, error) {
	f, err := toBSONFilter(filter)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	err = c.coll.FindOne(ctx, f).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(raw), nil
}

func (c *mongoCollection) Find(ctx context.Context, filter domain.Filter) ([]domain.Document, error) {
	f, err := toBSONFilter(filter)
	if err != nil {
		return nil, err
	}
	cur, err := c.coll.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, err
	}
	out := make([]domain.Document, 0, len(raws))
	for _, raw := range raws {
		out = append(out, fromBSON(raw))
	}
	return out, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc domain.Document) (*InsertResult, error) {
	toInsert := bson.M{}
	for k, v := range doc {
		if k == domain.FieldID {
			continue
		}
		toInsert[k] = v
	}
	res, err := c.coll.InsertOne(ctx, toInsert)
	if err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*UpdateResult, error) {
	f, err := toBSONFilter(filter)
	if err != nil {
		return nil, err
	}
	fields := bson.M{}
	for k, v := range set {
		if k != domain.FieldID {
			fields[k] = v
		}
	}
	res, err := c.coll.UpdateOne(ctx, f, bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}
	out := &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id := idString(res.UpsertedID)
		out.UpsertedID = &id
	}
	return out, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter domain.Filter) (*DeleteResult, error) {
	f, err := toBSONFilter(filter)
	if err != nil {
		return nil, err
	}
	res, err := c.coll.DeleteOne(ctx, f)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func toBSONFilter(filter domain.Filter) (bson.M, error) {
	id, hasID, rest, err := splitID(filter)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	for k, v := range rest {
		out[k] = v
	}
	if hasID {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
		}
		out[domain.FieldID] = oid
	}
	return out, nil
}

func fromBSON(raw bson.M) domain.Document {
	doc := make(domain.Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeBSON(v)
	}
	return doc
}

func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case bson.M:
		return map[string]any(fromBSON(t))
	case bson.D:
		return map[string]any(fromBSON(t.Map()))
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeBSON(item)
		}
		return out
	default:
		return v
	}
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
