// Package mongobridge implements the remote command interface against a
// MongoDB collection, matching the store the desktop client talked to:
// native ids are ObjectIDs surfaced as hex strings, updates are $set
// patches, and update/delete report whether anything matched.
package mongobridge

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"stockroom/internal/model"
)

// Config carries the connection parameters, sourced from the environment.
type Config struct {
	URI      string `envconfig:"STOCKROOM_MONGO_URI"`
	Database string `envconfig:"STOCKROOM_MONGO_DATABASE" default:"stockroom"`
}

// Bridge talks to one MongoDB database; the collection name arrives per
// call, as in the command interface it implements.
type Bridge struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects and pings so a bad URI fails at startup, not on the first
// user action.
func (c Config) Open(ctx context.Context) (*Bridge, error) {
	if c.URI == "" {
		return nil, errors.New("mongo bridge: STOCKROOM_MONGO_URI not set")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Bridge{client: client, db: client.Database(c.Database)}, nil
}

// Close disconnects the underlying client.
func (b *Bridge) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// FetchAll returns every record in the collection. Documents whose _id is
// not an ObjectID are skipped by this backend (store-level debris, not a
// client concern); documents always surface the hex form under RemoteID.
func (b *Bridge) FetchAll(ctx context.Context, collection string) ([]model.RawItem, error) {
	cur, err := b.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.RawItem
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		oid, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			log.Warn().Str("collection", collection).Msg("skipping document with non-ObjectID _id")
			continue
		}
		out = append(out, model.RawItem{
			RemoteID:    oid.Hex(),
			AppID:       stringField(doc, "id"),
			Name:        stringField(doc, "name"),
			Description: stringField(doc, "description"),
			Price:       numericField(doc, "price"),
		})
	}
	return out, cur.Err()
}

// Create inserts the fields (never an _id; the store assigns one) and
// returns the new id in hex form.
func (b *Bridge) Create(ctx context.Context, collection string, fields model.Fields) (string, error) {
	res, err := b.db.Collection(collection).InsertOne(ctx, fields)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("insert did not return an ObjectID")
	}
	return oid.Hex(), nil
}

// Update applies a $set patch to the record matching id. Returns true only
// when the store actually changed a record.
func (b *Bridge) Update(ctx context.Context, collection string, id string, fields model.Fields) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	res, err := b.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes the record matching id; true when something was removed.
func (b *Bridge) Delete(ctx context.Context, collection string, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	res, err := b.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

func numericField(doc bson.M, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case primitive.Decimal128:
		f, _ := strconv.ParseFloat(v.String(), 64)
		return f
	default:
		return 0
	}
}
