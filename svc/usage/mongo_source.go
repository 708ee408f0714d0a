package usage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usageCollection = "usage"

// MongoStore is the MongoDB-backed Store. The used counter is advanced with
// $inc so concurrent requests for the same user cannot lose updates.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(usageCollection)}
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string) (*Ledger, error) {
	var ledger Ledger
	if err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&ledger); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

func (s *MongoStore) Init(ctx context.Context, userID string, limit int64) (*Ledger, error) {
	// $setOnInsert leaves an existing ledger untouched while creating the
	// initial snapshot atomically for new users.
	var ledger Ledger
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":     userID,
			"usage_limit": limit,
			"used":        int64(0),
			"blocked":     false,
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&ledger)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (s *MongoStore) Snapshot(ctx context.Context, userID string, limit int64) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"usage_limit": limit},
			"$setOnInsert": bson.M{"user_id": userID, "used": int64(0), "blocked": false},
		},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) SetBlocked(ctx context.Context, userID string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"blocked": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) IncrementUsed(ctx context.Context, userID string) (int64, error) {
	var ledger Ledger
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"used": int64(1)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ledger)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return ledger.Used, nil
}

func (s *MongoStore) Reset(ctx context.Context, userID string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"used": int64(0), "blocked": false}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
