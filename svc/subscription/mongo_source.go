package subscription

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/quotagate/quotagate/svc/catalog"
)

const subscriptionsCollection = "user_subs"

// MongoStore is the MongoDB-backed Store. user_id carries a unique index so
// concurrent subscribes for the same user cannot both succeed.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(subscriptionsCollection)}
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string) (*Subscription, error) {
	var sub Subscription
	if err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *MongoStore) Insert(ctx context.Context, sub Subscription) error {
	_, err := s.coll.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadySubscribed
	}
	return err
}

func (s *MongoStore) UpdatePlan(ctx context.Context, userID, planID string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"plan_id": planID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AppendPermission(ctx context.Context, userID string, ref catalog.PermissionRef) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{"permissions": ref}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
