package identity

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const usersCollection = "users"

// MongoDirectory reads roles from the users collection.
type MongoDirectory struct {
	coll *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{coll: db.Collection(usersCollection)}
}

func (d *MongoDirectory) FindByID(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := d.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return &user, nil
}
