package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	plansCollection       = "plans"
	permissionsCollection = "permissions"
)

// parseID converts a hex identifier into an ObjectID, mapping malformed
// input onto the domain error.
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, errors.Join(ErrInvalidID, err)
	}
	return oid, nil
}

type planDoc struct {
	ID          bson.ObjectID   `bson:"_id,omitempty"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Permissions []PermissionRef `bson:"permissions"`
	UsageLimit  int64           `bson:"usage_limit"`
}

func (d planDoc) toPlan() Plan {
	return Plan{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Permissions: d.Permissions,
		UsageLimit:  d.UsageLimit,
	}
}

// MongoPlanStore is the MongoDB-backed PlanStore.
type MongoPlanStore struct {
	coll *mongo.Collection
}

func NewMongoPlanStore(db *mongo.Database) *MongoPlanStore {
	return &MongoPlanStore{coll: db.Collection(plansCollection)}
}

func (s *MongoPlanStore) Insert(ctx context.Context, plan Plan) (string, error) {
	res, err := s.coll.InsertOne(ctx, planDoc{
		Name:        plan.Name,
		Description: plan.Description,
		Permissions: plan.Permissions,
		UsageLimit:  plan.UsageLimit,
	})
	if err != nil {
		return "", err
	}
	return res.InsertedID.(bson.ObjectID).Hex(), nil
}

func (s *MongoPlanStore) FindByID(ctx context.Context, id string) (*Plan, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc planDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	plan := doc.toPlan()
	return &plan, nil
}

func (s *MongoPlanStore) FindByName(ctx context.Context, name string) (*Plan, error) {
	var doc planDoc
	if err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	plan := doc.toPlan()
	return &plan, nil
}

func (s *MongoPlanStore) List(ctx context.Context) ([]Plan, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []planDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(docs))
	for _, doc := range docs {
		plans = append(plans, doc.toPlan())
	}
	return plans, nil
}

func (s *MongoPlanStore) Update(ctx context.Context, id string, plan Plan) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        plan.Name,
		"description": plan.Description,
		"permissions": plan.Permissions,
		"usage_limit": plan.UsageLimit,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (s *MongoPlanStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}

type permissionDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	APIEndpoint string        `bson:"api_endpoint"`
}

func (d permissionDoc) toPermission() Permission {
	return Permission{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		APIEndpoint: d.APIEndpoint,
	}
}

// MongoPermissionStore is the MongoDB-backed PermissionStore.
type MongoPermissionStore struct {
	coll *mongo.Collection
}

func NewMongoPermissionStore(db *mongo.Database) *MongoPermissionStore {
	return &MongoPermissionStore{coll: db.Collection(permissionsCollection)}
}

func (s *MongoPermissionStore) Insert(ctx context.Context, perm Permission) (string, error) {
	res, err := s.coll.InsertOne(ctx, permissionDoc{
		Name:        perm.Name,
		Description: perm.Description,
		APIEndpoint: perm.APIEndpoint,
	})
	if err != nil {
		return "", err
	}
	return res.InsertedID.(bson.ObjectID).Hex(), nil
}

func (s *MongoPermissionStore) FindByID(ctx context.Context, id string) (*Permission, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc permissionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	perm := doc.toPermission()
	return &perm, nil
}

func (s *MongoPermissionStore) FindByName(ctx context.Context, name string) (*Permission, error) {
	var doc permissionDoc
	if err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPermissionNotFound
		}
		return nil, err
	}
	perm := doc.toPermission()
	return &perm, nil
}

func (s *MongoPermissionStore) List(ctx context.Context) ([]Permission, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []permissionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	perms := make([]Permission, 0, len(docs))
	for _, doc := range docs {
		perms = append(perms, doc.toPermission())
	}
	return perms, nil
}

func (s *MongoPermissionStore) Update(ctx context.Context, id string, perm Permission) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":         perm.Name,
		"description":  perm.Description,
		"api_endpoint": perm.APIEndpoint,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (s *MongoPermissionStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPermissionNotFound
	}
	return nil
}
