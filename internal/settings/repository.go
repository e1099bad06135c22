package settings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetOrInit(ctx context.Context, defaults Settings) (Settings, error)
	Update(ctx context.Context, set, unset bson.M) (Settings, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// GetOrInit returns the singleton document, inserting the defaults if it does
// not exist yet. The upsert makes concurrent first reads converge on one row.
func (r *MongoRepository) GetOrInit(ctx context.Context, defaults Settings) (Settings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item Settings
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": SingletonID},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(&item)
	if err != nil {
		return Settings{}, err
	}
	return item, nil
}

func (r *MongoRepository) Update(ctx context.Context, set, unset bson.M) (Settings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var item Settings
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": SingletonID},
		update,
		opts,
	).Decode(&item)
	if err != nil {
		return Settings{}, err
	}
	return item, nil
}
