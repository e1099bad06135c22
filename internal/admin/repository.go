package admin

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Insert(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) (bool, error)
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) Insert(ctx context.Context, user User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.col.FindOne(ctx, bson.M{"username": username, "role": RoleAdmin}).Decode(&user)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"role": RoleAdmin}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]User, 0)
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "role": RoleAdmin},
		bson.M{"$set": bson.M{
			"password_hash": hash,
			"updated_at":    at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
