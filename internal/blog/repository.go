package blog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Post) error
	Update(ctx context.Context, id string, set, unset bson.M) (Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Post, error)
	CountBySlug(ctx context.Context, slug, excludeID string) (int64, error)
	ListAll(ctx context.Context, limit, offset int64) ([]Post, error)
	ListPublished(ctx context.Context) ([]Post, error)
	IncrementViews(ctx context.Context, slug string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Post) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set, unset bson.M) (Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var updated Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Post{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Post, error) {
	var item Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Post{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	var item Post
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&item); err != nil {
		return Post{}, err
	}
	return item, nil
}

func (r *MongoRepository) CountBySlug(ctx context.Context, slug, excludeID string) (int64, error) {
	query := bson.M{"slug": slug}
	if excludeID != "" {
		query["_id"] = bson.M{"$ne": excludeID}
	}
	return r.col.CountDocuments(ctx, query)
}

func (r *MongoRepository) ListAll(ctx context.Context, limit, offset int64) ([]Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit).SetSkip(offset)
	}
	return r.list(ctx, bson.M{}, opts)
}

func (r *MongoRepository) ListPublished(ctx context.Context) ([]Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}})
	return r.list(ctx, bson.M{"published": true}, opts)
}

// IncrementViews bumps the view counter for a published post and reports how
// many documents matched. A zero match count means the slug does not exist;
// no record is created either way.
func (r *MongoRepository) IncrementViews(ctx context.Context, slug string) (int64, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"slug": slug, "published": true},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *MongoRepository) list(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Post, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Post, 0)
	for cursor.Next(ctx) {
		var item Post
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
