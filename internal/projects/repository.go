package projects

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Project) error
	Update(ctx context.Context, id string, set, unset bson.M) (Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (Project, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Project, error)
	CountBySlug(ctx context.Context, slug, excludeID string) (int64, error)
	ListAll(ctx context.Context, limit, offset int64) ([]Project, error)
	ListPublished(ctx context.Context, filter PublicListFilter) ([]Project, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Project) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set, unset bson.M) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
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

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Project, error) {
	var item Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Project{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	var item Project
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&item); err != nil {
		return Project{}, err
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

func (r *MongoRepository) ListAll(ctx context.Context, limit, offset int64) ([]Project, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "order", Value: 1},
			{Key: "created_at", Value: -1},
		})
	if limit > 0 {
		opts = opts.SetLimit(limit).SetSkip(offset)
	}
	return r.list(ctx, bson.M{}, opts)
}

func (r *MongoRepository) ListPublished(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	query := bson.M{"published": true}
	if filter.FeaturedOnly {
		query["featured"] = true
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "order", Value: 1},
			{Key: "published_at", Value: -1},
		})
	return r.list(ctx, query, opts)
}

func (r *MongoRepository) list(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Project, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var item Project
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
