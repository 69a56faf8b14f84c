package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the mongo collection holding post documents.
const CollectionName = "posts"

// MongoRepository stores each post as one document with its likedIds array.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.LikedIDs == nil {
		post.LikedIDs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &post, nil
}

func (r *MongoRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var result []*models.Post
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// toggleLikeUpdate builds an aggregation pipeline update that removes userID
// from likedIds when present and appends it otherwise. The server evaluates
// it against the current document, so the flip is atomic.
func toggleLikeUpdate(userID string) mongo.Pipeline {
	likedIDs := bson.D{{Key: "$ifNull", Value: bson.A{"$likedIds", bson.A{}}}}
	user := bson.D{{Key: "$literal", Value: userID}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likedIds", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{user, likedIDs}}},
				bson.D{{Key: "$setDifference", Value: bson.A{likedIDs, bson.A{user}}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{likedIDs, bson.A{user}}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}

func (r *MongoRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postID}, toggleLikeUpdate(userID), opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return post.LikedBy(userID), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
