package users

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

// CollectionName is the mongo collection holding user documents.
const CollectionName = "users"

// MongoRepository implements Repository over a mongo collection. The follow
// set lives on the follower's document as followingIds.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	doc := *user
	if doc.FollowingIDs == nil {
		doc.FollowingIDs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

func (r *MongoRepository) ListOthers(ctx context.Context, excludeID string, limit int) ([]*models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "followerCount", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": excludeID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var result []*models.User
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// toggleFollowUpdate removes targetID from followingIds when present and
// appends it otherwise, evaluated server side against the current document.
func toggleFollowUpdate(targetID string) mongo.Pipeline {
	followingIDs := bson.D{{Key: "$ifNull", Value: bson.A{"$followingIds", bson.A{}}}}
	target := bson.D{{Key: "$literal", Value: targetID}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "followingIds", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{target, followingIDs}}},
				bson.D{{Key: "$setDifference", Value: bson.A{followingIDs, bson.A{target}}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{followingIDs, bson.A{target}}}},
			}}}},
		}}},
	}
}

// ToggleFollow flips the edge on the follower's document, then moves the
// target's followerCount. The two documents are written separately; the
// flip itself is atomic, so concurrent toggles still alternate.
func (r *MongoRepository) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": followerID}, toggleFollowUpdate(targetID), opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	following := user.IsFollowing(targetID)
	delta := int64(-1)
	if following {
		delta = 1
	}
	if err := r.AdjustFollowerCount(ctx, targetID, delta); err != nil {
		return false, err
	}
	return following, nil
}

// AdjustFollowerCount clamps at zero inside a single pipeline update.
func (r *MongoRepository) AdjustFollowerCount(ctx context.Context, id string, delta int64) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "followerCount", Value: bson.D{{Key: "$max", Value: bson.A{
			0,
			bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$followerCount", 0}}}, delta}}},
		}}}}}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) UpdateImage(ctx context.Context, id, image string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"image": image}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
