// Package services contains the server-side business logic. Every operation
// takes the caller explicitly; a nil *auth.Principal is rejected with
// common.ErrorUnauthenticated before the store is touched.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
	"github.com/google/uuid"
)

// FeedCache is the read-through cache ListFeed consults. GetFeed reports the
// cache generation it looked under and SetFeed writes under that generation,
// so a listing read before an invalidation is never served after it.
// Invalidation itself goes through views.Invalidator.
type FeedCache interface {
	GetFeed(ctx context.Context) (posts []*models.Post, gen int64, ok bool, err error)
	SetFeed(ctx context.Context, gen int64, posts []*models.Post) error
}

type CreatePostInput struct {
	Body     string
	Category models.Category
	Image    *string
}

// ToggleResult is the outcome of LikePostToggle.
type ToggleResult struct {
	Liked bool
}

func (r ToggleResult) Message() string {
	if r.Liked {
		return "Post liked"
	}
	return "Like removed"
}

// PostService implements post creation, the like toggle with its LIKE
// notification, deletion by the author and the feed listing.
type PostService struct {
	repomanager repomanager.RepositoryManager
	views       views.Invalidator
	cache       FeedCache
	feedSize    int
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

// NewPostService wires the service. cache may be nil.
func NewPostService(m repomanager.RepositoryManager, inv views.Invalidator, cache FeedCache,
	cfg *config.Config, logger logging.Logger) *PostService {
	return &PostService{
		repomanager: m,
		views:       inv,
		cache:       cache,
		feedSize:    cfg.FeedSize,
		logger:      logger.With("module", "posts"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *PostService) CreatePost(ctx context.Context, caller *auth.Principal, in CreatePostInput) (*models.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:         s.newID(),
		Body:       in.Body,
		Category:   in.Category,
		AuthUserID: caller.UserID,
		Image:      in.Image,
		LikedIDs:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	post, err := s.repomanager.Posts().Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "author", caller.UserID)
	s.invalidate(ctx, views.Feed)
	return post, nil
}

// LikePostToggle flips the caller's like on postID. A new like by someone
// other than the author leaves a LIKE notification for the author.
func (s *PostService) LikePostToggle(ctx context.Context, caller *auth.Principal, postID string) (ToggleResult, error) {
	if err := requireCaller(caller); err != nil {
		return ToggleResult{}, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return ToggleResult{}, err
	}

	owner, err := s.repomanager.Users().GetByID(ctx, post.AuthUserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ToggleResult{}, ErrPostOwnerNotFound
		}
		return ToggleResult{}, fmt.Errorf("error loading post owner: %w", err)
	}

	liked, err := s.repomanager.Posts().ToggleLike(ctx, post.ID, caller.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// deleted between the fetch and the toggle
			return ToggleResult{}, ErrPostNotFound
		}
		return ToggleResult{}, fmt.Errorf("error toggling like: %w", err)
	}

	if liked && owner.ID != caller.UserID {
		s.notifyLike(ctx, caller, owner)
	}

	s.invalidate(ctx, views.Feed)
	return ToggleResult{Liked: liked}, nil
}

// notifyLike runs after the like is persisted, so a failure here is logged
// and swallowed.
func (s *PostService) notifyLike(ctx context.Context, liker *auth.Principal, owner *models.User) {
	n := &models.Notification{
		ID:         s.newID(),
		Body:       fmt.Sprintf("%s liked your post", liker.DisplayName()),
		AuthUserID: owner.ID,
		Type:       models.NotificationLike,
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.repomanager.Notifications().Create(ctx, n); err != nil {
		s.logger.Error(ctx, "error creating like notification", "recipient", owner.ID, "error", err)
		return
	}
	s.invalidate(ctx, views.Notifications)
}

func (s *PostService) DeletePost(ctx context.Context, caller *auth.Principal, postID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthUserID != caller.UserID {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Posts().Delete(ctx, post.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("error deleting post: %w", err)
	}

	s.logger.Info(ctx, "post deleted", "post_id", post.ID)
	s.invalidate(ctx, views.Feed)
	return nil
}

// ListFeed returns the newest posts, at most the configured feed size.
func (s *PostService) ListFeed(ctx context.Context, caller *auth.Principal) ([]*models.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, g, ok, err := s.cache.GetFeed(ctx)
		switch {
		case err != nil:
			s.logger.Warn(ctx, "feed cache read failed", "error", err)
		case ok:
			return cached, nil
		default:
			gen, cacheable = g, true
		}
	}

	posts, err := s.repomanager.Posts().List(ctx, s.feedSize)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	if cacheable {
		if err := s.cache.SetFeed(ctx, gen, posts); err != nil {
			s.logger.Warn(ctx, "feed cache write failed", "error", err)
		}
	}
	return posts, nil
}

func (s *PostService) getPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repomanager.Posts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return post, nil
}

func (s *PostService) invalidate(ctx context.Context, view views.View) {
	invalidate(ctx, s.views, view, s.logger)
}

func invalidate(ctx context.Context, inv views.Invalidator, view views.View, logger logging.Logger) {
	if err := inv.Invalidate(ctx, view); err != nil {
		logger.Warn(ctx, "view invalidation failed", "view", view, "error", err)
	}
}
