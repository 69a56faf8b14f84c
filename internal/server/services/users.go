package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
)

const suggestionsLimit = 5

// UserService mirrors identity-provider profiles into the store and manages
// the follow graph.
type UserService struct {
	repomanager repomanager.RepositoryManager
	views       views.Invalidator
	logger      logging.Logger
	now         func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, inv views.Invalidator, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		views:       inv,
		logger:      logger.With("module", "users"),
		now:         time.Now,
	}
}

// SyncUser returns the caller's stored profile, creating it from the
// principal on first sign-in.
func (s *UserService) SyncUser(ctx context.Context, caller *auth.Principal) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users()
	user, err := repo.GetByID(ctx, caller.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	user, err = repo.Create(ctx, &models.User{
		ID:           caller.UserID,
		Name:         caller.DisplayName(),
		Username:     caller.Username,
		Email:        caller.Email,
		Image:        caller.Image,
		FollowingIDs: []string{},
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		// a concurrent first request won the insert
		return repo.GetByID(ctx, caller.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, caller *auth.Principal, id string) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.getUser(ctx, id)
}

func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// WhoToFollow suggests the most followed users other than the caller.
func (s *UserService) WhoToFollow(ctx context.Context, caller *auth.Principal) ([]*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Users().ListOthers(ctx, caller.UserID, suggestionsLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	if list == nil {
		list = []*models.User{}
	}
	return list, nil
}

// FollowToggle follows targetID, or unfollows when already following, and
// reports whether the caller follows the target afterwards. The direction is
// decided by the repository's toggle, never by a profile read earlier in the
// request.
func (s *UserService) FollowToggle(ctx context.Context, caller *auth.Principal, targetID string) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}
	if targetID == caller.UserID {
		return false, ErrSelfFollow
	}

	if _, err := s.getUser(ctx, targetID); err != nil {
		return false, err
	}
	me, err := s.SyncUser(ctx, caller)
	if err != nil {
		return false, err
	}

	following, err := s.repomanager.Users().ToggleFollow(ctx, me.ID, targetID)
	if err != nil {
		return false, fmt.Errorf("error updating follows: %w", err)
	}
	invalidate(ctx, s.views, views.Feed, s.logger)

	return following, nil
}

// SetAvatar stores the object key of an uploaded avatar. The key must be one
// minted for the caller by MediaService.AvatarUploadURL.
func (s *UserService) SetAvatar(ctx context.Context, caller *auth.Principal, key string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: empty avatar key", common.ErrorValidation)
	}
	if !strings.HasPrefix(key, avatarKeyPrefix(caller.UserID)) {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Users().UpdateImage(ctx, caller.UserID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating avatar: %w", err)
	}
	return nil
}
