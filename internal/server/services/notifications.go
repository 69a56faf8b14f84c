package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
)

const notificationPageSize = 50

// NotificationService lets recipients read and dismiss their notifications.
type NotificationService struct {
	repomanager repomanager.RepositoryManager
	views       views.Invalidator
	logger      logging.Logger
}

func NewNotificationService(m repomanager.RepositoryManager, inv views.Invalidator, logger logging.Logger) *NotificationService {
	return &NotificationService{
		repomanager: m,
		views:       inv,
		logger:      logger.With("module", "notifications"),
	}
}

// DeleteNotification removes a notification. Only its recipient may do so.
func (s *NotificationService) DeleteNotification(ctx context.Context, caller *auth.Principal, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	repo := s.repomanager.Notifications()
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("error loading notification: %w", err)
	}
	if n.AuthUserID != caller.UserID {
		return common.ErrorUnauthorized
	}

	if err := repo.Delete(ctx, n.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("error deleting notification: %w", err)
	}

	invalidate(ctx, s.views, views.Notifications, s.logger)
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, caller *auth.Principal) ([]*models.Notification, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	list, err := s.repomanager.Notifications().ListByRecipient(ctx, caller.UserID, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	if list == nil {
		list = []*models.Notification{}
	}
	return list, nil
}
