package services

import (
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
)

// Each satisfies errors.Is(err, common.ErrorNotFound) or
// errors.Is(err, common.ErrorValidation) but stays distinguishable from the others.
var (
	ErrPostNotFound         = fmt.Errorf("post %w", common.ErrorNotFound)
	ErrPostOwnerNotFound    = fmt.Errorf("post owner %w", common.ErrorNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", common.ErrorNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", common.ErrorNotFound)

	ErrInvalidCategory = fmt.Errorf("%w: unknown category", common.ErrorValidation)
	ErrSelfFollow      = fmt.Errorf("%w: cannot follow yourself", common.ErrorValidation)
)

func requireCaller(caller *auth.Principal) error {
	if caller == nil || caller.UserID == "" {
		return common.ErrorUnauthenticated
	}
	return nil
}
