// Package users provides user profile and follow graph storage backed by
// PostgreSQL, MongoDB or process memory.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/dbx"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// PostgresRepository keeps profiles in users and the follow graph in
// follows. ToggleFollow opens its own transaction, hence *sql.DB.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a user keyed by the identity provider's id. An existing id
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, username, email, image, bio, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Username, user.Email, user.Image, user.Bio, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorAlreadyExists
	}

	return user, nil
}

// GetByID loads a user together with the ids they follow.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, username, email, image, bio, follower_count, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Username, &user.Email, &user.Image, &user.Bio,
		&user.FollowerCount, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	user.FollowingIDs = []string{}
	for rows.Next() {
		var followee string
		if err := rows.Scan(&followee); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		user.FollowingIDs = append(user.FollowingIDs, followee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// ListOthers returns up to limit users other than excludeID, most followed
// first. FollowingIDs is not loaded.
func (r *PostgresRepository) ListOthers(ctx context.Context, excludeID string, limit int) ([]*models.User, error) {
	query :=
		`SELECT id, name, username, email, image, bio, follower_count, created_at FROM users
		 WHERE id <> $1
		 ORDER BY follower_count DESC, created_at
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Image, &u.Bio,
			&u.FollowerCount, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// ToggleFollow locks both user rows in id order, flips the edge in follows
// and moves the target's follower_count in the same transaction. Toggles
// touching the same pair serialize on the row locks.
func (r *PostgresRepository) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	var following bool

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := dbx.LockRows(ctx, tx, 2,
			`SELECT id FROM users WHERE id IN ($1, $2) ORDER BY id FOR UPDATE`, followerID, targetID)
		if err != nil {
			return err
		}

		following, err = dbx.ToggleRow(ctx, tx,
			`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
			`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`,
			followerID, targetID)
		if err != nil {
			return err
		}

		delta := int64(-1)
		if following {
			delta = 1
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET follower_count = GREATEST(follower_count + $2, 0) WHERE id = $1`, targetID, delta)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return following, nil
}

func (r *PostgresRepository) execChanged(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// AdjustFollowerCount adds delta to the follower count, clamped at zero.
func (r *PostgresRepository) AdjustFollowerCount(ctx context.Context, id string, delta int64) error {
	query :=
		`UPDATE users SET follower_count = GREATEST(follower_count + $2, 0)
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, delta)
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, id, image string) error {
	query :=
		`UPDATE users SET image = $2
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, id, image)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	changed, err := r.execChanged(ctx, query, args...)
	if err != nil {
		return err
	}
	if !changed {
		return common.ErrorNotFound
	}
	return nil
}
