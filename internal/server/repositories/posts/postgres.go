// Package posts provides post storage backed by PostgreSQL, MongoDB or
// process memory.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/dbx"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// PostgresRepository keeps posts in the posts table and likers in
// post_likes. It needs a *sql.DB because ToggleLike opens its own
// transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (id, body, category, auth_user_id, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Body, string(post.Category), post.AuthUserID, post.Image, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if post.LikedIDs == nil {
		post.LikedIDs = []string{}
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT id, body, category, auth_user_id, image, created_at, updated_at FROM posts
		 WHERE id = $1
		 `

	var (
		post  models.Post
		image sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Body, &post.Category, &post.AuthUserID, &image, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if image.Valid {
		post.Image = &image.String
	}

	likers, err := r.likers(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	post.LikedIDs = likers

	return &post, nil
}

func (r *PostgresRepository) likers(ctx context.Context, db dbx.DBTX, postID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// List pages the newest posts and joins their likers in one round trip.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	query :=
		`SELECT p.id, p.body, p.category, p.auth_user_id, p.image, p.created_at, p.updated_at, l.user_id
		 FROM (SELECT * FROM posts ORDER BY created_at DESC, id LIMIT $1) p
		 LEFT JOIN post_likes l ON l.post_id = p.id
		 ORDER BY p.created_at DESC, p.id, l.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var (
		result []*models.Post
		last   *models.Post
	)
	for rows.Next() {
		var (
			p     models.Post
			image sql.NullString
			liker sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Body, &p.Category, &p.AuthUserID, &image,
			&p.CreatedAt, &p.UpdatedAt, &liker); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if last == nil || last.ID != p.ID {
			if image.Valid {
				p.Image = &image.String
			}
			p.LikedIDs = []string{}
			last = &p
			result = append(result, last)
		}
		if liker.Valid {
			last.LikedIDs = append(last.LikedIDs, liker.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// ToggleLike locks the post row, then removes the like if present or
// inserts it otherwise. Concurrent toggles on the same post serialize on
// the row lock.
func (r *PostgresRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := dbx.LockRows(ctx, tx, 1, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID)
		if err != nil {
			return err
		}

		liked, err = dbx.ToggleRow(ctx, tx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`,
			postID, userID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET updated_at = now() WHERE id = $1`, postID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

// Delete removes the post; its likes go with it through the foreign key.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
