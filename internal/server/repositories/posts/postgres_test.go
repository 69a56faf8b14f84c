package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertPostQ = `(?s)^INSERT\s+INTO\s+posts\s*\(id,\s*body,\s*category,\s*auth_user_id,\s*image,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
	selectPostQ = `(?s)^SELECT\s+id,\s*body,\s*category,\s*auth_user_id,\s*image,\s*created_at,\s*updated_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`
	likersQ     = `(?s)^SELECT\s+user_id\s+FROM\s+post_likes\s+WHERE\s+post_id\s*=\s*\$1`
	listQ       = `(?s)^SELECT\s+p\.id,.*l\.user_id\s+FROM\s+\(SELECT\s+\*\s+FROM\s+posts.*LIMIT\s+\$1\)\s+p\s+LEFT\s+JOIN\s+post_likes\s+l`
	lockQ       = `(?s)^SELECT\s+id\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE$`
	unlikeQ     = `(?s)^DELETE\s+FROM\s+post_likes\s+WHERE\s+post_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	likeQ       = `(?s)^INSERT\s+INTO\s+post_likes\s*\(post_id,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2\)$`
	touchQ      = `(?s)^UPDATE\s+posts\s+SET\s+updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1$`
	deletePostQ = `(?s)^DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1$`
)

var postCols = []string{"id", "body", "category", "auth_user_id", "image", "created_at", "updated_at"}

func TestPostgresCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	img := "data:image/png;base64,AAA"
	p := &models.Post{ID: "p1", Body: "hi", Category: models.CategoryQuestion, AuthUserID: "u1",
		Image: &img, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(insertPostQ).
		WithArgs("p1", "hi", "QUESTION", "u1", img, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.LikedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_NilImage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertPostQ).
		WithArgs("p1", "hi", "GENERAL", "u1", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{ID: "p1", Body: "hi", Category: models.CategoryGeneral, AuthUserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(selectPostQ).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(postCols).AddRow("p1", "hi", "GENERAL", "u1", nil, now, now))
	mock.ExpectQuery(likersQ).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u2").AddRow("u3"))

	got, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGeneral, got.Category)
	assert.Nil(t, got.Image)
	assert.Equal(t, []string{"u2", "u3"}, got.LikedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectPostQ).WithArgs("p1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresList_GroupsLikers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	t1 := t2.Add(-time.Hour)
	cols := append(append([]string{}, postCols...), "user_id")
	mock.ExpectQuery(listQ).WithArgs(50).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p2", "b", "GENERAL", "u1", "img", t2, t2, "u7").
			AddRow("p2", "b", "GENERAL", "u1", "img", t2, t2, "u8").
			AddRow("p1", "a", "PROJECT", "u2", nil, t1, t1, nil))

	got, err := repo.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, []string{"u7", "u8"}, got[0].LikedIDs)
	require.NotNil(t, got[0].Image)
	assert.Equal(t, "img", *got[0].Image)

	assert.Equal(t, "p1", got[1].ID)
	assert.Equal(t, []string{}, got[1].LikedIDs)
	assert.Nil(t, got[1].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresToggleLike(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(m sqlmock.Sqlmock)
		wantLiked bool
		wantErr   error
		anyErr    bool
	}{
		{
			name: "adds like",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockQ).WithArgs("p1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
				m.ExpectExec(unlikeQ).WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectExec(likeQ).WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectExec(touchQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
			wantLiked: true,
		},
		{
			name: "removes like",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockQ).WithArgs("p1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
				m.ExpectExec(unlikeQ).WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectExec(touchQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
			wantLiked: false,
		},
		{
			name: "missing post rolls back",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockQ).WithArgs("p1").WillReturnRows(sqlmock.NewRows([]string{"id"}))
				m.ExpectRollback()
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "insert failure rolls back",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(lockQ).WithArgs("p1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
				m.ExpectExec(unlikeQ).WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectExec(likeQ).WithArgs("p1", "u1").WillReturnError(errors.New("fk violation"))
				m.ExpectRollback()
			},
			anyErr: true,
		},
		{
			name: "begin failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errors.New("no conn"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			liked, err := repo.ToggleLike(context.Background(), "p1", "u1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantLiked, liked)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deletePostQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deletePostQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
