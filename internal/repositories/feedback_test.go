package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-feedback/internal/models"
)

var feedbackColumns = []string{"id", "title", "content", "username"}

func TestFeedbackReadRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(feedbackColumns).AddRow(3, "t", "c", "alice"))

		fb, err := NewFeedbackReadRepository(db, nil).GetByID(context.Background(), 3)

		assert.NoError(t, err)
		assert.Equal(t, &models.FeedbackDB{ID: 3, Title: "t", Content: "c", Username: "alice"}, fb)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(feedbackColumns))

		fb, err := NewFeedbackReadRepository(db, nil).GetByID(context.Background(), 3)

		assert.NoError(t, err)
		assert.Nil(t, fb)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
			WithArgs(int64(3)).
			WillReturnError(errors.New("boom"))

		fb, err := NewFeedbackReadRepository(db, nil).GetByID(context.Background(), 3)

		assert.Error(t, err)
		assert.Nil(t, fb)
	})
}

func TestFeedbackReadRepository_ListByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(feedbackColumns).
			AddRow(1, "first", "one", "alice").
			AddRow(2, "second", "two", "alice"))

	items, err := NewFeedbackReadRepository(db, nil).ListByUsername(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, []models.FeedbackDB{
		{ID: 1, Title: "first", Content: "one", Username: "alice"},
		{ID: 2, Title: "second", Content: "two", Username: "alice"},
	}, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackWriteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO feedback")).
			WithArgs("t", "c", "alice").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		id, err := NewFeedbackWriteRepository(db, nil).Save(ctx, &models.FeedbackDB{Title: "t", Content: "c", Username: "alice"})

		assert.NoError(t, err)
		assert.Equal(t, int64(11), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE feedback")).
			WithArgs("new title", "new content", int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewFeedbackWriteRepository(db, nil).Update(ctx, &models.FeedbackDB{ID: 11, Title: "new title", Content: "new content"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback WHERE id = $1")).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewFeedbackWriteRepository(db, nil).Delete(ctx, 11)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete by username", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback WHERE username = $1")).
			WithArgs("alice").
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := NewFeedbackWriteRepository(db, nil).DeleteByUsername(ctx, "alice")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback")).
			WithArgs(int64(11)).
			WillReturnError(errors.New("boom"))

		err := NewFeedbackWriteRepository(db, nil).Delete(ctx, 11)

		assert.Error(t, err)
	})
}
