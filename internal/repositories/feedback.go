package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-feedback/internal/models"
)

// FeedbackReadRepository handles feedback read operations
type FeedbackReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewFeedbackReadRepository(db *sqlx.DB, txGetter TxGetter) *FeedbackReadRepository {
	return &FeedbackReadRepository{db: db, txGetter: txGetter}
}

// GetByID returns the feedback entry with the given ID, or nil when there is none.
func (r *FeedbackReadRepository) GetByID(ctx context.Context, id int64) (*models.FeedbackDB, error) {
	const query = `
		SELECT id, title, content, username
		FROM feedback
		WHERE id = $1
	`

	var fb models.FeedbackDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &fb, query, id)

	logQuery(query, []any{id}, fb, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &fb, nil
}

// ListByUsername returns all feedback owned by username, oldest first.
func (r *FeedbackReadRepository) ListByUsername(ctx context.Context, username string) ([]models.FeedbackDB, error) {
	const query = `
		SELECT id, title, content, username
		FROM feedback
		WHERE username = $1
		ORDER BY id
	`

	var items []models.FeedbackDB
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &items, query, username)

	logQuery(query, []any{username}, len(items), err)

	if err != nil {
		return nil, err
	}
	return items, nil
}

// FeedbackWriteRepository handles feedback write operations
type FeedbackWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewFeedbackWriteRepository(db *sqlx.DB, txGetter TxGetter) *FeedbackWriteRepository {
	return &FeedbackWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts fb and returns the generated ID.
func (r *FeedbackWriteRepository) Save(ctx context.Context, fb *models.FeedbackDB) (int64, error) {
	const query = `
		INSERT INTO feedback (title, content, username)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	args := []any{fb.Title, fb.Content, fb.Username}

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, args...)

	logQuery(query, args, id, err)

	return id, err
}

// Update overwrites title and content of the feedback entry fb.ID.
func (r *FeedbackWriteRepository) Update(ctx context.Context, fb *models.FeedbackDB) error {
	const query = `
		UPDATE feedback
		SET title = $1, content = $2
		WHERE id = $3
	`

	_, err := r.exec(ctx, query, fb.Title, fb.Content, fb.ID)
	return err
}

// Delete removes the feedback entry with the given ID.
func (r *FeedbackWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM feedback WHERE id = $1`

	_, err := r.exec(ctx, query, id)
	return err
}

// DeleteByUsername removes every feedback entry owned by username and
// reports how many were deleted.
func (r *FeedbackWriteRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	const query = `DELETE FROM feedback WHERE username = $1`

	return r.exec(ctx, query, username)
}

func (r *FeedbackWriteRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, args, rowsAffected, err)

	return rowsAffected, err
}
