package services

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-feedback/internal/models"
)

//go:generate mockgen -source=services.go -destination=services_mock.go -package=services

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrFeedbackNotFound   = errors.New("feedback not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) (int64, error)
	Delete(ctx context.Context, username string) (int64, error)
}

// FeedbackReader defines read-only operations for feedback.
type FeedbackReader interface {
	GetByID(ctx context.Context, id int64) (*models.FeedbackDB, error)
	ListByUsername(ctx context.Context, username string) ([]models.FeedbackDB, error)
}

// FeedbackWriter defines write operations for feedback.
type FeedbackWriter interface {
	Save(ctx context.Context, fb *models.FeedbackDB) (int64, error)
	Update(ctx context.Context, fb *models.FeedbackDB) error
	Delete(ctx context.Context, id int64) error
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}
