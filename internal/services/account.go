package services

import (
	"context"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
)

// AccountService reads profiles and deletes accounts.
type AccountService struct {
	userReader     UserReader
	userWriter     UserWriter
	feedbackReader FeedbackReader
	feedbackWriter FeedbackWriter
	kafkaWriter    KafkaWriter
}

// NewAccountService creates a new AccountService. kafkaWriter may be nil.
func NewAccountService(
	userReader UserReader,
	userWriter UserWriter,
	feedbackReader FeedbackReader,
	feedbackWriter FeedbackWriter,
	kafkaWriter KafkaWriter,
) *AccountService {
	return &AccountService{
		userReader:     userReader,
		userWriter:     userWriter,
		feedbackReader: feedbackReader,
		feedbackWriter: feedbackWriter,
		kafkaWriter:    kafkaWriter,
	}
}

// GetProfile returns the user and all of their feedback.
func (s *AccountService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.userReader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	items, err := s.feedbackReader.ListByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to list feedback", "username", username, "error", err)
		return nil, err
	}

	return &models.Profile{User: user, Feedback: items}, nil
}

// DeleteAccount removes the user's feedback and then the user.
func (s *AccountService) DeleteAccount(ctx context.Context, username string) error {
	removed, err := s.feedbackWriter.DeleteByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to delete feedback", "username", username, "error", err)
		return err
	}

	n, err := s.userWriter.Delete(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "username", username, "error", err)
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}

	logger.Log.Infow("account deleted", "username", username, "feedback_removed", removed)
	publishEvent(ctx, s.kafkaWriter, models.OperationUserDeleted, username, 0)

	return nil
}
