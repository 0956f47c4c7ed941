package services

import (
	"context"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
	"github.com/sbilibin2017/gw-feedback/internal/models"
)

// FeedbackService manages feedback entries on behalf of their owner.
//
// Every lookup by ID is scoped to the acting user: an entry owned by someone
// else is reported as ErrFeedbackNotFound, exactly like a missing one.
type FeedbackService struct {
	reader      FeedbackReader
	writer      FeedbackWriter
	kafkaWriter KafkaWriter
}

// NewFeedbackService creates a new FeedbackService. kafkaWriter may be nil.
func NewFeedbackService(reader FeedbackReader, writer FeedbackWriter, kafkaWriter KafkaWriter) *FeedbackService {
	return &FeedbackService{
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// AddFeedback stores a new entry owned by username.
func (s *FeedbackService) AddFeedback(ctx context.Context, username string, form models.FeedbackForm) (int64, error) {
	id, err := s.writer.Save(ctx, &models.FeedbackDB{
		Title:    form.Title,
		Content:  form.Content,
		Username: username,
	})
	if err != nil {
		logger.Log.Errorw("failed to save feedback", "username", username, "error", err)
		return 0, err
	}

	publishEvent(ctx, s.kafkaWriter, models.OperationFeedbackCreated, username, id)
	return id, nil
}

// GetOwnedFeedback returns entry id if actor owns it.
func (s *FeedbackService) GetOwnedFeedback(ctx context.Context, actor string, id int64) (*models.FeedbackDB, error) {
	fb, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get feedback", "id", id, "error", err)
		return nil, err
	}
	if fb == nil {
		return nil, ErrFeedbackNotFound
	}
	if fb.Username != actor {
		logger.Log.Warnw("feedback owned by another user", "id", id, "actor", actor)
		return nil, ErrFeedbackNotFound
	}
	return fb, nil
}

// UpdateFeedback replaces title and content of entry id owned by actor.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, actor string, id int64, form models.FeedbackForm) error {
	fb, err := s.GetOwnedFeedback(ctx, actor, id)
	if err != nil {
		return err
	}

	fb.Title = form.Title
	fb.Content = form.Content
	if err := s.writer.Update(ctx, fb); err != nil {
		logger.Log.Errorw("failed to update feedback", "id", id, "error", err)
		return err
	}

	publishEvent(ctx, s.kafkaWriter, models.OperationFeedbackUpdated, actor, id)
	return nil
}

// DeleteFeedback removes entry id owned by actor.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, actor string, id int64) error {
	if _, err := s.GetOwnedFeedback(ctx, actor, id); err != nil {
		return err
	}

	if err := s.writer.Delete(ctx, id); err != nil {
		logger.Log.Errorw("failed to delete feedback", "id", id, "error", err)
		return err
	}

	publishEvent(ctx, s.kafkaWriter, models.OperationFeedbackDeleted, actor, id)
	return nil
}
