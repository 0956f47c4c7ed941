package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/services"
)

func TestFeedbackService_AddFeedback(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := services.NewMockFeedbackReader(ctrl)
	writer := services.NewMockFeedbackWriter(ctrl)
	kw := services.NewMockKafkaWriter(ctrl)

	writer.EXPECT().
		Save(gomock.Any(), &models.FeedbackDB{Title: "t", Content: "c", Username: "alice"}).
		Return(int64(9), nil)
	kw.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.Equal(t, []byte("alice"), msgs[0].Key)

			var event models.Event
			require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.Equal(t, models.OperationFeedbackCreated, event.Operation)
			assert.Equal(t, "alice", event.Username)
			assert.Equal(t, int64(9), event.FeedbackID)
			assert.NotEmpty(t, event.EventID)
			return nil
		})

	svc := services.NewFeedbackService(reader, writer, kw)

	id, err := svc.AddFeedback(context.Background(), "alice", models.FeedbackForm{Title: "t", Content: "c"})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestFeedbackService_AddFeedback_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := services.NewMockFeedbackReader(ctrl)
	writer := services.NewMockFeedbackWriter(ctrl)

	writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))

	svc := services.NewFeedbackService(reader, writer, nil)

	_, err := svc.AddFeedback(context.Background(), "alice", models.FeedbackForm{Title: "t", Content: "c"})
	assert.EqualError(t, err, "db error")
}

func TestFeedbackService_OwnershipIsEnforced(t *testing.T) {
	bobs := &models.FeedbackDB{ID: 2, Title: "bob's", Content: "note", Username: "bob"}
	form := models.FeedbackForm{Title: "hacked", Content: "hacked"}

	tests := []struct {
		name string
		call func(svc *services.FeedbackService) error
	}{
		{
			name: "get",
			call: func(svc *services.FeedbackService) error {
				_, err := svc.GetOwnedFeedback(context.Background(), "alice", 2)
				return err
			},
		},
		{
			name: "update",
			call: func(svc *services.FeedbackService) error {
				return svc.UpdateFeedback(context.Background(), "alice", 2, form)
			},
		},
		{
			name: "delete",
			call: func(svc *services.FeedbackService) error {
				return svc.DeleteFeedback(context.Background(), "alice", 2)
			},
		},
	}

	for _, tt := range tests {
		for _, existing := range []*models.FeedbackDB{bobs, nil} {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				reader := services.NewMockFeedbackReader(ctrl)
				// The writer has no expectations: any write fails the test.
				writer := services.NewMockFeedbackWriter(ctrl)

				reader.EXPECT().GetByID(gomock.Any(), int64(2)).Return(existing, nil)

				svc := services.NewFeedbackService(reader, writer, nil)
				assert.ErrorIs(t, tt.call(svc), services.ErrFeedbackNotFound)
			})
		}
	}
}

func TestFeedbackService_UpdateFeedback(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := services.NewMockFeedbackReader(ctrl)
	writer := services.NewMockFeedbackWriter(ctrl)

	reader.EXPECT().GetByID(gomock.Any(), int64(1)).
		Return(&models.FeedbackDB{ID: 1, Title: "old", Content: "old", Username: "alice"}, nil)
	writer.EXPECT().Update(gomock.Any(), &models.FeedbackDB{ID: 1, Title: "new", Content: "body", Username: "alice"}).
		Return(nil)

	svc := services.NewFeedbackService(reader, writer, nil)

	err := svc.UpdateFeedback(context.Background(), "alice", 1, models.FeedbackForm{Title: "new", Content: "body"})
	assert.NoError(t, err)
}

func TestFeedbackService_DeleteFeedback(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := services.NewMockFeedbackReader(ctrl)
		writer := services.NewMockFeedbackWriter(ctrl)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(&models.FeedbackDB{ID: 1, Username: "alice"}, nil)
		writer.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

		svc := services.NewFeedbackService(reader, writer, nil)
		assert.NoError(t, svc.DeleteFeedback(context.Background(), "alice", 1))
	})

	t.Run("reader error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := services.NewMockFeedbackReader(ctrl)
		writer := services.NewMockFeedbackWriter(ctrl)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))

		svc := services.NewFeedbackService(reader, writer, nil)
		err := svc.DeleteFeedback(context.Background(), "alice", 1)
		assert.EqualError(t, err, "db error")
		assert.NotErrorIs(t, err, services.ErrFeedbackNotFound)
	})
}
