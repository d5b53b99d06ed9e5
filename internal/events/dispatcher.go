package events

import (
	"context"
	"encoding/json"
	"fmt"

	"ipl-prediction-backend/internal/models"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// NotificationDispatcher turns settlement events into per-user notifications.
type NotificationDispatcher struct {
	store *repository.Store
}

func NewNotificationDispatcher(store *repository.Store) *NotificationDispatcher {
	return &NotificationDispatcher{store: store}
}

func (d *NotificationDispatcher) HandlePollSettled(msg *message.Message) error {
	var event PollSettled
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.WithError(err).WithField("message_uuid", msg.UUID).Error("dropping malformed poll settled event")
		return nil
	}
	return d.Deliver(context.Background(), event)
}

// Deliver writes one POLL_SETTLED notification per voter. Voters that already hold
// one for the poll are skipped, so redelivery is harmless.
func (d *NotificationDispatcher) Deliver(ctx context.Context, event PollSettled) error {
	already, err := d.store.Notifications.RecipientsForPoll(ctx, event.PollID, models.NotificationPollSettled)
	if err != nil {
		return err
	}
	skip := make(map[uint]bool, len(already))
	for _, id := range already {
		skip[id] = true
	}

	pollID := event.PollID
	matchID := event.MatchID
	text := fmt.Sprintf("Results are in for %q. Check the leaderboard to see your points.", event.Question)

	notifications := make([]models.Notification, 0, len(event.VoterIDs))
	for _, userID := range event.VoterIDs {
		if skip[userID] {
			continue
		}
		skip[userID] = true
		notifications = append(notifications, models.Notification{
			UserID:  userID,
			Type:    models.NotificationPollSettled,
			Message: text,
			PollID:  &pollID,
			MatchID: &matchID,
		})
	}

	if err := d.store.Notifications.CreateBatch(ctx, notifications); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"poll_id":       event.PollID,
		"notifications": len(notifications),
	}).Info("settlement notifications delivered")
	return nil
}
