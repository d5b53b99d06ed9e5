package events

import (
	"context"
	"time"

	"ipl-prediction-backend/internal/repository"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process message bus: a go-channel pub/sub plus the router that
// feeds the notification dispatcher.
type Bus struct {
	*Publisher
	pubSub *gochannel.GoChannel
	router *message.Router
}

func NewBus(store *repository.Store, log watermill.LoggerAdapter) (*Bus, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
		// Publish returns once the dispatcher has stored the notifications, so a
		// request drained during shutdown cannot lose them.
		BlockPublishUntilSubscriberAck: true,
	}, log)

	router, err := message.NewRouter(message.RouterConfig{}, log)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		dropAfterRetries(log),
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			Multiplier:      2,
			Logger:          log,
		}.Middleware,
		middleware.Recoverer,
	)

	dispatcher := NewNotificationDispatcher(store)
	router.AddNoPublisherHandler(
		"notify_poll_settled",
		TopicPollSettled,
		pubSub,
		dispatcher.HandlePollSettled,
	)

	return &Bus{
		Publisher: NewPublisher(pubSub),
		pubSub:    pubSub,
		router:    router,
	}, nil
}

// Start runs the router in the background and returns once its handlers are
// subscribed.
func (b *Bus) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.router.Run(ctx)
	}()

	select {
	case <-b.router.Running():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the router and the pub/sub. Callers close the bus only after the
// HTTP server has drained, since publishing to a closed bus is a silent no-op.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	return b.pubSub.Close()
}

// dropAfterRetries acks a message whose handler still fails after the retry
// middleware gave up; the go-channel pub/sub would otherwise redeliver it forever.
func dropAfterRetries(log watermill.LoggerAdapter) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil {
				log.Error("giving up on message", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"poll_id":      msg.Metadata.Get("poll_id"),
				})
				return nil, nil
			}
			return msgs, nil
		}
	}
}
