package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type Publisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// PublishPollSettled does not carry ctx into the message: delivery outlives the
// request that triggered it.
func (p *Publisher) PublishPollSettled(ctx context.Context, event PollSettled) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode poll settled event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("poll_id", strconv.FormatUint(uint64(event.PollID), 10))

	if err := p.pub.Publish(TopicPollSettled, msg); err != nil {
		return fmt.Errorf("failed to publish poll settled event: %w", err)
	}
	return nil
}
