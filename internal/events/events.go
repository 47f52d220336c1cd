package events

import "context"

// Redis pub/sub channel carrying campaign activity.
const ChannelCampaign = "events:campaign"

// Event types
const (
	EventCampaignCreated = "campaign_created"
	EventDonated         = "donated"
	EventFundsReleased   = "funds_released"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}
