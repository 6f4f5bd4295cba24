package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Channel naming for the real-time broadcast layer. The governance channel is
// the shared oversight topic; officer and user channels are keyed by id.
const (
	GovernanceChannel = "governance-channel"
	IntakeStream      = "grievance:intake"
)

// OfficerChannel returns the per-handler topic name.
func OfficerChannel(officerID string) string {
	return "officer-" + officerID
}

// UserChannel returns the per-user topic name.
func UserChannel(userID string) string {
	return "user-" + userID
}

// RealtimePublisher pushes payloads onto named broadcast channels and the
// intake processing stream.
type RealtimePublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	AppendIntake(ctx context.Context, fields map[string]any) error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps a redis client as the realtime broadcast channel.
func NewRedisPublisher(client *redis.Client) RealtimePublisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, channel, data).Err()
}

// AppendIntake records a fire-and-forget intake event for any downstream
// processing pipeline listening on the stream.
func (p *redisPublisher) AppendIntake(ctx context.Context, fields map[string]any) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: IntakeStream,
		Values: fields,
	}).Err()
}
