package notify

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultStream = "canvass:notifications"
	// Cap the stream so an idle consumer cannot grow it without bound.
	defaultMaxLen = 100_000
)

// RedisDispatcher publishes notifications onto a Redis stream for the
// delivery workers (SMS/email senders) to consume. Plaintext passwords are
// never written to the stream; delivery workers re-derive a reset link.
type RedisDispatcher struct {
	client *goredis.Client
	stream string
}

func NewRedisDispatcher(client *goredis.Client, stream string) *RedisDispatcher {
	if stream == "" {
		stream = defaultStream
	}
	return &RedisDispatcher{client: client, stream: stream}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, n Notification) error {
	values := map[string]any{
		"kind":      string(n.Kind),
		"recipient": n.Recipient,
		"phone":     n.Phone,
		"email":     n.Email,
	}
	for k, v := range n.Meta {
		values["meta:"+k] = v
	}

	err := d.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: d.stream,
		MaxLen: defaultMaxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
