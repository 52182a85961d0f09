/*
Package notify forwards committed treasury events to external listeners.
*/
package notify

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/go-redis/redis"
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Publisher is the subset of the redis client used by the sink.
type Publisher interface {
	Publish(channel string, message interface{}) *redis.IntCmd
}

var _ Publisher = (*redis.Client)(nil)

// RedisSink publishes every committed event as a JSON message to a redis
// channel.
type RedisSink struct {
	client  Publisher
	channel string
}

var _ treasury.EventSink = (*RedisSink)(nil)

// NewRedisSink returns a sink publishing to given channel.
func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// Dial connects to the redis server at given address.
func Dial(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(errors.ErrState, "redis %s: %s", addr, err)
	}
	return client, nil
}

// Message is the payload of a published event.
type Message struct {
	Type  string          `json:"type"`
	TxID  string          `json:"tx_id,omitempty"`
	Event json.RawMessage `json:"event"`
}

// Publish implements treasury.EventSink. Publishing stops at the first
// failure.
func (s *RedisSink) Publish(ctx treasury.Context, events []treasury.Event) error {
	txID := strings.ToUpper(hex.EncodeToString(treasury.GetTxID(ctx)))
	for _, e := range events {
		raw, err := json.Marshal(e)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "encode %s: %s", e.EventType(), err)
		}
		payload, err := json.Marshal(Message{Type: e.EventType(), TxID: txID, Event: raw})
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "encode %s: %s", e.EventType(), err)
		}
		if err := s.client.Publish(s.channel, payload).Err(); err != nil {
			return errors.Wrapf(errors.ErrState, "publish %s: %s", e.EventType(), err)
		}
	}
	return nil
}
