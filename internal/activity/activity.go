// Package activity appends a record of every administrative change to a Redis
// stream for downstream consumers.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	NoticeCreated = "notice.created"
	NoticeUpdated = "notice.updated"
	NoticeDeleted = "notice.deleted"
	EventCreated  = "event.created"
	EventUpdated  = "event.updated"
	EventDeleted  = "event.deleted"
	UserPromoted  = "user.promoted"
	UserDemoted   = "user.demoted"
	UserDeleted   = "user.deleted"
	UserSignedUp  = "user.signedup"
)

type Entry struct {
	Type  string
	ID    string
	Actor string
	At    time.Time
	// StreamID is set on entries read back from the stream.
	StreamID string
}

// Publisher records entries. Publishing never fails the caller's operation.
type Publisher interface {
	Publish(ctx context.Context, entry Entry)
}

type Nop struct{}

func (Nop) Publish(context.Context, Entry) {}

type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    zerolog.Logger
}

func NewRedisPublisher(client *redis.Client, stream string, maxLen int64, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		log:    log,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, entry Entry) {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":  entry.Type,
			"id":    entry.ID,
			"actor": entry.Actor,
			"at":    entry.At.UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		p.log.Warn().Err(err).Str("type", entry.Type).Str("id", entry.ID).Msg("publish activity failed")
	}
}

// Trim caps the stream at the configured length.
func (p *RedisPublisher) Trim(ctx context.Context) (int64, error) {
	return p.client.XTrimMaxLenApprox(ctx, p.stream, p.maxLen, 0).Result()
}

// DecodeEntry reads an entry back from stream values written by Publish.
func DecodeEntry(values map[string]any) (Entry, error) {
	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}

	entry := Entry{Type: str("type"), ID: str("id"), Actor: str("actor")}
	if entry.Type == "" {
		return Entry{}, errors.New("activity entry without type")
	}
	if raw := str("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Entry{}, fmt.Errorf("activity entry time: %w", err)
		}
		entry.At = at
	}
	return entry, nil
}
