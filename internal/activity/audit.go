package activity

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditLog writes every stream entry to the audit log. Malformed entries are
// logged and acknowledged so they do not block the group.
type AuditLog struct {
	log zerolog.Logger
}

func NewAuditLog(log zerolog.Logger) AuditLog {
	return AuditLog{log: log}
}

func (a AuditLog) Handle(_ context.Context, msg redis.XMessage) error {
	entry, err := DecodeEntry(msg.Values)
	if err != nil {
		a.log.Warn().Err(err).Str("message_id", msg.ID).Msg("skipping malformed activity entry")
		return nil
	}
	entry.StreamID = msg.ID

	a.log.Info().
		Str("type", entry.Type).
		Str("id", entry.ID).
		Str("actor", entry.Actor).
		Time("at", entry.At).
		Str("stream_id", entry.StreamID).
		Msg("activity")
	return nil
}
