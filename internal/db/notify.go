package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"intellicare/internal/logging"
)

// Notifier announces new archive rows over postgres LISTEN/NOTIFY so a
// review dashboard can pick up completed assessments without polling.
type Notifier struct {
	DB      *sql.DB
	Channel string
	log     *zap.Logger
}

// NewNotifier constructs a Notifier. The channel should match the
// POSTGRES_NOTIFY_CHANNEL environment variable on the consumer side.
func NewNotifier(db *sql.DB, channel string) *Notifier {
	return &Notifier{DB: db, Channel: channel, log: logging.With(zap.String("component", "db-notify"))}
}

// Notify publishes an assessment ID to the channel.
func (n *Notifier) Notify(ctx context.Context, assessmentID string) error {
	_, err := n.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.Channel, assessmentID)
	return err
}

// Listen yields assessment IDs as they arrive on the channel. It opens a
// dedicated listener connection from the DSN and closes it when the
// context is cancelled.
func (n *Notifier) Listen(ctx context.Context, dsn string) (<-chan string, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			n.log.Warn("listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	if err := listener.Listen(n.Channel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	ch := make(chan string)
	go func() {
		defer func() {
			_ = listener.Close()
			close(ch)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-listener.Notify:
				if !ok {
					return
				}
				if notification == nil {
					// reconnect marker from the driver
					continue
				}
				select {
				case ch <- notification.Extra:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
