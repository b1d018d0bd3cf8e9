package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

const Channel = "planner:notices"

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*RedisNotifier)(nil)
	_ domain.Notifier = (Multi)(nil)
)

// LogNotifier writes notices to the log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notice")}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.log.Info(message)
}

type Notice struct {
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// RedisNotifier publishes notices for any subscribed UI.
type RedisNotifier struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewRedisNotifier(rdb *redis.Client, log *logger.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, log: log.Named("notice")}
}

func (n *RedisNotifier) Notify(ctx context.Context, message string) {
	payload, err := json.Marshal(Notice{Message: message, SentAt: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		n.log.Warn("failed to publish notice", zap.String("channel", Channel), zap.Error(err))
	}
}

// Multi fans a notice out to every notifier.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, message string) {
	for _, n := range m {
		n.Notify(ctx, message)
	}
}

// Recorder keeps notices in memory, e.g. to print them after a CLI command.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
