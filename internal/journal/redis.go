// internal/journal/redis.go
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list bot activity is pushed onto.
const DefaultQueueName = "palace_bot_actions"

// RedisJournal pushes entries onto a Redis list for an offline consumer.
type RedisJournal struct {
	client *redis.Client
	queue  string
	log    *logrus.Entry
}

// NewRedis connects a journal to Redis and verifies the connection with a
// ping. An empty queue name selects DefaultQueueName.
func NewRedis(addr string, db int, queue string, logger *logrus.Logger) (*RedisJournal, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisJournal{
		client: client,
		queue:  queue,
		log:    logger.WithField("component", "journal"),
	}, nil
}

// Record serializes the entry and appends it to the queue. Failures are
// logged and swallowed so a flaky Redis never takes a bot down.
func (j *RedisJournal) Record(ctx context.Context, e Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		j.log.Warnf("failed to marshal journal entry %s/%s: %v", e.Bot, e.Event, err)
		return
	}
	if err := j.client.RPush(ctx, j.queue, data).Err(); err != nil {
		j.log.Warnf("failed to push journal entry %s/%s: %v", e.Bot, e.Event, err)
	}
}

// Close releases the Redis connection.
func (j *RedisJournal) Close() error {
	return j.client.Close()
}
