package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evdnx/stratbook/types"
	goredis "github.com/go-redis/redis/v8"
)

const defaultMaxLen = 100000

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	// MaxLen caps the stream (approximate trimming). Defaults to 100000.
	MaxLen int64
}

// RedisJournal appends trades to a Redis stream as {"data": <trade json>}.
type RedisJournal struct {
	client *goredis.Client
	stream string
	maxLen int64
}

// NewRedisJournal connects and pings the server.
func NewRedisJournal(cfg RedisConfig) (*RedisJournal, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = defaultMaxLen
	}
	return &RedisJournal{client: client, stream: cfg.Stream, maxLen: cfg.MaxLen}, nil
}

func (j *RedisJournal) Record(ctx context.Context, tr types.Trade) error {
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	return j.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: j.stream,
		MaxLen: j.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":     data,
			"strategy": tr.Strategy,
		},
	}).Err()
}

// Recent returns up to n trades, newest first.
func (j *RedisJournal) Recent(ctx context.Context, n int64) ([]types.Trade, error) {
	msgs, err := j.client.XRevRangeN(ctx, j.stream, "+", "-", n).Result()
	if err != nil {
		return nil, err
	}
	out := make([]types.Trade, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["data"].(string)
		if !ok {
			continue
		}
		var tr types.Trade
		if err := json.Unmarshal([]byte(raw), &tr); err != nil {
			return nil, fmt.Errorf("decode %s: %w", m.ID, err)
		}
		out = append(out, tr)
	}
	return out, nil
}

func (j *RedisJournal) Close() error { return j.client.Close() }
