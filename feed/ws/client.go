// Package ws streams level-1 quotes from a JSON websocket feed.
//
// One message carries one quote:
//
//	{"symbol":"BTCUSD","time":"2024-01-02T09:00:00Z","bid":42000.5,"ask":42001,"last":42000.8,"volume":0.3}
//
// A missing time is stamped with the receive time.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/evdnx/stratbook/logger"
	"github.com/evdnx/stratbook/metrics"
	"github.com/evdnx/stratbook/types"
	"github.com/gorilla/websocket"
)

var ErrNoURL = errors.New("ws feed: empty url")

type Config struct {
	URL string

	// ReconnectDelay is the first back-off step. Defaults to 2s.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the back-off. Defaults to 30s.
	MaxReconnectDelay time.Duration
}

func (c *Config) defaults() {
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
}

// Client connects to the feed and reconnects until its context ends.
type Client struct {
	cfg Config
	log logger.Logger

	// OnReconnect is called before every reconnect wait.
	OnReconnect func(err error, delay time.Duration)
}

func New(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	cfg.defaults()
	return &Client{cfg: cfg, log: logger.With(log, logger.String("feed", cfg.URL))}, nil
}

// Run streams quotes into out and blocks until ctx is cancelled. A full
// channel drops the quote.
func (c *Client) Run(ctx context.Context, out chan<- types.Quote) error {
	delay := c.cfg.ReconnectDelay
	for {
		if ctx.Err() != nil {
			return nil
		}
		connected, err := c.runOnce(ctx, out)
		if err == nil {
			return nil
		}
		if connected {
			delay = c.cfg.ReconnectDelay
		}
		c.log.Warn("feed_disconnected", logger.Err(err), logger.Duration("retry_in", delay))
		if c.OnReconnect != nil {
			c.OnReconnect(err, delay)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.cfg.MaxReconnectDelay {
			delay = c.cfg.MaxReconnectDelay
		}
	}
}

// runOnce reads one connection until it fails. A nil error means ctx ended.
func (c *Client) runOnce(ctx context.Context, out chan<- types.Quote) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, err
	}
	defer conn.Close()
	c.log.Info("feed_connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return true, err
		}
		q, ok := c.decode(raw)
		if !ok {
			continue
		}
		select {
		case out <- q:
		default:
			metrics.QuotesDropped.Inc()
			c.log.Debug("quote_dropped", logger.String("symbol", q.Symbol))
		}
	}
}

func (c *Client) decode(raw []byte) (types.Quote, bool) {
	var q types.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		c.log.Warn("quote_parse_failed", logger.Err(err), logger.String("raw", string(raw)))
		return q, false
	}
	if q.Symbol == "" || q.Price() <= 0 {
		c.log.Debug("quote_skipped", logger.String("raw", string(raw)))
		return q, false
	}
	if q.Time.IsZero() {
		q.Time = time.Now().UTC()
	}
	return q, true
}
