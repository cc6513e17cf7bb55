// internal/transport/client.go
package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const maxLine = 1 << 20

// Client is a reconnecting TCP client for one robot channel.
// Inbound data is split on the delimiter; outbound messages get it appended.
type Client struct {
	cfg     Config
	handler Handler
	log     logrus.FieldLogger

	mu   sync.Mutex
	conn net.Conn
}

func New(cfg Config, h Handler, log logrus.FieldLogger) (*Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: address required")
	}
	if cfg.Delimiter == "" {
		return nil, errors.New("transport: delimiter required")
	}
	if h == nil {
		return nil, errors.New("transport: handler required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	if cfg.ReconnectInitial <= 0 {
		cfg.ReconnectInitial = 500 * time.Millisecond
	}
	if cfg.ReconnectMax < cfg.ReconnectInitial {
		cfg.ReconnectMax = cfg.ReconnectInitial
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		cfg:     cfg,
		handler: h,
		log: log.WithFields(logrus.Fields{
			"component": "transport",
			"channel":   cfg.Channel.String(),
			"address":   cfg.Address,
		}),
	}, nil
}

// Connected reports whether a connection is currently established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Send writes one message followed by the delimiter.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if _, err := c.conn.Write([]byte(text + c.cfg.Delimiter)); err != nil {
		return fmt.Errorf("transport: %s write: %w", c.cfg.Channel, err)
	}
	return nil
}

// Run connects, reads until the connection drops and reconnects with
// exponential backoff. It returns when ctx is done.
func (c *Client) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.ReconnectInitial
	b.MaxInterval = c.cfg.ReconnectMax
	b.MaxElapsedTime = 0
	b.Reset()

	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}

	for {
		conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := b.NextBackOff()
			c.log.WithError(err).WithField("retry_in", wait).Debug("dial failed")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		b.Reset()

		c.serve(ctx, conn)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// serve owns one established connection until it fails or ctx is done.
func (c *Client) serve(ctx context.Context, conn net.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.Info("connected")
	c.handler.OnConnect(c.cfg.Channel)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	err := c.read(conn)
	close(stop)

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()

	if err != nil && ctx.Err() == nil {
		c.log.WithError(err).Warn("connection lost")
	} else {
		c.log.Info("disconnected")
	}
	c.handler.OnDisconnect(c.cfg.Channel)
}

func (c *Client) read(conn net.Conn) error {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	sc.Split(splitOn([]byte(c.cfg.Delimiter)))

	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		c.handler.OnMessage(text, c.cfg.Channel)
	}
	return sc.Err()
}

// splitOn returns a bufio.SplitFunc that splits on delim.
// A trailing partial frame is delivered at EOF.
func splitOn(delim []byte) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, delim); i >= 0 {
			return i + len(delim), data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}
