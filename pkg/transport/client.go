package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"Linksim/pkg/async"
	"Linksim/pkg/layers"
	"Linksim/pkg/wire"
)

const DefaultDialTimeout = 5 * time.Second

var ErrNotConnected = errors.New("client is not connected")

// Client sends payloads over one TCP connection. Sends are serialized.
type Client struct {
	Addr    string
	Timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

func (c *Client) Dial(ctx context.Context) error {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.Addr, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	return nil
}

func (c *Client) Send(ctx context.Context, p wire.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return wire.Write(c.conn, p)
}

// Transmit sends the transmission and returns the id it was sent with.
func (c *Client) Transmit(ctx context.Context, tx *layers.Transmission) (uuid.UUID, error) {
	p := wire.FromTransmission(tx)
	if err := c.Send(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (c *Client) TransmitAsync(ctx context.Context, tx *layers.Transmission) <-chan async.Result[uuid.UUID] {
	return async.Try(func() (uuid.UUID, error) {
		return c.Transmit(ctx, tx)
	})
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
