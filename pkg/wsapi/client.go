// Package wsapi is a thin wrapper around gorilla/websocket shared by the
// per-venue feed adapters. It owns the dial, ping/pong keepalive and read
// loop; callers only see a channel of inbound frames and a terminal error.
package wsapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClientClosed is returned by Send once Close has been called.
var ErrClientClosed = errors.New("wsapi: client closed")

// Conn is a single outbound connection to a venue's websocket endpoint.
// It is single-producer: only the internal read loop writes to messages
// and errc.
type Conn struct {
	conn   *websocket.Conn
	sendMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	messages chan []byte
	errc     chan error

	closed   bool
	closedMu sync.Mutex
}

// Dial opens a TLS websocket connection bounded by the given deadline.
// ctx bounds the dial only: the connection lives until Close or a
// disconnect. The returned Conn's read loop is already running.
func Dial(ctx context.Context, url string, dialTimeout time.Duration) (*Conn, error) {
	dialCtx, dialCancel := context.WithTimeout(ctx, dialTimeout)
	defer dialCancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wsapi: dial %s: %w", url, err)
	}

	connCtx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		conn:     conn,
		ctx:      connCtx,
		cancel:   cancel,
		messages: make(chan []byte, 1),
		errc:     make(chan error, 1),
	}

	c.conn.SetPingHandler(func(appData string) error {
		err := c.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
		return err
	})

	c.wg.Add(1)
	go c.readLoop()

	return c, nil
}

// Send writes a single text frame. Safe for concurrent use.
func (c *Conn) Send(payload []byte) error {
	c.closedMu.Lock()
	closed := c.closed
	c.closedMu.Unlock()
	if closed {
		return ErrClientClosed
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Messages returns the channel of inbound frame payloads.
func (c *Conn) Messages() <-chan []byte {
	return c.messages
}

// Err returns a channel that receives exactly one error when the read
// loop terminates (disconnect or caller-initiated close), then closes.
func (c *Conn) Err() <-chan error {
	return c.errc
}

// Close tears down the connection and waits for the read loop to exit.
// Idempotent.
func (c *Conn) Close() error {
	c.closedMu.Lock()
	if c.closed {
		c.closedMu.Unlock()
		return nil
	}
	c.closed = true
	c.closedMu.Unlock()

	c.cancel()
	err := c.conn.Close()
	c.wg.Wait()
	return err
}

func (c *Conn) readLoop() {
	defer c.wg.Done()
	defer close(c.messages)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case c.errc <- err:
			default:
			}
			close(c.errc)
			return
		}

		select {
		case c.messages <- payload:
		case <-c.ctx.Done():
			c.errc <- c.ctx.Err()
			close(c.errc)
			return
		}
	}
}
