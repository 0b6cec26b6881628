package transport

import (
	"io"
	"net"
	"time"
)

type Client interface {
	Read() ([]byte, error)
	Pushback([]byte)
	Write([]byte) (int, error)
	Remote() net.Addr
}

type client struct {
	conn    net.Conn
	buff    []byte
	pending []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		buff:    buff,
		conn:    conn,
		timeout: timeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. The returned
// slice is valid only until the next call. Timeouts are also handled automatically. A read
// of zero bytes is reported as io.EOF, as it's the peer closing the connection.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}

	n, err := c.conn.Read(c.buff)
	if n == 0 && err == nil {
		err = io.EOF
	}

	return c.buff[:n], err
}

// Pushback preserves a chunk of data from previous read for the next read.
func (c *client) Pushback(b []byte) {
	c.pending = b
}

// Write writes data into the underlying connection.
func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}
