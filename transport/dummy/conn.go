package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn serves Data to reads in pieces of at most the passed buffer size and records
// everything written into Written.
type Conn struct {
	Data    []byte
	Written []byte
	// ReadDeadline holds the last value passed to SetReadDeadline.
	ReadDeadline time.Time
}

func NewConn(data []byte) *Conn {
	return &Conn{Data: data}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if len(c.Data) == 0 {
		return 0, io.EOF
	}

	n = copy(b, c.Data)
	c.Data = c.Data[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.Written = append(c.Written, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(t time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.ReadDeadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return nil
}
