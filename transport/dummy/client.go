package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/tinyserve/transport"
)

var _ transport.Client = new(Client)

// Client returns the pieces it was initialised with one by one, reporting io.EOF once they
// are exhausted, unless set to loop. It also tracks all the written data, making it thereby
// a universal mock suitable for most of the tests.
type Client struct {
	loop    bool
	pointer int
	tmp     []byte
	written []byte
	data    [][]byte
	// WriteErr is returned from every Write call, if set.
	WriteErr error
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() (data []byte, err error) {
	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if !c.loop || len(c.data) == 0 {
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}

	c.written = append(c.written, p...)
	return len(p), nil
}

func (*Client) Remote() net.Addr {
	return nil
}

// LoopReads makes the client start over once all the pieces were returned.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

// Written returns everything written so far.
func (c *Client) Written() string {
	return string(c.written)
}
