package http1

import (
	"errors"
	"fmt"
	"io"

	"github.com/indigo-web/tinyserve/http"
	"github.com/indigo-web/tinyserve/transport"
)

// ErrShortBody is returned when the connection ends before the whole declared body
// was received.
var ErrShortBody = errors.New("connection closed before the body was fully received")

type body struct {
	client   transport.Client
	prealloc int
}

// newBody returns a body reader reserving at most prealloc bytes up front. The rest
// of the memory is claimed as the bytes actually arrive, so the declared
// Content-Length alone can't make the server allocate.
func newBody(client transport.Client, prealloc int) *body {
	return &body{
		client:   client,
		prealloc: prealloc,
	}
}

// Fetch collects exactly request.ContentLength bytes, starting with the extra bytes
// left after the headers. Whatever follows the body is pushed back into the client,
// as it belongs to the next request.
func (b *body) Fetch(request *http.Request, extra []byte) error {
	length := request.ContentLength
	if length == 0 {
		b.pushback(extra)
		return nil
	}

	buff := make([]byte, 0, min(length, b.prealloc))
	extra = b.take(&buff, length, extra)

	for len(buff) < length {
		data, err := b.client.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrShortBody
			}

			return fmt.Errorf("%w: %w", ErrShortBody, err)
		}

		extra = b.take(&buff, length, data)
	}

	b.pushback(extra)
	request.Body = buff

	return nil
}

func (b *body) take(buff *[]byte, length int, data []byte) (rest []byte) {
	n := min(length-len(*buff), len(data))
	*buff = append(*buff, data[:n]...)

	return data[n:]
}

func (b *body) pushback(extra []byte) {
	if len(extra) > 0 {
		b.client.Pushback(extra)
	}
}
