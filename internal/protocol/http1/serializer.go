package http1

import (
	"strconv"

	"github.com/indigo-web/tinyserve/http"
	"github.com/indigo-web/tinyserve/http/codec"
	"github.com/indigo-web/tinyserve/http/status"
	"github.com/indigo-web/tinyserve/internal/strutil"
	"github.com/indigo-web/tinyserve/transport"
)

const (
	protocolPrefix = "HTTP/1.1 "
	crlf           = "\r\n"
	colonsp        = ": "
)

// Serializer renders responses into a reusable buffer and writes each of them
// in a single call.
type Serializer struct {
	request    *http.Request
	client     transport.Client
	codec      codec.Codec
	compressor codec.Compressor
	buff       []byte
	compressed []byte
}

func NewSerializer(
	buff []byte, request *http.Request, client transport.Client, c codec.Codec,
) *Serializer {
	return &Serializer{
		request:    request,
		client:     client,
		codec:      c,
		compressor: c.New(),
		buff:       buff[:0],
	}
}

// Write serializes the response to the request the serializer is bound to. The body
// is gzip-compressed if the request's Accept-Encoding mentions it.
func (s *Serializer) Write(response *http.Response) error {
	fields := response.Expose()
	body := fields.Body

	buff := append(s.buff[:0], protocolPrefix...)
	buff = append(buff, status.StringCode(fields.Code)...)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(fields.Code)...)
	buff = append(buff, crlf...)

	if connection, found := s.request.Headers.Get("connection"); found {
		buff = header(buff, "Connection", connection)
	}

	if len(body) > 0 && s.acceptsCompression() {
		compressed, err := codec.Encode(s.compressor, s.compressed[:0], body)
		if err != nil {
			return err
		}

		s.compressed = compressed
		body = compressed
		buff = header(buff, "Content-Encoding", s.codec.Token())
	}

	if len(body) > 0 {
		buff = header(buff, "Content-Type", fields.ContentType)
		buff = append(buff, "Content-Length: "...)
		buff = strconv.AppendInt(buff, int64(len(body)), 10)
		buff = append(buff, crlf...)
	}

	buff = append(buff, crlf...)
	buff = append(buff, body...)
	s.buff = buff

	_, err := s.client.Write(buff)
	return err
}

func (s *Serializer) acceptsCompression() bool {
	acceptEncoding, found := s.request.Headers.Get("accept-encoding")
	return found && strutil.ContainsFold(acceptEncoding, s.codec.Token())
}

func header(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, colonsp...)
	buff = append(buff, value...)

	return append(buff, crlf...)
}
