package http1

import (
	"errors"
	"io"
	"os"

	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/http"
	"github.com/indigo-web/tinyserve/http/codec"
	"github.com/indigo-web/tinyserve/internal/buffer"
	"github.com/indigo-web/tinyserve/internal/construct"
	"github.com/indigo-web/tinyserve/internal/protocol"
	"github.com/indigo-web/tinyserve/internal/strutil"
	"github.com/indigo-web/tinyserve/router"
	"github.com/indigo-web/tinyserve/transport"
	"github.com/rs/zerolog"
)

var _ protocol.Suit = new(Suit)

// Suit ties together everything a single connection needs: the parser, the body
// reader and the serializer, all bound to the same request object.
type Suit struct {
	*Parser
	*Serializer
	body    *body
	router  router.Router
	client  transport.Client
	request *http.Request
	logger  zerolog.Logger
}

func New(
	cfg *config.Config,
	r router.Router,
	client transport.Client,
	request *http.Request,
	requestLine, headers *buffer.Buffer,
	respBuff []byte,
	c codec.Codec,
	logger zerolog.Logger,
) *Suit {
	return &Suit{
		Parser:     NewParser(cfg, request, requestLine, headers),
		Serializer: NewSerializer(respBuff, request, client, c),
		body:       newBody(client, cfg.NET.ReadBufferSize),
		router:     r,
		client:     client,
		request:    request,
		logger:     logger,
	}
}

// Initialize is the same constructor as just New, but consumes fewer arguments.
func Initialize(
	cfg *config.Config, r router.Router, client transport.Client, request *http.Request, logger zerolog.Logger,
) *Suit {
	requestLine, headers := construct.Buffers(cfg)
	respBuff := make([]byte, 0, cfg.NET.WriteBufferSize)

	return New(
		cfg, r, client, request, requestLine, headers, respBuff,
		codec.NewGZIP(cfg.Compression.Level), logger,
	)
}

// ServeOnce processes a single request. It returns false if the connection
// must not be used anymore.
func (s *Suit) ServeOnce() bool {
	return s.serve(true)
}

// Serve processes requests until the connection is closed by either side.
func (s *Suit) Serve() {
	s.serve(false)
}

func (s *Suit) serve(once bool) (ok bool) {
	req := s.request
	client := s.client

	for {
		data, err := client.Read()
		if err != nil {
			s.onReadError(err)
			return false
		}

		state, extra, err := s.Parse(data)
		switch state {
		case Pending:
			continue
		case HeadersCompleted:
			if err = s.body.Fetch(req, extra); err != nil {
				s.logger.Debug().Err(err).Msg("failed to receive request body")
				return false
			}

			resp := notNil(req, s.router.OnRequest(req))
			if err = s.Write(resp); err != nil {
				// if error happened during writing the response, it makes no sense to try
				// to write anything again
				s.logger.Debug().Err(err).Msg("failed to write response")
				return false
			}

			s.logger.Debug().
				Stringer("method", req.Method).
				Str("path", req.RawPath).
				Str("protocol", req.Protocol).
				Uint16("status", uint16(resp.Expose().Code)).
				Msg("served")

			closeConn := resp.Expose().Close || shouldClose(req)
			req.Clear()
			if closeConn {
				return false
			}
		case Error:
			// no response is sent on fatal errors, the connection is just dropped
			s.logger.Debug().Err(err).Msg("malformed request")
			return false
		default:
			panic("BUG: got unexpected parser state")
		}

		if once {
			return true
		}
	}
}

func (s *Suit) onReadError(err error) {
	switch {
	case errors.Is(err, io.EOF):
		s.logger.Debug().Msg("connection closed by peer")
	case errors.Is(err, os.ErrDeadlineExceeded):
		s.logger.Debug().Msg("connection timed out")
	default:
		s.logger.Debug().Err(err).Msg("read failed")
	}
}

// shouldClose reports whether the client asked to close the connection after
// the response.
func shouldClose(req *http.Request) bool {
	connection, found := req.Headers.Get("connection")
	return found && strutil.ContainsFold(connection, "close")
}

func notNil(req *http.Request, resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return req.Respond()
}
