package http1

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/http"
	"github.com/indigo-web/tinyserve/http/method"
	"github.com/indigo-web/tinyserve/http/status"
	"github.com/indigo-web/tinyserve/internal/buffer"
	"github.com/indigo-web/tinyserve/internal/protocol"
	"github.com/indigo-web/tinyserve/internal/strutil"
	"github.com/indigo-web/utils/uf"
)

type RequestState = protocol.RequestState

const (
	Pending          = protocol.Pending
	HeadersCompleted = protocol.HeadersCompleted
	Error            = protocol.Error
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eHeaderLine
)

// Parser is a stream-based line parser. Data may be fed in arbitrary pieces: a line
// split between two reads is accumulated in the corresponding buffer. Once the empty
// line terminating the headers is met, HeadersCompleted is returned along with
// the rest of the data, which belongs to the body or to the next pipelined request.
//
// Every string value of the request (path, headers) references the parser's buffers,
// so they stay valid only until the next request is parsed.
type Parser struct {
	state         parserState
	headersNumber int
	cfg           *config.Config
	request       *http.Request
	requestLine   *buffer.Buffer
	headers       *buffer.Buffer
}

func NewParser(cfg *config.Config, request *http.Request, requestLine, headers *buffer.Buffer) *Parser {
	return &Parser{
		cfg:         cfg,
		state:       eRequestLine,
		request:     request,
		requestLine: requestLine,
		headers:     headers,
	}
}

func (p *Parser) Parse(data []byte) (state RequestState, extra []byte, err error) {
	switch p.state {
	case eRequestLine:
		for {
			lf := bytes.IndexByte(data, '\n')
			if lf == -1 {
				if !p.requestLine.Append(data) {
					return Error, nil, status.ErrTooLongRequestLine
				}

				return Pending, nil, nil
			}

			if !p.requestLine.Append(data[:lf]) {
				return Error, nil, status.ErrTooLongRequestLine
			}

			data = data[lf+1:]

			// empty lines preceding the request line are ignored (RFC 9112, section 2.2)
			if len(strutil.StripWS(uf.B2S(p.requestLine.Preview()))) == 0 {
				p.requestLine.Discard()
				continue
			}

			p.parseRequestLine(uf.B2S(p.requestLine.Finish()))
			p.state = eHeaderLine
			break
		}
	case eHeaderLine:
	default:
		panic("BUG: unexpected parser state")
	}

	for {
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !p.headers.Append(data) {
				return Error, nil, status.ErrHeaderFieldsTooLarge
			}

			return Pending, nil, nil
		}

		if !p.headers.Append(data[:lf]) {
			return Error, nil, status.ErrHeaderFieldsTooLarge
		}

		line := p.headers.Finish()
		data = data[lf+1:]

		if len(strutil.StripWS(uf.B2S(line))) == 0 {
			p.reset()
			return HeadersCompleted, data, nil
		}

		if err = p.parseHeaderLine(line); err != nil {
			return Error, nil, err
		}
	}
}

func (p *Parser) parseRequestLine(line string) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		p.request.Malformed = true
		return
	}

	p.request.Method = method.Parse(tokens[0])
	p.request.RawPath = tokens[1]
	p.request.Path = strutil.ToLower(tokens[1])
	if len(tokens) > 2 {
		p.request.Protocol = tokens[2]
	}
}

func (p *Parser) parseHeaderLine(line []byte) error {
	p.headersNumber++
	if p.headersNumber > p.cfg.Headers.Number.Maximal {
		return status.ErrTooManyHeaders
	}

	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		// lines without a colon carry nothing we could use
		return nil
	}

	key := line[:colon]
	for i, c := range key {
		if c >= 'A' && c <= 'Z' {
			key[i] = c | 0x20
		}
	}

	name := strutil.StripWS(uf.B2S(key))
	value := strutil.StripWS(uf.B2S(line[colon+1:]))
	p.request.Headers.Set(name, value)

	if name == "content-length" {
		length, err := parseContentLength(value, p.cfg.Body.MaxSize)
		if err != nil {
			return err
		}

		p.request.ContentLength = length
	}

	return nil
}

func (p *Parser) reset() {
	p.state = eRequestLine
	p.headersNumber = 0
	p.requestLine.Clear()
	p.headers.Clear()
}

func parseContentLength(value string, maxSize uint64) (int, error) {
	length, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, status.ErrBadContentLength
	}

	if length > maxSize {
		return 0, status.ErrBodyTooLarge
	}

	return int(length), nil
}
