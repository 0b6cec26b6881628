package http

import (
	"net"

	"github.com/indigo-web/tinyserve/http/method"
	"github.com/indigo-web/tinyserve/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents HTTP request. A single instance is allocated per connection and is
// cleared after every response, so it must not be retained by handlers.
type Request struct {
	// Method is GET, POST or method.Unknown for every other token.
	Method method.Method
	// Path is the lower-cased request target, used to match routes.
	Path string
	// RawPath is the request target exactly as it was received.
	RawPath string
	// Protocol is the third request line token, if any. It isn't validated.
	Protocol string
	// Malformed is set when the request line consisted of fewer than two tokens.
	Malformed bool
	// Headers hold header pairs with lower-cased keys. A repeated key overrides
	// the previous value.
	Headers Headers
	// ContentLength is the value of the Content-Length header, or 0 if it was absent.
	ContentLength int
	// Body is the whole message body, exactly as long as the Content-Length header
	// declared. It's empty if the header was absent.
	Body     []byte
	Remote   net.Addr
	response *Response
}

func NewRequest(headers *kv.Storage, remote net.Addr) *Request {
	return &Request{
		Method:   method.Unknown,
		Headers:  headers,
		Remote:   remote,
		response: NewResponse(),
	}
}

// Respond returns the response object bound to the request, reset to its defaults.
func (r *Request) Respond() *Response {
	return r.response.Clear()
}

// Clear resets the request so it can be filled by the next one on the same connection.
func (r *Request) Clear() {
	r.Method = method.Unknown
	r.Path = ""
	r.RawPath = ""
	r.Protocol = ""
	r.Malformed = false
	r.Headers.Clear()
	r.ContentLength = 0
	r.Body = nil
}
