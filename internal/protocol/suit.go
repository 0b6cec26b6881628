package protocol

import (
	"github.com/indigo-web/tinyserve/http"
)

type Parser interface {
	Parse(b []byte) (state RequestState, extra []byte, err error)
}

// RequestState represents the state of the request's parsing
type RequestState uint8

const (
	Pending RequestState = iota + 1
	HeadersCompleted
	Error
)

// Serializer converts an HTTP response builder into bytes and writes it
type Serializer interface {
	Write(response *http.Response) error
}

type Server interface {
	// Serve processes requests until the connection is done.
	Serve()
	// ServeOnce processes a single request, reporting whether the connection may be
	// used further.
	ServeOnce() bool
}

// Suit is a general pair of a parser and a dumper. Usually consists of both belonging
// to a same protocol major version
type Suit interface {
	Server
	Parser
	Serializer
}
