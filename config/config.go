package config

import (
	"time"

	"github.com/klauspost/compress/gzip"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	URIRequestLineSize struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// RequestLineSize limits the buffer holding the request line while it's being
		// received in pieces. A request line exceeding the maximal boundary aborts the
		// connection.
		RequestLineSize URIRequestLineSize
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of allocated headers storage.
		// Maximal value is maximum number of headers allowed to be presented
		Number HeadersNumber
		// Space limits the amount of memory occupied by request headers.
		Space HeadersSpace
	}

	Body struct {
		// MaxSize is the biggest Content-Length value accepted. Requests declaring more
		// abort the connection.
		MaxSize uint64
	}

	NET struct {
		// Addr is the address the listener is bound to.
		Addr string
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed. Zero disables the deadline.
		ReadTimeout Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod Duration
		// WriteBufferSize is the initial capacity of the buffer the response is assembled in.
		WriteBufferSize int
	}

	Compression struct {
		// Level is the gzip compression level, from gzip.HuffmanOnly to gzip.BestCompression.
		Level int
	}

	Files struct {
		// Root is the base directory for the /files/ routes. Empty means os.TempDir().
		Root string
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI         URI
	Headers     Headers
	Body        Body
	NET         NET
	Compression Compression
	Files       Files
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		URI: URI{
			RequestLineSize: URIRequestLineSize{
				Default: 2 * 1024,
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
		},
		Body: Body{
			MaxSize: 512 * 1024 * 1024, // 512 megabytes
		},
		NET: NET{
			Addr:                      "127.0.0.1:4221",
			ReadBufferSize:            4 * 1024,
			ReadTimeout:               Duration(90 * time.Second),
			AcceptLoopInterruptPeriod: Duration(5 * time.Second),
			WriteBufferSize:           2 * 1024,
		},
		Compression: Compression{
			Level: gzip.DefaultCompression,
		},
	}
}
