package response

import (
	"github.com/indigo-web/tinyserve/http/mime"
	"github.com/indigo-web/tinyserve/http/status"
)

const DefaultContentType = mime.Plain

type Fields struct {
	ContentType string
	Body        []byte
	Code        status.Code
	// Close marks the connection to be closed after the response is written.
	Close bool
}

func (f Fields) Clear() Fields {
	f.Code = status.OK
	f.ContentType = DefaultContentType
	f.Body = nil
	f.Close = false

	return f
}
