package http

import (
	"github.com/indigo-web/tinyserve/http/mime"
	"github.com/indigo-web/tinyserve/http/status"
	"github.com/indigo-web/tinyserve/internal/response"
	"github.com/indigo-web/utils/uf"
)

type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK,
// no body and text/plain content-type.
// NOTE: it's recommended to use Request.Respond() method inside of handlers, if there's no
// clear reason otherwise
func NewResponse() *Response {
	fields := new(response.Fields).Clear()
	return &Response{&fields}
}

// Code sets a Response code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets a Content-Type header value. It is only transmitted if the body
// isn't empty.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Close marks whether the connection must be closed once the response is written.
func (r *Response) Close(close bool) *Response {
	r.fields.Close = close
	return r
}

// Expose gives direct access to the response fields, primarily for the serializer.
func (r *Response) Expose() *response.Fields {
	return r.fields
}

// Clear discards all the changes applied to the response object.
func (r *Response) Clear() *Response {
	*r.fields = r.fields.Clear()
	return r
}

// Respond is a predicate to request.Respond(). May be used as a dummy handler.
func Respond(request *Request) *Response {
	return request.Respond()
}

// Code is a predicate to request.Respond().Code(...)
func Code(request *Request, code status.Code) *Response {
	return request.Respond().Code(code)
}

// String is a predicate to request.Respond().String(...)
func String(request *Request, str string) *Response {
	return request.Respond().String(str)
}

// Bytes is a predicate to request.Respond().Bytes(...)
func Bytes(request *Request, b []byte) *Response {
	return request.Respond().Bytes(b)
}
