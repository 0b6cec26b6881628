package status

// HTTPError is a failure that can be attributed to a status code. The server
// never answers those: all of them abort the connection.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadContentLength     = NewError(BadRequest, "malformed content-length")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrTooLongRequestLine   = NewError(RequestURITooLong, "request line is too long")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
)
