package status

import "strconv"

type (
	Code   uint16
	Status string
)

// Codes the server answers with, or reports its failures by.
const (
	OK      Code = 200 // RFC 9110, 15.3.1
	Created Code = 201 // RFC 9110, 15.3.2

	BadRequest                  Code = 400 // RFC 9110, 15.5.1
	NotFound                    Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed            Code = 405 // RFC 9110, 15.5.6
	RequestEntityTooLarge       Code = 413 // RFC 9110, 15.5.14
	RequestURITooLong           Code = 414 // RFC 9110, 15.5.15
	RequestHeaderFieldsTooLarge Code = 431 // RFC 6585, 5
)

// Text returns the reason phrase for the code.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case RequestHeaderFieldsTooLarge:
		return "Request Header Fields Too Large"
	default:
		return "Unknown Status Code"
	}
}

// KnownCodes lists every code Text has a reason phrase for.
var KnownCodes = []Code{
	OK, Created, BadRequest, NotFound, MethodNotAllowed,
	RequestEntityTooLarge, RequestURITooLong, RequestHeaderFieldsTooLarge,
}

// StringCode returns the decimal representation of the code.
func StringCode(code Code) string {
	switch code {
	case OK:
		return "200"
	case Created:
		return "201"
	case BadRequest:
		return "400"
	case NotFound:
		return "404"
	case MethodNotAllowed:
		return "405"
	case RequestEntityTooLarge:
		return "413"
	case RequestURITooLong:
		return "414"
	case RequestHeaderFieldsTooLarge:
		return "431"
	default:
		return strconv.Itoa(int(code))
	}
}
