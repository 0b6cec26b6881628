package method

import (
	"github.com/indigo-web/tinyserve/internal/strutil"
)

// Method is one of the request methods the server routes. Every other token is
// classified as Unknown, which is not a parsing error: such requests are answered
// with 405 Method Not Allowed.
type Method uint8

const (
	Unknown Method = iota
	GET
	POST
)

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	default:
		return "UNKNOWN"
	}
}

// Parse recognizes the method token case-insensitively.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if strutil.CmpFold(str, "GET") {
			return GET
		}
	case 4:
		if strutil.CmpFold(str, "POST") {
			return POST
		}
	}

	return Unknown
}
