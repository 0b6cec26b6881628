package requestgen

import (
	"strconv"
	"strings"

	"github.com/indigo-web/tinyserve/kv"
)

// Headers returns n headers with long values, the last of them being Host.
func Headers(n int) *kv.Storage {
	hdrs := kv.NewPrealloc(n)

	for i := 0; i < n-1; i++ {
		hdrs.Set("some-random-header-name-nobody-cares-about"+strconv.Itoa(i), strings.Repeat("b", 100))
	}

	return hdrs.Set("Host", "localhost")
}

func HeadersBlock(hdrs *kv.Storage) (buff []byte) {
	for key, value := range hdrs.Pairs() {
		buff = append(buff, key+": "+value+"\r\n"...)
	}

	return buff
}

// Generate renders a complete GET request without a body.
func Generate(uri string, hdrs *kv.Storage) (request []byte) {
	request = append(request, "GET /"+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)

	return append(request, '\r', '\n')
}
