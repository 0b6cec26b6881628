package router

import (
	"github.com/indigo-web/tinyserve/http"
)

// Router maps a fully received request into a response. A nil response is answered
// with the request's default one.
type Router interface {
	OnRequest(request *http.Request) *http.Response
}

// Func adapts an ordinary function into a Router.
type Func func(request *http.Request) *http.Response

func (f Func) OnRequest(request *http.Request) *http.Response {
	return f(request)
}
