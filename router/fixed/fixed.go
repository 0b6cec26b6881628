// Package fixed implements the server's routing table. Routes are hard-wired: there is
// no registration API.
package fixed

import (
	"github.com/indigo-web/tinyserve/filestore"
	"github.com/indigo-web/tinyserve/http"
	"github.com/indigo-web/tinyserve/http/method"
	"github.com/indigo-web/tinyserve/http/mime"
	"github.com/indigo-web/tinyserve/http/status"
	"github.com/indigo-web/tinyserve/internal/strutil"
	"github.com/indigo-web/tinyserve/router"
	"github.com/rs/zerolog"
)

const (
	echoPrefix  = "/echo/"
	filesPrefix = "/files/"
	userAgent   = "/user-agent"
)

var _ router.Router = new(Router)

// Router is safe for concurrent use as long as the store is.
type Router struct {
	store  filestore.Store
	logger zerolog.Logger
}

func New(store filestore.Store, logger zerolog.Logger) *Router {
	return &Router{
		store:  store,
		logger: logger,
	}
}

func (r *Router) OnRequest(request *http.Request) *http.Response {
	if request.Malformed {
		return http.Code(request, status.NotFound)
	}

	switch request.Method {
	case method.GET:
		return r.get(request)
	case method.POST:
		return r.post(request)
	default:
		return http.Code(request, status.MethodNotAllowed)
	}
}

func (r *Router) get(request *http.Request) *http.Response {
	path := request.Path

	switch {
	case path == "/":
		return http.Respond(request)
	case path == userAgent:
		return http.String(request, request.Headers.Value("user-agent"))
	case strutil.HasPrefixFold(path, echoPrefix):
		return http.String(request, request.RawPath[len(echoPrefix):])
	case strutil.HasPrefixFold(path, filesPrefix):
		name := request.RawPath[len(filesPrefix):]
		data, err := r.store.Read(name)
		if err != nil {
			r.logger.Warn().Err(err).Str("file", name).Msg("cannot read file")
			return http.Code(request, status.NotFound)
		}

		return http.Bytes(request, data).ContentType(mime.OctetStream)
	default:
		return http.Code(request, status.NotFound)
	}
}

func (r *Router) post(request *http.Request) *http.Response {
	if !strutil.HasPrefixFold(request.Path, filesPrefix) {
		return http.Code(request, status.NotFound)
	}

	name := request.RawPath[len(filesPrefix):]
	if err := r.store.Write(name, request.Body); err != nil {
		r.logger.Warn().Err(err).Str("file", name).Msg("cannot write file")
		return http.Code(request, status.NotFound)
	}

	return http.Code(request, status.Created)
}
