package serve

import (
	"net"

	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/internal/construct"
	"github.com/indigo-web/tinyserve/internal/protocol/http1"
	"github.com/indigo-web/tinyserve/router"
	"github.com/rs/zerolog"
)

// HTTP1 setups and serves an HTTP/1.1 connection until either side closes it. Note, that
// the connection isn't closed automatically.
func HTTP1(cfg *config.Config, conn net.Conn, r router.Router, logger zerolog.Logger) {
	client := construct.Client(cfg.NET, conn)
	request := construct.Request(cfg, client)
	suit := http1.Initialize(cfg, r, client, request, logger)
	suit.Serve()
}
