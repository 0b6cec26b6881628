package transport

import (
	"net"

	"github.com/indigo-web/tinyserve/config"
)

type Transport interface {
	Bind(addr string) error
	// Addr returns the address the transport is bound to, or nil if it isn't yet.
	Addr() net.Addr
	Listen(cfg config.NET, cb func(conn net.Conn)) error
	Stop()
	Close()
	Wait()
}
