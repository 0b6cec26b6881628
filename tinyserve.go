package tinyserve

import (
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/filestore"
	"github.com/indigo-web/tinyserve/http/serve"
	"github.com/indigo-web/tinyserve/router"
	"github.com/indigo-web/tinyserve/router/fixed"
	"github.com/indigo-web/tinyserve/transport"
	"github.com/rs/zerolog"
)

// connIDLength is the length of identifiers attached to the connection loggers.
const connIDLength = 8

// App is the server itself. It owns the listener, spawns a goroutine per
// connection and routes every request through the fixed routing table.
type App struct {
	cfg        *config.Config
	store      filestore.Store
	router     router.Router
	logger     zerolog.Logger
	tcp        *transport.TCP
	supervisor transport.Supervisor
}

// New returns a new App instance. If cfg is nil, config.Default() is used, and if
// store is nil, files are served from cfg.Files.Root.
func New(cfg *config.Config, store filestore.Store) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	if store == nil {
		store = filestore.New(cfg.Files.Root)
	}

	return &App{
		cfg:        cfg,
		store:      store,
		logger:     zerolog.Nop(),
		tcp:        transport.NewTCP(),
		supervisor: transport.NewSupervisor(),
	}
}

// Logger replaces the default no-op logger.
func (a *App) Logger(logger zerolog.Logger) *App {
	a.logger = logger
	return a
}

// Bind binds the listener to the address. Empty address stands for cfg.NET.Addr.
// Calling it is optional: Serve binds to cfg.NET.Addr if it wasn't done before.
func (a *App) Bind(addr string) error {
	if len(addr) == 0 {
		addr = a.cfg.NET.Addr
	}

	return a.supervisor.Add(addr, a.tcp, a.onConnection)
}

// Addr returns the address the listener is bound to, or nil if it isn't yet.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Serve starts serving and blocks until Stop is called or the listener fails.
func (a *App) Serve() error {
	if a.Addr() == nil {
		if err := a.Bind(a.cfg.NET.Addr); err != nil {
			return err
		}
	}

	a.router = fixed.New(a.store, a.logger)
	a.logger.Info().Stringer("addr", a.Addr()).Msg("listening")

	err := a.supervisor.Run(a.cfg.NET)
	if err != nil {
		a.logger.Error().Err(err).Msg("listener failed")
	} else {
		a.logger.Info().Msg("stopped")
	}

	return err
}

// Stop stops accepting new connections, interrupts idle ones and waits until all
// of them are done.
func (a *App) Stop() {
	a.supervisor.Stop()
}

func (a *App) onConnection(conn net.Conn) {
	logger := a.logger.With().
		Str("conn", uniuri.NewLen(connIDLength)).
		Stringer("remote", conn.RemoteAddr()).
		Logger()

	logger.Debug().Msg("connection accepted")
	serve.HTTP1(a.cfg, conn, a.router, logger)
	logger.Debug().Msg("connection finished")
}
