package transport

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/internal/strutil"
)

var _ Transport = new(TCP)

const defaultInterruptPeriod = 5 * time.Second

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

type TCP struct {
	l     listener
	wg    *sync.WaitGroup
	stop  *atomic.Bool
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewTCP() *TCP {
	return &TCP{
		wg:    new(sync.WaitGroup),
		stop:  new(atomic.Bool),
		conns: make(map[net.Conn]struct{}),
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", strutil.NormalizeAddress(addr))
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) error {
	l, err := bindTCP(addr)
	if err != nil {
		return err
	}

	t.l = l
	return nil
}

func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

// Listen runs the accept loop, handing every connection to cb in its own goroutine. The
// connection is closed as soon as cb returns. The loop wakes up every
// cfg.AcceptLoopInterruptPeriod to check whether it was stopped.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	period := cfg.AcceptLoopInterruptPeriod.Std()
	if period <= 0 {
		period = defaultInterruptPeriod
	}

	for !t.stop.Load() {
		err := t.l.SetDeadline(time.Now().Add(period))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if t.stop.Load() {
				// the listener was closed from the outside while we were waiting
				return nil
			}

			return err
		}

		t.track(conn)
		if t.stop.Load() {
			closeRead(conn)
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
			t.untrack(conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

// Stop breaks the accept loop. Live connections are shut down for reading, so responses
// being written are delivered, but no further requests are received.
func (t *TCP) Stop() {
	t.stop.Store(true)

	t.mu.Lock()
	defer t.mu.Unlock()

	for conn := range t.conns {
		closeRead(conn)
	}
}

func (t *TCP) track(conn net.Conn) {
	t.mu.Lock()
	t.conns[conn] = struct{}{}
	t.mu.Unlock()
}

func (t *TCP) untrack(conn net.Conn) {
	t.mu.Lock()
	delete(t.conns, conn)
	t.mu.Unlock()
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}

func closeRead(conn net.Conn) {
	if cr, ok := conn.(interface{ CloseRead() error }); ok {
		_ = cr.CloseRead()
	}
}
