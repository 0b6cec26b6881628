package transport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/indigo-web/tinyserve/config"
)

// Supervisor runs bound transports until either of them fails or Stop is called.
type Supervisor struct {
	stopped *atomic.Bool
	ts      []boundTransport
	// mu guards running and stopRequested, so Run registering itself and Stop
	// requesting the shutdown are ordered.
	mu            *sync.Mutex
	running       bool
	stopRequested bool
	stopch        chan struct{}
	done          chan struct{}
}

func NewSupervisor() Supervisor {
	return Supervisor{
		stopped: new(atomic.Bool),
		mu:      new(sync.Mutex),
		stopch:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Add binds the transport. If binding fails, all the previously added transports are
// closed.
func (s *Supervisor) Add(addr string, transport Transport, cb func(net.Conn)) error {
	err := transport.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Run blocks until a transport returns or Stop is called. In both cases every transport is
// stopped, the running connections are awaited, and the listeners are closed.
func (s *Supervisor) Run(cfg config.NET) error {
	if len(s.ts) == 0 {
		return nil
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer close(s.done)

	errch := make(chan error)

	for _, t := range s.ts {
		go func(t boundTransport, ch chan<- error) {
			ch <- t.t.Listen(cfg, t.cb)
		}(t, errch)
	}

	select {
	case err := <-errch:
		s.stop()
		drain(errch, len(s.ts)-1)

		return err
	case <-s.stopch:
		s.stop()
		drain(errch, len(s.ts))

		return nil
	}
}

// Stop interrupts Run and blocks until it returns. If Run wasn't called yet, it'll return
// right after it's started.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.stopRequested {
		s.stopRequested = true
		close(s.stopch)
	}
	running := s.running
	s.mu.Unlock()

	if running {
		<-s.done
	}
}

func (s *Supervisor) stop() {
	if s.stopped.Swap(true) {
		return
	}

	for _, t := range s.ts {
		t.t.Stop()
	}

	for _, t := range s.ts {
		t.t.Wait()
		t.t.Close()
	}
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb func(conn net.Conn)
	t  Transport
}

func drain(ch <-chan error, n int) {
	for range n {
		<-ch
	}
}
