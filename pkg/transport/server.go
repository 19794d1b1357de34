package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"Linksim/pkg/async"
	"Linksim/pkg/layers"
	"Linksim/pkg/wire"
)

const DefaultResultsBuffer = 16

// Delivery is what the receiver made of one payload. Clean is decoded from
// the clean signals and Corrupted from the _erro ones. Err holds the fatal
// errors of either decode, or the read error that ended the connection.
type Delivery struct {
	ID            uuid.UUID
	Remote        net.Addr
	Text          string
	ContainsError bool
	Clean         layers.Result
	Corrupted     layers.Result
	Err           error
}

// PipelineFactory builds the receiver pipeline of one payload.
type PipelineFactory func(layers.Config) (*layers.Pipeline, error)

func defaultFactory(c layers.Config) (*layers.Pipeline, error) {
	return layers.NewPipeline(c, nil, nil)
}

type Server struct {
	Addr        string
	NewPipeline PipelineFactory
	Results     chan Delivery

	listening async.Signal[net.Addr]

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewServer(addr string, factory PipelineFactory) *Server {
	return &Server{
		Addr:        addr,
		NewPipeline: factory,
		Results:     make(chan Delivery, DefaultResultsBuffer),
	}
}

// ListenAddr blocks until the server is listening. It returns nil when
// listening failed.
func (s *Server) ListenAddr() net.Addr {
	return s.listening.Wait()
}

func (s *Server) Ready() <-chan struct{} {
	return s.listening.Signal()
}

// ListenAndServe accepts connections until ctx is done, with one worker per
// connection. Results is closed when every worker has returned.
func (s *Server) ListenAndServe(ctx context.Context) error {
	defer close(s.Results)

	lc := net.ListenConfig{Control: control}
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		s.listening.Notify()
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	s.listening.NotifyValue(ln.Addr())
	log.Info().Stringer("addr", ln.Addr()).Msg("[Server] listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		ln.Close()
		s.closeConns()
		return nil
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accept: %w", err)
			}
			s.track(conn, true)
			g.Go(func() error {
				defer s.track(conn, false)
				defer conn.Close()
				s.serve(gctx, conn)
				return nil
			})
		}
	})
	return g.Wait()
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr()
	log.Info().Stringer("remote", remote).Msg("[Server] connection accepted")
	for {
		p, err := wire.Read(conn)
		if errors.Is(err, io.EOF) {
			log.Info().Stringer("remote", remote).Msg("[Server] connection closed")
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Stringer("remote", remote).Msg("[Server] read failed")
				s.publish(ctx, Delivery{Remote: remote, Err: err})
			}
			return
		}
		d := s.handle(p)
		d.Remote = remote
		if !s.publish(ctx, d) {
			return
		}
	}
}

func (s *Server) publish(ctx context.Context, d Delivery) bool {
	select {
	case s.Results <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

// handle decodes the clean and the corrupted signals concurrently.
func (s *Server) handle(p wire.Payload) Delivery {
	d := Delivery{ID: p.ID, Text: p.Text, ContainsError: p.ContainsError}

	c, err := p.Config()
	if err != nil {
		d.Err = err
		return d
	}
	factory := s.NewPipeline
	if factory == nil {
		factory = defaultFactory
	}
	pipeline, err := factory(c)
	if err != nil {
		d.Err = err
		return d
	}
	clean, corrupted, err := p.Signals()
	if err != nil {
		d.Err = err
		return d
	}

	r1, r2 := async.Await2(async.Gather2(
		async.Try(func() (layers.Result, error) { return pipeline.ReceiveSignals(clean) }),
		async.Try(func() (layers.Result, error) { return pipeline.ReceiveSignals(corrupted) }),
	))
	d.Clean, d.Corrupted = r1.Value, r2.Value
	d.Err = errors.Join(r1.Err, r2.Err)
	debugLog("[Server] %s: %q %s, %q %s", d.ID, d.Clean.Text, d.Clean.Status, d.Corrupted.Text, d.Corrupted.Status)
	return d
}
