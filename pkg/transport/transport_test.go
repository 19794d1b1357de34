package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Linksim/pkg/async"
	"Linksim/pkg/channel"
	"Linksim/pkg/layers"
	"Linksim/pkg/wire"
)

const TIMEOUT = 5 * time.Second

func startServer(t *testing.T) (*Server, context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer("127.0.0.1:0", nil)
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx)
	}()
	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server stopped: %v", err)
	case <-time.After(TIMEOUT):
		t.Fatal("server not ready")
	}
	return s, cancel, done
}

func next(t *testing.T, s *Server) Delivery {
	select {
	case d, ok := <-s.Results:
		require.True(t, ok, "results closed")
		return d
	case <-time.After(TIMEOUT):
		t.Fatal("no delivery")
	}
	return Delivery{}
}

func TestServerDelivers(t *testing.T) {
	s, cancel, done := startServer(t)

	c := layers.DefaultConfig()
	c.Correction = true
	sender, err := layers.NewPipeline(c, &channel.Injector{Mode: channel.SingleBit, Index: 10}, nil)
	require.NoError(t, err)

	client := &Client{Addr: s.ListenAddr().String()}
	require.NoError(t, client.Dial(context.Background()))
	defer client.Close()

	for _, text := range []string{"Hi", "olá"} {
		tx, err := sender.Transmit(text)
		require.NoError(t, err)
		id, err := async.AwaitResult(client.TransmitAsync(context.Background(), tx))
		require.NoError(t, err)

		d := next(t, s)
		require.NoError(t, d.Err)
		assert.Equal(t, id, d.ID)
		assert.Equal(t, text, d.Text)
		assert.True(t, d.ContainsError)
		assert.Equal(t, text, d.Clean.Text)
		assert.Equal(t, layers.StatusOK, d.Clean.Status)
		assert.Equal(t, text, d.Corrupted.Text)
		assert.Equal(t, layers.StatusCorrected, d.Corrupted.Status)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(TIMEOUT):
		t.Fatal("server did not stop")
	}
	_, ok := <-s.Results
	assert.False(t, ok)
}

func TestServerBadPayload(t *testing.T) {
	s, cancel, _ := startServer(t)
	defer cancel()

	client := &Client{Addr: s.ListenAddr().String()}
	require.NoError(t, client.Dial(context.Background()))
	defer client.Close()

	require.NoError(t, client.Send(context.Background(), wire.Payload{Names: layers.Names{Framing: "?"}}))
	d := next(t, s)
	assert.ErrorIs(t, d.Err, layers.ErrConfiguration)
}

func TestServerShortPayload(t *testing.T) {
	s, cancel, _ := startServer(t)
	defer cancel()

	conn, err := net.Dial("tcp", s.ListenAddr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte{0, 0, 1, 0, '{'})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	d := next(t, s)
	assert.ErrorIs(t, d.Err, wire.ErrShortPayload)
}

func TestClientNotConnected(t *testing.T) {
	client := &Client{Addr: "127.0.0.1:1"}
	assert.ErrorIs(t, client.Send(context.Background(), wire.Payload{}), ErrNotConnected)
	assert.NoError(t, client.Close())
}

func TestServerListenFails(t *testing.T) {
	s := NewServer("127.0.0.1:-1", nil)
	err := s.ListenAndServe(context.Background())
	require.Error(t, err)

	addr := make(chan net.Addr, 1)
	go func() { addr <- s.ListenAddr() }()
	select {
	case a := <-addr:
		assert.Nil(t, a)
	case <-time.After(TIMEOUT):
		t.Fatal("ListenAddr blocked after a failed listen")
	}
	_, ok := <-s.Results
	assert.False(t, ok)
}
