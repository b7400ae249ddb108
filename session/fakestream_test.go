package session

import (
	"io"

	"github.com/sage-x-project/licguard/wire"
)

// pairedStream connects a fake server and client in-process over
// buffered channels, so the FSMs can be exercised without a real gRPC
// transport.
type pairedStream struct {
	toServer chan *wire.ClientMessage
	toClient chan *wire.ServerMessage
	closed   chan struct{}
}

func newPairedStream() *pairedStream {
	return &pairedStream{
		toServer: make(chan *wire.ClientMessage, 8),
		toClient: make(chan *wire.ServerMessage, 8),
		closed:   make(chan struct{}),
	}
}

func (p *pairedStream) serverSide() ServerStream { return &serverSideStream{p} }
func (p *pairedStream) clientSide() ClientStream { return &clientSideStream{p} }

func (p *pairedStream) closeClient() {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
}

type serverSideStream struct{ p *pairedStream }

func (s *serverSideStream) Send(m *wire.ServerMessage) error {
	select {
	case s.p.toClient <- m:
		return nil
	case <-s.p.closed:
		return io.EOF
	}
}

func (s *serverSideStream) Recv() (*wire.ClientMessage, error) {
	select {
	case m := <-s.p.toServer:
		return m, nil
	case <-s.p.closed:
		return nil, io.EOF
	}
}

type clientSideStream struct{ p *pairedStream }

func (c *clientSideStream) Send(m *wire.ClientMessage) error {
	select {
	case c.p.toServer <- m:
		return nil
	case <-c.p.closed:
		return io.EOF
	}
}

func (c *clientSideStream) Recv() (*wire.ServerMessage, error) {
	select {
	case m := <-c.p.toClient:
		return m, nil
	case <-c.p.closed:
		return nil, io.EOF
	}
}
