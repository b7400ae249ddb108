// Package server wires the Heartbeat session FSM to a gRPC listener.
package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/wire"
)

// AuthorityServer adapts session.Server to wire.AuthorityServer: one
// Heartbeat call is one bidirectional stream, and one stream is one
// session, spawned and run to completion on its own goroutine by gRPC.
type AuthorityServer struct {
	Session *session.Server
}

var _ wire.AuthorityServer = (*AuthorityServer)(nil)

// Heartbeat implements wire.AuthorityServer. The
// grpc.BidiStreamingServer[ClientMessage, ServerMessage] grpc hands in
// already satisfies session.ServerStream, so it is passed straight
// through. Its error return is already a gRPC status (deadline_exceeded,
// invalid_argument, or internal) or nil; gRPC reports it to the client
// as the RPC's final status.
func (a *AuthorityServer) Heartbeat(stream grpc.BidiStreamingServer[wire.ClientMessage, wire.ServerMessage]) error {
	return a.Session.Handle(stream.Context(), stream)
}

// Listen starts a gRPC server exposing the Authority service on addr
// and serves until ctx is canceled.
func Listen(ctx context.Context, addr string, sess *session.Server, log logger.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	}

	gs := grpc.NewServer(wire.ServerOption())
	wire.RegisterAuthorityServer(gs, &AuthorityServer{Session: sess})

	errCh := make(chan error, 1)
	go func() {
		log.Info("authority server listening", logger.String("addr", addr))
		errCh <- gs.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
