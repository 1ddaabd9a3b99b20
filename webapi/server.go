package webapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"
)

const shutdownTimeout = 5 * time.Second

// Server runs the HTTP endpoint.
type Server interface {
	// Serve accepts connections on lis until ctx is done, then shuts down gracefully.
	Serve(ctx context.Context, lis net.Listener) error
}

type serverImpl struct {
	logger         zerolog.Logger
	handler        http.Handler
	maxConnections int
}

// NewServer creates a Server. maxConnections <= 0 means the number of connections is not capped.
func NewServer(logger zerolog.Logger, handler http.Handler, maxConnections int) Server {
	return &serverImpl{
		logger:         logger,
		handler:        handler,
		maxConnections: maxConnections,
	}
}

func (s *serverImpl) Serve(ctx context.Context, lis net.Listener) (err error) {
	if s.maxConnections > 0 {
		lis = netutil.LimitListener(lis, s.maxConnections)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info().Str("address", lis.Addr().String()).Msg("Starting HTTP server")
	err = srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		err = <-shutdownErr
	}

	return
}
