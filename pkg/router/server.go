package router

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 优雅退出时等待进行中请求的最长时间
const shutdownTimeout = 10 * time.Second

// Server http 服务，Start 阻塞直到服务停止
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer ...
func NewServer(addr string, handler http.Handler, logger *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start ...
func (s *Server) Start() error {
	s.logger.Infof("http server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

// Stop 优雅退出，cause 为触发退出的原因
func (s *Server) Stop(cause error) {
	s.logger.Infof("http server stopping: %v", cause)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Error("http server shutdown failed")
	}
}
