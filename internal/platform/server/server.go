// Package server は HTTP API サーバーとヘルスチェック用 gRPC サーバーのライフサイクルを管理します。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/platform/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HTTPServer は HTTP サーバーのライフサイクルを管理します。
type HTTPServer struct {
	listenAddr      string
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewHTTP は指定されたアドレスで待ち受ける HTTP サーバーを構築します。
func NewHTTP(listenAddr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) *HTTPServer {
	logger = logging.OrDiscard(logger)
	return &HTTPServer{
		listenAddr: listenAddr,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("http server listening", "addr", lis.Addr().String())

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}

// HealthServer は grpc.health.v1.Health を公開する gRPC サーバーです。
type HealthServer struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewHealth はヘルスチェック用 gRPC サーバーを構築します。起動直後から SERVING を返します。
func NewHealth(listenAddr string, logger *slog.Logger, opts ...grpc.ServerOption) *HealthServer {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &HealthServer{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		logger:     logging.OrDiscard(logger),
	}
}

// SetServing はサービス単位の状態を設定します。service が空の場合はサーバー全体の状態です。
func (s *HealthServer) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Run はサーバーを起動し、コンテキストがキャンセルされると NOT_SERVING にしてから GracefulStop します。
func (s *HealthServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("grpc health server listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}
