// Package grpc реализует gRPC сервер со стандартным сервисом здоровья
// grpc.health.v1.Health и reflection для оркестраторов и отладки.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName имя сервиса, статус которого отражает доступность хранилища
const ServiceName = "grammar.practice"

// CheckFunc проверяет доступность зависимостей сервиса
type CheckFunc func(ctx context.Context) error

// Server gRPC сервер здоровья
type Server struct {
	server *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// NewServer создает новый gRPC сервер
func NewServer(log *zap.Logger) *Server {
	s := &Server{
		server: grpc.NewServer(),
		health: health.NewServer(),
		log:    log,
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetServing меняет статус ServiceName
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
}

// Watch периодически вызывает check и обновляет статус до отмены ctx
func (s *Server) Watch(ctx context.Context, check CheckFunc, interval time.Duration) {
	probe := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := check(checkCtx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			s.SetServing(false)
			return
		}
		s.SetServing(true)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Serve обслуживает запросы на lis до остановки сервера
func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Start запускает gRPC сервер на указанном порту
func (s *Server) Start(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("не удалось запустить listener: %w", err)
	}

	s.log.Info("gRPC server listening", zap.Int("port", port))
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("ошибка запуска gRPC сервера: %w", err)
	}
	return nil
}

// Stop останавливает сервер, дожидаясь завершения активных вызовов
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
