package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/glucova-service/pkg/auth"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/db"
	glucovaGrpc "liyu1981.xyz/glucova-service/pkg/grpc"
	glucovaHttp "liyu1981.xyz/glucova-service/pkg/http"
	"liyu1981.xyz/glucova-service/pkg/monitor"
)

func main() {
	var err error

	if err = godotenv.Load(); err != nil {
		if common.IsProduction() {
			log.Fatal("Error loading .env file: ", err)
		}
		log.Println("No .env file loaded, copy .env.example to .env first if in development")
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	common.InitLogger(cfg.LogOptions())
	logger := common.GetLogger()

	dialector, err := db.DialectorFor(cfg)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance := db.GetInstance(dialector)

	// one store so HTTP and gRPC ingestion share each device's budget
	limiters := monitor.NewRateLimiterStore(rate.Limit(cfg.AlertRate), cfg.AlertBurst)

	monitorCore := &monitor.Monitor{
		Db:          *dbInstance,
		Tokens:      auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Passwords:   auth.NewPasswordHasher(cfg.PasswordCost),
		Limiters:    limiters,
		MaxPageSize: cfg.MaxPageSize,
	}
	monitorCore.WithDefaultServices()

	logger.Info("Core created with:",
		zap.String("environment", cfg.Environment),
		zap.String("db_type", cfg.DBType),
		zap.Float64("default_alert_rate", cfg.AlertRate),
		zap.Int("default_alert_burst", cfg.AlertBurst),
		zap.Duration("token_ttl", cfg.TokenTTL),
	)

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		alertServer := glucovaGrpc.AlertServer{Monitor: monitorCore}
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(alertServer.CreateStatusInterceptor()))
		glucovaGrpc.RegisterDeviceAlertServiceServer(grpcServer, &alertServer)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		go func() {
			logger.Info("Starting gRPC server on: " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &glucovaHttp.RestfulServer{
		Server:      gin.Default(),
		Monitor:     monitorCore,
		CORSOrigins: cfg.CORSOrigins,
	}
	rs.Setup()

	srv := &http.Server{
		Addr:              cfg.HttpHostPort,
		Handler:           rs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	_ = logger.Sync()
	logger.Info("Server stopped")
}
