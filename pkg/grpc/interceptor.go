package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/common"
)

// CreateStatusInterceptor turns domain errors returned by handlers into gRPC
// statuses and logs each call. Internal causes are logged, never sent.
func (s *AlertServer) CreateStatusInterceptor() grpc.UnaryServerInterceptor {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err == nil {
			logger.Info("Call served", zap.String("method", info.FullMethod), zap.Duration("took", time.Since(start)))
			return resp, nil
		}

		if _, ok := status.FromError(err); ok {
			return nil, err
		}

		appErr := apperrors.From(err)
		code := appErr.Code.GRPCCode()
		if appErr.Code == apperrors.CodeInternal {
			logger.Error("Call failed", zap.String("method", info.FullMethod), zap.Error(err))
		} else {
			logger.Info("Call rejected", zap.String("method", info.FullMethod), zap.String("code", string(appErr.Code)))
		}
		return nil, status.Error(code, appErr.PublicMessage())
	}
}
