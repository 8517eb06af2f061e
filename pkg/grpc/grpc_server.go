package grpc

import (
	"context"
	"sort"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zconst"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/glucova-service/pkg/apperrors"
	"liyu1981.xyz/glucova-service/pkg/models"
	"liyu1981.xyz/glucova-service/pkg/monitor"
)

// AlertServer exposes unauthenticated alert ingestion to devices.
type AlertServer struct {
	Monitor *monitor.Monitor
}

type createAlertRequest struct {
	DeviceID string  `zog:"device_id"`
	Level    *string `zog:"level"`
	Message  *string `zog:"message"`
}

var createAlertRequestSchema = z.Struct(z.Shape{
	"deviceID": z.String().Trim().Min(1).Required(),
	"level":    z.Ptr(z.String()),
	"message":  z.Ptr(z.String()),
})

func (s *AlertServer) CreateAlert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req createAlertRequest
	if errs := createAlertRequestSchema.Parse(in.AsMap(), &req); errs != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, issuesMessage(errs))
	}

	alert, err := s.Monitor.Alert.CreateAlert(&models.AlertInput{
		DeviceID: req.DeviceID,
		Level:    req.Level,
		Message:  req.Message,
	})
	if err != nil {
		return nil, err
	}

	return alertToStruct(alert)
}

// issuesMessage flattens zog issues into "field: message" pairs, sorted by field.
func issuesMessage(issues z.ZogIssueMap) string {
	fields := make([]string, 0, len(issues))
	for field := range issues {
		if field != zconst.ISSUE_KEY_FIRST {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs := z.Issues.SanitizeList(issues[field])
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}

func alertToStruct(alert *models.Alert) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":        alert.ID,
		"device_id": alert.DeviceID,
		"level":     string(alert.Level),
		"timestamp": alert.Timestamp.UTC().Format(time.RFC3339Nano),
		"message":   nil,
	}
	if alert.Message != nil {
		fields["message"] = *alert.Message
	}
	return structpb.NewStruct(fields)
}
