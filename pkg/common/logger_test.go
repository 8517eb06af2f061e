package common

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/glucova-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestCoreLoggerCategory(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	CoreLogger(LoggerCategoryDevice).Info("Device created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, LoggerNameGlucovaCore, line["logger"])
	assert.Equal(t, LoggerCategoryDevice, line["category"])
	assert.Equal(t, "Device created", line["msg"])
}

func TestCaptureLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.WarnLevel)

	GetLogger().Info("quiet")
	GetLogger().Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

// meant to be run with -race: request goroutines only read the shared logger
func TestConcurrentLoggerAccess(t *testing.T) {
	SetTestLoggerNop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l := CoreLogger(LoggerCategoryRecord)
				assert.NotNil(t, l)
				l.Debug("concurrent", zap.Int("j", j))
				GetLogger().Debug("concurrent")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			SetTestLoggerNop()
		}
	}()
	wg.Wait()
}
