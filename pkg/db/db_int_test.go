package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"liyu1981.xyz/glucova-service/pkg/common"
)

func TestFileSqliteWithEnvPath(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(common.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	testPath := filepath.Join(t.TempDir(), "test.db")
	t.Setenv(common.EnvKeyGlucovaDBPath, testPath)

	cfg, err := common.LoadConfigFrom(map[string]string{
		"GLUCOVA_JWT_SECRET": "secret",
		"GLUCOVA_DB_PATH":    os.Getenv(common.EnvKeyGlucovaDBPath),
	})
	require.NoError(t, err)

	dialector, err := DialectorFor(cfg)
	require.NoError(t, err)

	// a separate connection, the singleton belongs to the memory tests
	instance, err := Open(dialector)
	require.NoError(t, err)
	require.NoError(t, instance.Migrate())

	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Errorf("Expected database file to be created at %s", testPath)
	}
}
