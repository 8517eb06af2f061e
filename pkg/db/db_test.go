package db

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/glucova-service/pkg/common"
	_ "liyu1981.xyz/glucova-service/pkg/testing"

	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{"users", "devices", "records", "alerts", "contacts"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())

	var enabled int
	require.NoError(t, instance.Conn.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instances <- GetInstance(UseMemorySqliteDialector())
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestDialectorFor(t *testing.T) {
	cases := map[string]string{
		common.DBTypeFile:     "sqlite",
		common.DBTypeMemory:   "sqlite",
		common.DBTypePostgres: "postgres",
	}
	for dbType, name := range cases {
		d, err := DialectorFor(&common.Config{DBType: dbType, PostgresDSN: "host=localhost"})
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := DialectorFor(&common.Config{DBType: "mongo"})
	assert.Error(t, err)
}
