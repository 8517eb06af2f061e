package db

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"liyu1981.xyz/glucova-service/pkg/common"
	"liyu1981.xyz/glucova-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance opens and migrates the process-wide store on first call.
// Every later call returns the same instance regardless of dialector.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		if instance, err = Open(dialector); err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		if err = instance.Migrate(); err != nil {
			log.Fatal("Failed to migrate database: ", err)
		}
	})
	return instance
}

// Open connects without migrating and without touching the singleton.
func Open(dialector gorm.Dialector) (*DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	common.GetLogger().Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if dialector.Name() == "sqlite" {
		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("set sqlite journal mode: %w", err)
		}
	}

	return &DB{Conn: conn}, nil
}

func (d *DB) Migrate() error {
	if err := d.Conn.AutoMigrate(models.AllModels()...); err != nil {
		return err
	}
	common.GetLogger().Info("Database migration completed")
	return nil
}

// UseSqliteDialector opens a file database with foreign keys enforced on every pooled connection.
func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = "glucova.db"
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return sqlite.Open(dbPath + sep + "_foreign_keys=on")
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared&_foreign_keys=on")
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

// UsePostgresConnDialector wraps an existing connection, e.g. a sqlmock one.
func UsePostgresConnDialector(conn *sql.DB) gorm.Dialector {
	return postgres.New(postgres.Config{Conn: conn})
}

// DialectorFor picks the dialector named by cfg.DBType.
func DialectorFor(cfg *common.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case common.DBTypeFile:
		return UseSqliteDialector(cfg.DBPath), nil
	case common.DBTypeMemory:
		return UseMemorySqliteDialector(), nil
	case common.DBTypePostgres:
		return UsePostgresDialector(cfg.PostgresDSN), nil
	default:
		return nil, fmt.Errorf("unknown %s: %s", common.EnvKeyGlucovaDBType, cfg.DBType)
	}
}
