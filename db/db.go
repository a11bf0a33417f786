// db/db.go
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/phishnheat/backend/config"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

var DB *gorm.DB

// InitSQLite opens the incident database and runs migrations. The parent
// directory is created on first run so a fresh checkout starts cleanly.
func InitSQLite() error {
	path := config.GetString("database.path")
	logger.Info("Opening SQLite database", zap.String("path", path))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := DB.AutoMigrate(&model.PhishingIncident{}, &model.CacheMetadata{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	logger.Info("Successfully initialized SQLite database")
	return nil
}

func CloseSQLite() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("Error retrieving SQLite connection", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing SQLite connection", zap.Error(err))
	} else {
		logger.Info("SQLite connection closed successfully")
	}
}
