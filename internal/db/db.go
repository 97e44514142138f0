package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Nextbrand18/connectapp/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database for the given DSN. postgres:// DSNs use the
// postgres driver; anything else is treated as a sqlite path. Connection
// attempts are retried to give the database time to come up.
func Connect(dsn string) (*gorm.DB, error) {
	dialector := sqlite.Open(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(dialector, &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("db connect attempt %d/5 failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return conn, nil
}

// Migrate applies the schema for all persisted entities.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.User{}, &models.Link{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
