package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database named by the environment: DB_DRIVER selects
// mysql (default) or sqlite, DB_DSN carries the connection string.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey regardless of driver; the open-shift and review
// invariants depend on that.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")

	cfg := &gorm.Config{TranslateError: true}

	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "gigwork.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "mysql", "":
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				getenv("DB_USER", "root"),
				os.Getenv("DB_PASSWORD"),
				getenv("DB_HOST", "127.0.0.1"),
				getenv("DB_PORT", "3306"),
				getenv("DB_NAME", "gigwork"))
		}
		return gorm.Open(mysql.Open(dsn), cfg)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
