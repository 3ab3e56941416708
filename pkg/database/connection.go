package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invoice-app/config"
)

var DB *gorm.DB

func Connect() {
	var dsn string

	// Prioritize DATABASE_URL if provided (common on Render/SkySQL)
	if config.AppConfig.Database.URL != "" {
		log.Info().Msg("Using DATABASE_URL for connection")
		dsn = urlToDSN(config.AppConfig.Database.URL)
	} else {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.AppConfig.Database.User,
			config.AppConfig.Database.Password,
			config.AppConfig.Database.Host,
			config.AppConfig.Database.Port,
			config.AppConfig.Database.Name,
		)
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database instance")
	}

	// Connection pooling configuration
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Msg("Database connection established successfully")
}

// urlToDSN converts a mysql:// or mariadb:// URL into the DSN format the
// driver expects: user:pass@tcp(host:port)/dbname?params.
func urlToDSN(raw string) string {
	if !strings.HasPrefix(raw, "mysql://") && !strings.HasPrefix(raw, "mariadb://") {
		return raw
	}

	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "mysql://"), "mariadb://")
	parts := strings.SplitN(trimmed, "@", 2)
	if len(parts) != 2 {
		return raw
	}
	creds, rest := parts[0], parts[1]

	hostParts := strings.SplitN(rest, "/", 2)
	if len(hostParts) != 2 {
		return raw
	}
	hostPort, dbName := hostParts[0], hostParts[1]

	params := "?charset=utf8mb4&parseTime=True&loc=UTC"
	if strings.Contains(dbName, "?") {
		dbParts := strings.SplitN(dbName, "?", 2)
		dbName = dbParts[0]
		params = "?" + dbParts[1]
	}

	return fmt.Sprintf("%s@tcp(%s)/%s%s", creds, hostPort, dbName, params)
}
