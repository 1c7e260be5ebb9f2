package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"app/internal/config"
)

// Connect は設定からDSNを組み立てて *gorm.DB を返す。
// 必須項目の検証はconfig.Load側で済んでいる前提。
func Connect(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{})
}

func buildDSN(cfg config.Config) string {
	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)
}
