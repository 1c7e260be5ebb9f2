package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	DatabaseURL      string `env:"DATABASE_URL"`

	JWTSecret string `env:"JWT_SECRET"`

	//テナントの決済secretを暗号化するマスターキー
	MasterKey string `env:"PLATFORM_MASTER_KEY"`

	//プラットフォーム自身のサブスク課金用の鍵ペア
	PlatformKeyID     string `env:"PLATFORM_PAYMENT_KEY_ID"`
	PlatformKeySecret string `env:"PLATFORM_PAYMENT_KEY_SECRET"`

	//未設定ならイベント発行はスキップ
	RabbitURL string `env:"RABBITMQ_URL"`

	//在庫調整ワーカー
	StockWorkerInterval int `env:"STOCK_WORKER_INTERVAL_SEC" envDefault:"10"`
	StockWorkerAttempts int `env:"STOCK_WORKER_MAX_ATTEMPTS" envDefault:"5"`

	GoEnv string `env:"GO_ENV" envDefault:"dev"`
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MasterKey == "" {
		return Config{}, fmt.Errorf("PLATFORM_MASTER_KEY is required")
	}
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}

	return cfg, nil
}
