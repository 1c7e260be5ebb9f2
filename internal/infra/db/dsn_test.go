package db

import (
	"testing"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN_PrefersDatabaseURL(t *testing.T) {
	cfg := config.Config{
		DatabaseURL:  "postgres://app:secret@db:5432/app",
		PostgresHost: "ignored",
		PostgresPort: 9999,
	}
	assert.Equal(t, "postgres://app:secret@db:5432/app", buildDSN(cfg))
}

func TestBuildDSN_FromDiscreteSettings(t *testing.T) {
	cfg := config.Config{
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "app",
		PostgresPassword: "secret",
		PostgresDB:       "orders",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=orders sslmode=disable",
		buildDSN(cfg))
}
