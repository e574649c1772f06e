package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Username: "qualiflow",
		Password: "p@ss:word",
		Name:     "qualiflow_db",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "qualiflow_db")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss:word", "special characters in the password must be escaped")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Username: "user",
			Password: "pass",
			Name:     "db",
		},
		Storage: StorageConfig{Type: "local"},
	}
	assert.NoError(t, valid.Validate())

	t.Run("Missing Database Fields", func(t *testing.T) {
		cfg := valid
		cfg.Database.Host = ""
		assert.Error(t, cfg.Validate())

		cfg = valid
		cfg.Database.Password = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown Storage Type", func(t *testing.T) {
		cfg := valid
		cfg.Storage.Type = "ftp"
		assert.Error(t, cfg.Validate())
	})

	t.Run("S3 Storage Type", func(t *testing.T) {
		cfg := valid
		cfg.Storage.Type = "s3"
		assert.NoError(t, cfg.Validate())
	})
}
