package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Auth: AuthConfig{
			JWTSecret: "test-secret",
		},
		Encryption: EncryptionConfig{
			Key: "01234567890123456789012345678901",
		},
		Sender: SenderConfig{
			AllowSMTPFallback: true,
			MinDelay:          time.Second,
			MaxDelay:          2 * time.Second,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	noPort := validConfig()
	noPort.Server.Port = ""
	assert.Error(t, noPort.Validate())

	noSecret := validConfig()
	noSecret.Auth.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	shortKey := validConfig()
	shortKey.Encryption.Key = "too-short"
	assert.Error(t, shortKey.Validate())

	badDelays := validConfig()
	badDelays.Sender.MinDelay = 3 * time.Second
	badDelays.Sender.MaxDelay = time.Second
	assert.Error(t, badDelays.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := config.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}

func TestDefaults(t *testing.T) {
	config, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "8080", config.Server.Port)
	assert.True(t, config.Sender.AllowSMTPFallback)
	assert.Equal(t, time.Second, config.Sender.MinDelay)
	assert.Equal(t, 2*time.Second, config.Sender.MaxDelay)
	assert.Equal(t, "https://openrouter.ai/api/v1", config.OpenRouter.BaseURL)
	assert.NotEmpty(t, config.OpenRouter.Models)
}
