package models

import "time"

// Config represents the application configuration
type Config struct {
	Client   ClientConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// ClientConfig holds settings for the balance API client
type ClientConfig struct {
	BaseURL        string
	TokenEnv       string
	RequestTimeout time.Duration
	DepositTimeout time.Duration
	MaxIdleConns   int
	EnableHTTP2    bool
}

// DatabaseConfig holds sandbox database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// ServerConfig holds sandbox backend settings
type ServerConfig struct {
	Addr          string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUpiId    string
	PublicBaseURL string
	MaxBodyBytes  int64
}
