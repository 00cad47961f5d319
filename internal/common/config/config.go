package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config is the full application configuration, loaded from a JSON file
// or from Consul KV (see consul_kv.go).
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Auth      AuthConfig      `json:"auth"`
	Store     StoreConfig     `json:"store"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Consul    ConsulConfig    `json:"consul"`
	Jaeger    JaegerConfig    `json:"jaeger"`
	Log       LogConfig       `json:"log"`
}

type ServerConfig struct {
	Name string `json:"name"` // service name, also used for Consul registration
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	MaxIdle  int    `json:"max_idle"`
	MaxOpen  int    `json:"max_open"`
}

// AuthConfig drives JWT issuing and verification for the admin back office.
type AuthConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	Issuer          string `json:"issuer"`
	Audience        string `json:"audience"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

// StoreConfig bounds record-store calls. Expired calls surface as
// errs.ErrStoreUnavailable.
type StoreConfig struct {
	TimeoutSeconds int `json:"timeout_seconds"`
}

// RateLimitConfig configures the token bucket in front of the public API.
type RateLimitConfig struct {
	Capacity  int64 `json:"capacity"`
	PerSecond int64 `json:"per_second"`
	Disabled  bool  `json:"disabled"`
}

type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 0.0-1.0
}

type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig reads the JSON config file at configPath. A missing file is not
// fatal: development defaults are used instead.
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// GetConfig returns the loaded config, falling back to defaults when
// LoadConfig has not run.
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "driveport",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "driveport",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Auth: AuthConfig{
			JWTSecret:       "dev-only-secret",
			Issuer:          "driveport",
			Audience:        "driveport-admin",
			TokenTTLMinutes: 24 * 60,
		},
		Store: StoreConfig{
			TimeoutSeconds: 5,
		},
		RateLimit: RateLimitConfig{
			Capacity:  50,
			PerSecond: 25,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
