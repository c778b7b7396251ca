package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

const (
	LogModeDevelopment = "development"
	LogModeProduction  = "production"
)

var Module = fx.Provide(NewConfig)

type (
	Config struct {
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		GRPCPort string `mapstructure:"GRPC_PORT"`

		Neo4jURI      string `mapstructure:"NEO4J_URI"`
		Neo4jUser     string `mapstructure:"NEO4J_USER"`
		Neo4jPassword string `mapstructure:"NEO4J_PASSWORD"`
		Neo4jDatabase string `mapstructure:"NEO4J_DATABASE"`

		JWTSecret  string        `mapstructure:"JWT_SECRET"`
		TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
		BcryptCost int           `mapstructure:"BCRYPT_COST"`

		CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
		LoginRate   float64  `mapstructure:"LOGIN_RATE"`
		LoginBurst  int      `mapstructure:"LOGIN_BURST"`

		LogMode string `mapstructure:"LOG_MODE"`
	}
)

var envs = []string{
	"HOST", "PORT", "GRPC_PORT",
	"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"JWT_SECRET", "TOKEN_TTL", "BCRYPT_COST",
	"CORS_ORIGINS", "LOGIN_RATE", "LOGIN_BURST",
	"LOG_MODE",
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECOMMENDER")

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("GRPC_PORT", "9000")
	v.SetDefault("NEO4J_URI", "neo4j://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "password")
	v.SetDefault("NEO4J_DATABASE", "neo4j")
	v.SetDefault("JWT_SECRET", "super-secret-dev-key")
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("CORS_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("LOGIN_RATE", 5)
	v.SetDefault("LOGIN_BURST", 10)
	v.SetDefault("LOG_MODE", LogModeDevelopment)

	for _, key := range envs {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Neo4jURI)
	if err != nil {
		return errors.Wrap(err, "parse NEO4J_URI")
	}
	switch u.Scheme {
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
	default:
		return errors.New(fmt.Sprintf("NEO4J_URI scheme is invalid: %s", u.Scheme))
	}

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL < 0 {
		return errors.New(fmt.Sprintf("TOKEN_TTL must not be negative: %s", cfg.TokenTTL))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return errors.New(fmt.Sprintf("BCRYPT_COST is out of range: %d", cfg.BcryptCost))
	}
	if cfg.LoginRate <= 0 {
		return errors.New(fmt.Sprintf("LOGIN_RATE must be positive: %v", cfg.LoginRate))
	}

	validModes := []string{LogModeDevelopment, LogModeProduction}
	for _, validValue := range validModes {
		if cfg.LogMode == validValue {
			return nil
		}
	}
	return errors.New(fmt.Sprintf("LOG_MODE is invalid: %s", cfg.LogMode))
}
