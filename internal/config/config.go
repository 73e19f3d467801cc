package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	JWT        JWTConfig
	Token      TokenConfig
	Wheel      WheelConfig
	Superadmin SuperadminConfig
	LogLevel   string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	Debug        bool
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// TokenConfig bounds token issuance
type TokenConfig struct {
	ExpiryHours  int // lifetime of a freshly issued token
	MaxBatchSize int // upper bound on tokens per create request
	CodeLength   int // token code length (uppercase alphanumerics)
}

// WheelConfig holds display wheel configuration
type WheelConfig struct {
	Slots int // fixed number of wheel positions
}

// SuperadminConfig seeds the initial superadmin account on startup
type SuperadminConfig struct {
	Username string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyEnvOverrides(&config)

	return &config, nil
}

// applyEnvOverrides lets flat deployment variables win over the config file.
// Hosting platforms inject PORT and MONGODB_URI directly; the dotted viper
// keys are not reachable from a plain environment.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	cfg.Server.AllowedHosts = GetEnvAsSlice("ALLOWED_HOSTS", ",", cfg.Server.AllowedHosts)
	cfg.Server.Debug = GetEnvAsBool("DEBUG", cfg.Server.Debug)
	cfg.MongoDB.URI = GetEnv("MONGODB_URI", cfg.MongoDB.URI)
	cfg.MongoDB.Database = GetEnv("MONGODB_DATABASE", cfg.MongoDB.Database)
	cfg.JWT.Secret = GetEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.ExpiresIn = GetEnvAsInt("JWT_EXPIRES_IN", cfg.JWT.ExpiresIn)
	cfg.Token.ExpiryHours = GetEnvAsInt("TOKEN_EXPIRY_HOURS", cfg.Token.ExpiryHours)
	cfg.Token.MaxBatchSize = GetEnvAsInt("TOKEN_MAX_BATCH_SIZE", cfg.Token.MaxBatchSize)
	cfg.Wheel.Slots = GetEnvAsInt("WHEEL_SLOTS", cfg.Wheel.Slots)
	cfg.Superadmin.Username = GetEnv("SUPERADMIN_USERNAME", cfg.Superadmin.Username)
	cfg.Superadmin.Password = GetEnv("SUPERADMIN_PASSWORD", cfg.Superadmin.Password)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "spinwheel")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Token.ExpiryHours", 48)
	viper.SetDefault("Token.MaxBatchSize", 100)
	viper.SetDefault("Token.CodeLength", 8)
	viper.SetDefault("Wheel.Slots", 8)
	viper.SetDefault("Superadmin.Username", "superadmin")
	viper.SetDefault("LogLevel", "info")
}
