package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type SeedConfig struct {
	File string
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, checking environment variables")
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	// Explicitly bind environment variables for robustness
	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	AppConfig = &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Seed: SeedConfig{
			File: viper.GetString("SEED_FILE"),
		},
	}

	log.Info().
		Str("server_port", AppConfig.Server.Port).
		Str("server_env", AppConfig.Server.Env).
		Str("db_host", AppConfig.Database.Host).
		Str("db_name", AppConfig.Database.Name).
		Bool("database_url_set", AppConfig.Database.URL != "").
		Str("seed_file", AppConfig.Seed.File).
		Msg("Configuration loaded successfully")
}
