package main

import (
	"os"
	"strconv"

	"github.com/mcdev12/draftleague/go/internal/dbconfig"
)

const (
	storeDriverMemory   = "memory"
	storeDriverPostgres = "postgres"
)

// Config is the server's environment-driven configuration.
type Config struct {
	Port        string
	RulesPath   string
	StoreDriver string
	LogLevel    string
	PrettyLogs  bool
	Database    dbconfig.Config
}

func loadConfig() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		RulesPath:   getEnv("RULES_PATH", "rules.yaml"),
		StoreDriver: getEnv("STORE_DRIVER", storeDriverPostgres),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		PrettyLogs:  getEnvAsBool("LOG_PRETTY", true),
		Database:    dbconfig.NewConfigFromEnv(),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
