package misc

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// GetConfigValueRequired reads a config value from SQLite.
// It panics if the value is empty or missing.
func GetConfigValueRequired(section, key string) string {
	value := strings.TrimSpace(dbGet(section, key))
	if value == "" {
		log.Fatal(fmt.Sprintf("config %s:%s is empty — fill it in before starting", section, key))
	}
	return value
}

// GetConfigValueDefault reads a config value from SQLite.
// Returns defaultValue if the key is missing or empty.
func GetConfigValueDefault(section, key string, defaultValue string) string {
	value := strings.TrimSpace(dbGet(section, key))
	if value == "" {
		return defaultValue
	}
	return value
}

// SetConfigValue writes a config value to SQLite.
func SetConfigValue(section, key, value string) error {
	return dbSet(section, key, value)
}

// GetMaxTokens returns the maximum completion length sent with every request.
func GetMaxTokens() int {
	num := GetConfigValueDefault("main_setting", "MaxTokens", "256")
	result, err := strconv.Atoi(num)
	if err != nil || result <= 0 {
		return 256
	}
	return result
}

// GetHTTPTimeout returns the gateway HTTP timeout in seconds.
func GetHTTPTimeout() int {
	num := GetConfigValueDefault("main_setting", "HTTPTimeout", "60")
	result, err := strconv.Atoi(num)
	if err != nil || result <= 0 {
		return 60
	}
	return result
}

// GetQueueDepth returns the user-input queue depth for the orchestrator.
func GetQueueDepth() int {
	num := GetConfigValueDefault("misc", "QueueDepth", "8")
	result, err := strconv.Atoi(num)
	if err != nil || result <= 0 {
		return 8
	}
	return result
}
