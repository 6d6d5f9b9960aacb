// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds everything the binary needs at startup. Zero-value-friendly:
// an empty BrokerURL selects the in-process loopback bus, an empty RedisAddr
// selects the in-memory cart store.
type Config struct {
	Host string
	Port int

	// BrokerURL is the base URL of the external pub/sub broker. When empty,
	// events are dispatched in-process through the loopback bus.
	BrokerURL string

	// ProductServiceURL is the base URL for synchronous product lookups from
	// the cart module. Defaults to this process's own address.
	ProductServiceURL string

	// RedisAddr selects the Redis-backed cart store when set.
	RedisAddr string

	// SimulateFailures enables the payment failure injector.
	SimulateFailures bool
	// FailureRate is the probability of an injected payment failure.
	FailureRate float64
}

func Load() Config {
	return Config{
		Host:              getEnv("HOST", ""),
		Port:              getEnvInt("PORT", 8080),
		BrokerURL:         getEnv("BROKER_URL", ""),
		ProductServiceURL: getEnv("PRODUCT_SERVICE_URL", "http://localhost:8080"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		SimulateFailures:  getEnvBool("SIMULATE_FAILURES", false),
		FailureRate:       getEnvFloat("FAILURE_RATE", 0.1),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
