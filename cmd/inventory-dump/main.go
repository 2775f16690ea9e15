// Command inventory-dump streams a remote inventory collection to stdout as
// newline-delimited JSON, one decoded device per line.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sternwerk/inventory-client/pkg/client"
	"github.com/sternwerk/inventory-client/pkg/inventory"
	"github.com/sternwerk/inventory-client/pkg/logging"
)

func main() {
	// Configuration from environment
	endpointURL := getEnv("INVENTORY_URL", "https://inventory.example.com")
	username := os.Getenv("INVENTORY_USERNAME")
	password := os.Getenv("INVENTORY_PASSWORD")
	resourcePath := getEnv("INVENTORY_RESOURCE", "/api/v1/devices")
	rawQuery := os.Getenv("INVENTORY_QUERY")
	pageSize := getEnvInt("INVENTORY_PAGE_SIZE", 100)
	redisURL := os.Getenv("REDIS_URL")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	})

	cfg := client.DefaultConfig(endpointURL, username, password)
	cfg.ResourcePath = resourcePath
	cfg.PageSize = pageSize

	if rawQuery != "" {
		params, err := url.ParseQuery(rawQuery)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid INVENTORY_QUERY")
		}
		cfg.QueryParams = params
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional page cache
	if redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cfg.Redis = redisClient
		log.Info().Str("redis_url", redisURL).Msg("Page cache enabled")
	}

	inv, err := inventory.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create inventory client")
	}
	defer inv.Close()

	count, err := dumpDevices(ctx, inv, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Int("devices_written", count).Msg("Dump failed")
	}

	log.Info().Int("devices_written", count).Msg("Dump complete")
}

// dumpDevices streams the device collection to w as NDJSON and returns the
// number of devices written.
func dumpDevices(ctx context.Context, inv *inventory.Client, w io.Writer) (int, error) {
	enc := json.NewEncoder(w)

	count := 0
	pager := inv.Devices()
	for pager.Next(ctx) {
		if err := enc.Encode(pager.Item()); err != nil {
			return count, err
		}
		count++
	}

	return count, pager.Err()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", value).Msg("Expected an integer")
	}
	return n
}
