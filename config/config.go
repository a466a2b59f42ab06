// Package config reads service settings from the environment.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/antoine01000/bureau-main/storage"
)

// Config holds every setting of the service.
type Config struct {
	Debug           bool
	ListenAddr      string
	ShutdownTimeout time.Duration

	Storage storage.Config

	ActivityWorkers        int
	ActivityBuffer         int
	ActivityHandoffTimeout time.Duration
	ActivityEnqueueTimeout time.Duration

	RedisConnectionString string
	ChangesChannel        string
	// CacheTTL applies to the people and rooms cache kept in redis. Zero
	// disables caching.
	CacheTTL time.Duration
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	str := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		ListenAddr: ":" + str("PORT", "8080"),
		Storage: storage.Config{
			ConnectionString: getenv("STORAGE_CONNECTION_STRING"),
			PeopleTable:      str("PEOPLE_TABLE", "people"),
			RoomsTable:       str("ROOMS_TABLE", "rooms"),
			SuggestionsTable: str("SUGGESTIONS_TABLE", "tasksuggestions"),
			TasksTable:       str("TASKS_TABLE", "tasks"),
			ActivityQueue:    str("ACTIVITY_QUEUE", ""),
			Partition:        str("HOUSEHOLD_ID", "household"),
		},
		RedisConnectionString: str("REDIS_CONNECTION_STRING", ""),
		ChangesChannel:        str("CHANGES_CHANNEL", "bureau:changes"),
	}
	if cfg.Storage.ConnectionString == "" {
		return Config{}, errors.New("missing STORAGE_CONNECTION_STRING")
	}

	var err error
	if v := getenv("DEBUG"); v != "" {
		if cfg.Debug, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid DEBUG: %w", err)
		}
	}
	if cfg.ActivityWorkers, err = positiveInt(getenv, "ACTIVITY_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.ActivityBuffer, err = positiveInt(getenv, "ACTIVITY_BUFFER", 256); err != nil {
		return Config{}, err
	}
	if cfg.ActivityHandoffTimeout, err = duration(getenv, "ACTIVITY_HANDOFF_TIMEOUT", 15*time.Millisecond, true); err != nil {
		return Config{}, err
	}
	if cfg.ActivityEnqueueTimeout, err = duration(getenv, "ACTIVITY_ENQUEUE_TIMEOUT", 30*time.Second, false); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration(getenv, "SHUTDOWN_TIMEOUT", 10*time.Second, false); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = duration(getenv, "CACHE_TTL", 5*time.Minute, true); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be greater than zero", key)
	}
	return n, nil
}

func duration(getenv func(string) string, key string, def time.Duration, allowZero bool) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: out of range", key)
	}
	return d, nil
}

// RedisOptions parses a redis URL or an Azure style
// "host:port,password=...,ssl=true" connection string.
func RedisOptions(conn string) (*redis.Options, error) {
	if conn == "" {
		return nil, errors.New("empty redis connection string")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(strings.TrimSpace(kv[1]), "true") {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts, nil
}
