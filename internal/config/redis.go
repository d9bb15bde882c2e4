package config

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client backing the response cache.
// Connection coordinates come from REDIS_ADDR (host:port) or the
// REDIS_HOST/REDIS_PORT pair, with REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS as optional extras.  When the startup ping fails the
// constructor returns nil and callers run with caching disabled,
// serving every request straight from MySQL.
func NewRedisClient() *redis.Client {
	opts := &redis.Options{
		Addr:     redisAddr(),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

// redisAddr resolves the server address.  An explicit host/port pair
// wins over REDIS_ADDR; everything unset means a local default.
func redisAddr() string {
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		return host + ":" + port
	}
	return getenv("REDIS_ADDR", "localhost:6379")
}
