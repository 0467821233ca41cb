package config

// Redis backs the HTTP response cache and the distributed rate limiter.
// Both are optional: when no server is reachable at startup the constructor
// returns nil and main disables the middlewares instead of failing.

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from the environment.
//
//	REDIS_URL               – full redis:// or rediss:// URL, takes precedence
//	REDIS_HOST / REDIS_PORT – hostname and port
//	REDIS_ADDR              – host:port shorthand
//	REDIS_PASSWORD          – optional password
//	REDIS_DB                – database number (default 0)
//	REDIS_TLS               – enable TLS when "true" or "1"
//
// The returned client is nil when the server does not answer a ping within
// two seconds.
func NewRedisClient() *redis.Client {
    var opts *redis.Options
    if url := os.Getenv("REDIS_URL"); url != "" {
        parsed, err := redis.ParseURL(url)
        if err != nil {
            return nil
        }
        opts = parsed
    } else {
        addr := os.Getenv("REDIS_ADDR")
        if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
            addr = host + ":" + port
        }
        if addr == "" {
            addr = "localhost:6379"
        }
        dbNum := 0
        if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
            if n, err := strconv.Atoi(dbStr); err == nil {
                dbNum = n
            }
        }
        var tlsConf *tls.Config
        if tlsEnv := os.Getenv("REDIS_TLS"); strings.EqualFold(tlsEnv, "true") || tlsEnv == "1" {
            tlsConf = &tls.Config{InsecureSkipVerify: true}
        }
        opts = &redis.Options{
            Addr:      addr,
            Password:  os.Getenv("REDIS_PASSWORD"),
            DB:        dbNum,
            TLSConfig: tlsConf,
        }
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
