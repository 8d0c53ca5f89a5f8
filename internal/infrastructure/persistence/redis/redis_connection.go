// Package redis provides the Redis client used by the readiness probe.
package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/obsdemo/internal/config"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/logger"
)

var _ service.DependencyPinger = (*RedisConnection)(nil)

// RedisConnection owns a standalone go-redis client. The client dials lazily, so
// constructing a connection never fails even if Redis is down.
type RedisConnection struct {
	addr   string
	client *redis.Client
	logger logger.Logger
}

// NewRedisConnection creates a client for cfg.Host:cfg.Port.
//
// Retries are disabled: a ping is exactly one attempt.
func NewRedisConnection(cfg *config.RedisConfig, log logger.Logger) *RedisConnection {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.ReadTimeout,
		MaxRetries:   -1,
		PoolSize:     2,
	})

	log.Info(context.Background(), "Redis client configured", logger.String("addr", addr), logger.Int("db", cfg.DB))

	return &RedisConnection{addr: addr, client: client, logger: log}
}

// NewRedisConnectionFromClient wraps an existing client.
func NewRedisConnectionFromClient(client *redis.Client, log logger.Logger) *RedisConnection {
	return &RedisConnection{addr: client.Options().Addr, client: client, logger: log}
}

// Name implements service.DependencyPinger.
func (rc *RedisConnection) Name() string { return "redis" }

// Addr implements service.DependencyPinger.
func (rc *RedisConnection) Addr() string { return rc.addr }

// Ping sends a single PING and checks the reply.
func (rc *RedisConnection) Ping(ctx context.Context) error {
	res, err := rc.client.Ping(ctx).Result()
	if err != nil {
		return err
	}
	if res != "PONG" {
		return fmt.Errorf("unexpected PING reply %q", res)
	}
	return nil
}

// Client exposes the underlying client.
func (rc *RedisConnection) Client() *redis.Client {
	return rc.client
}

// Close releases pooled connections.
func (rc *RedisConnection) Close() error {
	if err := rc.client.Close(); err != nil {
		rc.logger.Error(context.Background(), "Failed to close Redis client", err)
		return err
	}
	rc.logger.Info(context.Background(), "Redis client closed")
	return nil
}

//Personal.AI order the ending
