//go:build integration

package redis

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/obsdemo/internal/config"
	"github.com/turtacn/obsdemo/pkg/logger"
)

var (
	pool     *dockertest.Pool
	resource *dockertest.Resource
	redisCfg config.RedisConfig
)

func TestMain(m *testing.M) {
	var err error
	pool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	resource, err = pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	})
	if err != nil {
		log.Fatalf("Could not start redis: %s", err)
	}

	port, err := strconv.Atoi(resource.GetPort("6379/tcp"))
	if err != nil {
		log.Fatalf("Could not parse redis port: %s", err)
	}
	redisCfg = config.RedisConfig{
		Host:        "localhost",
		Port:        port,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	}

	if err := pool.Retry(func() error {
		conn := NewRedisConnection(&redisCfg, logger.NewNop())
		defer conn.Close()
		return conn.Ping(context.Background())
	}); err != nil {
		log.Fatalf("Could not connect to redis: %s", err)
	}

	code := m.Run()

	// You can't defer this because os.Exit doesn't care for defer
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge redis: %s", err)
	}

	os.Exit(code)
}

func TestIntegration_PingRealRedis(t *testing.T) {
	conn := NewRedisConnection(&redisCfg, logger.NewNop())
	defer conn.Close()

	require.NoError(t, conn.Ping(context.Background()))
}

func TestIntegration_PingAfterStop(t *testing.T) {
	conn := NewRedisConnection(&redisCfg, logger.NewNop())
	defer conn.Close()
	require.NoError(t, conn.Ping(context.Background()))

	require.NoError(t, pool.Client.StopContainer(resource.Container.ID, 5))
	t.Cleanup(func() {
		_ = pool.Client.StartContainer(resource.Container.ID, nil)
	})

	assert.Error(t, conn.Ping(context.Background()))
}
