package ratelimit

import (
	"context"
	"fmt"
	"time"

	"store_rating_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript считает попытки ключа; TTL ставится первой попыткой окна
var fixedWindowScript = redis.NewScript(`
	local count = redis.call("INCR", KEYS[1])
	if count == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	if count > tonumber(ARGV[1]) then
		return 0
	end
	return 1
`)

// RedisLimiter - та же политика, но общая для всех экземпляров сервиса
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	policy Policy
}

func NewRedisLimiter(client redis.Scripter, prefix string, p Policy) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		policy: p,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	keys := []string{fmt.Sprintf("%s:%s", l.prefix, key)}
	args := []interface{}{l.policy.Attempts, l.policy.Window.Milliseconds()}

	result, err := fixedWindowScript.Run(ctx, l.client, keys, args...).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

// Options - параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient создает клиента и проверяет соединение
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to redis", "addr", opts.Addr)
	return client, nil
}
