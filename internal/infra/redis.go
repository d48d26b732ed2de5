package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the go-redis client used for the delivery-callback job
// queue and fails fast when the server is unreachable.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
