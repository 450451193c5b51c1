package config

import (
	"os"
	"sync"
)

type RedisConfig struct {
	Addr     string
	Password string
	QueueKey string
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		key := os.Getenv("REDIS_QUEUE_KEY")
		if key == "" {
			key = "assessment:jobs"
		}
		redisConfig = &RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			QueueKey: key,
		}
	})
	return redisConfig
}
