package redis

import (
	radix "github.com/mediocregopher/radix/v3"

	"github.com/example/techshop/internal/config"
)

// Init 创建 Redis 连接池，句柄由调用方持有并注入
func Init(cfg *config.RedisConfig) (radix.Client, error) {
	size := cfg.PoolSize
	if size <= 0 {
		size = 10
	}
	return radix.NewPool("tcp", cfg.Addr, size)
}
