package main

import (
	"flag"
	"log"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/infra/mq"
	"github.com/example/techshop/internal/infra/redis"
	"github.com/example/techshop/internal/logger"
	"github.com/example/techshop/internal/repository/mysql"
	"github.com/example/techshop/internal/server"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空使用默认配置")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()

	db, err := mysql.Init(&cfg.MySQL)
	if err != nil {
		zap.L().Fatal("failed to init mysql", zap.Error(err))
	}

	// Redis 与 MQ 均为可选依赖：缓存退化为直连验签，事件发布跳过
	redisClient, err := redis.Init(&cfg.Redis)
	if err != nil {
		zap.L().Warn("redis unavailable, token cache disabled", zap.Error(err))
		redisClient = nil
	}
	mqConn, err := mq.Init(&cfg.RabbitMQ)
	if err != nil {
		zap.L().Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		mqConn = nil
	}

	app := iris.New()
	server.RegisterRoutes(app, server.Deps{
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		MQ:    mqConn,
	})

	addr := cfg.Server.Addr()
	zap.L().Info("api server listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr)); err != nil {
		zap.L().Fatal("failed to run api server", zap.Error(err))
	}
}
