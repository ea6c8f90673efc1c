package main

import (
	"encoding/json"
	"flag"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/infra/mq"
	"github.com/example/techshop/internal/logger"
	"github.com/example/techshop/internal/service"
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

	conn, err := mq.Init(&cfg.RabbitMQ)
	if err != nil {
		zap.L().Fatal("failed to connect rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderCreatedQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式，处理失败的消息重新入队
	msgs, err := ch.Consume(mq.OrderCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for messages")

	for d := range msgs {
		handleMessage(d)
	}
}

func handleMessage(d amqp.Delivery) {
	var ev service.OrderCreatedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		zap.L().Error("invalid message, dropping", zap.Error(err))
		service.GetMonitor().RecordWorkerFailed()
		// 消息格式错误，拒绝且不重新入队
		_ = d.Nack(false, false)
		return
	}

	// 下单确认的后续处理（通知/对账）在这里挂接，目前记录确认日志
	zap.L().Info("order confirmed",
		zap.Int64("order_id", ev.OrderID),
		zap.Int64("user_id", ev.UserID),
		zap.String("total_amount", ev.TotalAmount),
	)
	service.GetMonitor().RecordWorkerProcessed()

	if err := d.Ack(false); err != nil {
		zap.L().Error("failed to ack message", zap.Error(err))
	}
}
