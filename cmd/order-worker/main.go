package main

import (
	"encoding/json"
	"fmt"
	"time"

	radix "github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/mq"
	"github.com/Dashazem/back-end-capstone-project/internal/infra/redis"
	"github.com/Dashazem/back-end-capstone-project/internal/logger"
	"github.com/Dashazem/back-end-capstone-project/internal/service"
)

const (
	// 每日下单计数，后台 /api/metrics 读取
	dailyOrderCountKey = "orders:count:%s" // 2006-01-02
	countExpireSeconds = "172800"          // 保留两天
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Env)
	defer log.Sync()

	mqConn := mq.Init(&cfg.RabbitMQ)
	redisClient := redis.Init(&cfg.Redis)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(service.OrderEventsQueue, true, false, false, false, nil); err != nil {
		log.Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式，处理完成才 ack
	msgs, err := ch.Consume(service.OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal("failed to consume", zap.Error(err))
	}

	log.Info("order worker started, waiting for events")

	for d := range msgs {
		var ev service.OrderEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Warn("invalid order event", zap.Error(err))
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}
		handleEvent(log, redisClient, &ev, d)
	}
}

func handleEvent(log *zap.Logger, redisClient radix.Client, ev *service.OrderEvent, d amqp.Delivery) {
	key := fmt.Sprintf(dailyOrderCountKey, time.Now().Format("2006-01-02"))
	if err := redisClient.Do(radix.Cmd(nil, "INCR", key)); err != nil {
		log.Warn("failed to bump daily order count", zap.Error(err))
		service.GetMonitor().RecordCacheError()
		// 计数失败时重新入队，稍后再试
		_ = d.Nack(false, true)
		return
	}
	_ = redisClient.Do(radix.Cmd(nil, "EXPIRE", key, countExpireSeconds))

	service.GetMonitor().RecordEventConsumed()
	log.Info("order event processed",
		zap.String("order_number", ev.OrderNumber),
		zap.Int64("customer_id", ev.CustomerID),
		zap.Int64("total_price", ev.TotalPrice),
		zap.Int("item_count", ev.ItemCount))
	_ = d.Ack(false)
}
