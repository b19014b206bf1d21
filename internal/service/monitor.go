package service

import (
	"sync"
	"time"
)

// Monitor 运行指标统计，后台 /api/metrics 直接输出快照
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors    int64
	MQErrors    int64
	CacheErrors int64

	// 业务统计
	OrdersPlaced   int64
	OrdersFailed   int64
	EventsConsumed int64
	CacheHits      int64
	CacheMisses    int64

	// 时间统计
	LastOrderTime time.Time
	LastDBError   time.Time
	LastMQError   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordOrderPlaced 记录下单成功
func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
	m.LastOrderTime = time.Now()
}

// RecordOrderFailed 记录下单失败
func (m *Monitor) RecordOrderFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersFailed++
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMQError 记录 MQ 错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordCacheError 记录缓存错误
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
}

// RecordCacheHit 记录缓存命中
func (m *Monitor) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

// RecordCacheMiss 记录缓存未命中
func (m *Monitor) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// RecordEventConsumed 记录 worker 消费的事件数
func (m *Monitor) RecordEventConsumed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsConsumed++
}

// MonitorSnapshot 指标快照
type MonitorSnapshot struct {
	DBErrors       int64     `json:"db_errors"`
	MQErrors       int64     `json:"mq_errors"`
	CacheErrors    int64     `json:"cache_errors"`
	OrdersPlaced   int64     `json:"orders_placed"`
	OrdersFailed   int64     `json:"orders_failed"`
	EventsConsumed int64     `json:"events_consumed"`
	CacheHits      int64     `json:"cache_hits"`
	CacheMisses    int64     `json:"cache_misses"`
	LastOrderTime  time.Time `json:"last_order_time"`
	LastDBError    time.Time `json:"last_db_error"`
	LastMQError    time.Time `json:"last_mq_error"`
}

// Snapshot 读取当前指标
func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorSnapshot{
		DBErrors:       m.DBErrors,
		MQErrors:       m.MQErrors,
		CacheErrors:    m.CacheErrors,
		OrdersPlaced:   m.OrdersPlaced,
		OrdersFailed:   m.OrdersFailed,
		EventsConsumed: m.EventsConsumed,
		CacheHits:      m.CacheHits,
		CacheMisses:    m.CacheMisses,
		LastOrderTime:  m.LastOrderTime,
		LastDBError:    m.LastDBError,
		LastMQError:    m.LastMQError,
	}
}
