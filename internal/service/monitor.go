package service

import (
	"sync"
	"time"
)

// Monitor 进程内计数器，统计下单链路的成功率与基础设施错误
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors int64
	MQErrors int64

	// 下单统计
	OrderRequests int64
	OrderCreated  int64
	OrderRejected int64 // 业务规则拒绝（库存不足/商品不存在/参数非法）

	// worker 统计
	WorkerProcessed int64
	WorkerFailed    int64

	// 时间统计
	LastDBError   time.Time
	LastMQError   time.Time
	LastOrderTime time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

func (m *Monitor) RecordOrderRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests++
	m.LastOrderTime = time.Now()
}

func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderCreated++
}

func (m *Monitor) RecordOrderRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRejected++
}

func (m *Monitor) RecordWorkerProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerProcessed++
}

func (m *Monitor) RecordWorkerFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerFailed++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.OrderRequests > 0 {
		successRate = float64(m.OrderCreated) / float64(m.OrderRequests) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"db": m.DBErrors,
			"mq": m.MQErrors,
		},
		"orders": map[string]interface{}{
			"requests":     m.OrderRequests,
			"created":      m.OrderCreated,
			"rejected":     m.OrderRejected,
			"success_rate": successRate,
		},
		"worker": map[string]interface{}{
			"processed": m.WorkerProcessed,
			"failed":    m.WorkerFailed,
		},
		"last_events": map[string]interface{}{
			"db_error":   m.LastDBError,
			"mq_error":   m.LastMQError,
			"last_order": m.LastOrderTime,
		},
	}
}

// Reset 重置统计（测试用）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors = 0
	m.MQErrors = 0
	m.OrderRequests = 0
	m.OrderCreated = 0
	m.OrderRejected = 0
	m.WorkerProcessed = 0
	m.WorkerFailed = 0
	m.LastDBError = time.Time{}
	m.LastMQError = time.Time{}
	m.LastOrderTime = time.Time{}
}
