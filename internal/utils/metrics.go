package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// OperationStats summarizes the recorded latencies for one operation.
type OperationStats struct {
	Count        int     `json:"count"`
	AverageMicro float64 `json:"averageMicroseconds"`
}

// MetricsSnapshot is a point-in-time view of the collector, suitable for the
// metrics endpoint.
type MetricsSnapshot struct {
	RequestCount  uint64                    `json:"requestCount"`
	ErrorCount    uint64                    `json:"errorCount"`
	UptimeSeconds float64                   `json:"uptimeSeconds"`
	Operations    map[string]OperationStats `json:"operations"`
}

func (mc *MetricsCollector) Snapshot() *MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	operations := make(map[string]OperationStats, len(mc.operationTimes))
	for name, latencies := range mc.operationTimes {
		var total int64
		for _, l := range latencies {
			total += l
		}
		avg := 0.0
		if len(latencies) > 0 {
			avg = float64(total) / float64(len(latencies)) / 1000.0
		}
		operations[name] = OperationStats{
			Count:        len(latencies),
			AverageMicro: avg,
		}
	}

	return &MetricsSnapshot{
		RequestCount:  mc.requestCount,
		ErrorCount:    mc.errorCount,
		UptimeSeconds: time.Since(mc.systemStartTime).Seconds(),
		Operations:    operations,
	}
}
