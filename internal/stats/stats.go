package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Stats tracks outbound API request statistics
type Stats struct {
	// Request counts
	TotalRequests  uint64
	FailedRequests uint64
	CacheHits      uint64
	CacheMisses    uint64
	BytesReceived  uint64

	// Timing
	StartedAt   time.Time
	RequestTime time.Duration

	mu sync.RWMutex
}

// New creates a new Stats instance
func New() *Stats {
	return &Stats{
		StartedAt: time.Now(),
	}
}

// IncrementTotalRequests increments the total requests counter
func (s *Stats) IncrementTotalRequests() {
	atomic.AddUint64(&s.TotalRequests, 1)
}

// IncrementFailedRequests increments the failed requests counter
func (s *Stats) IncrementFailedRequests() {
	atomic.AddUint64(&s.FailedRequests, 1)
}

// IncrementCacheHits increments the cache hits counter
func (s *Stats) IncrementCacheHits() {
	atomic.AddUint64(&s.CacheHits, 1)
}

// IncrementCacheMisses increments the cache misses counter
func (s *Stats) IncrementCacheMisses() {
	atomic.AddUint64(&s.CacheMisses, 1)
}

// AddBytesReceived adds to the received bytes counter
func (s *Stats) AddBytesReceived(n int) {
	if n > 0 {
		atomic.AddUint64(&s.BytesReceived, uint64(n))
	}
}

// AddRequestTime adds to the total time spent waiting on the API
func (s *Stats) AddRequestTime(duration time.Duration) {
	s.mu.Lock()
	s.RequestTime += duration
	s.mu.Unlock()
}

// GetStats returns a copy of the current statistics
func (s *Stats) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"total_requests":  atomic.LoadUint64(&s.TotalRequests),
		"failed_requests": atomic.LoadUint64(&s.FailedRequests),
		"cache_hits":      atomic.LoadUint64(&s.CacheHits),
		"cache_misses":    atomic.LoadUint64(&s.CacheMisses),
		"bytes_received":  atomic.LoadUint64(&s.BytesReceived),
		"request_time":    s.RequestTime,
		"uptime":          time.Since(s.StartedAt),
	}
}

// String returns a string representation of the statistics
func (s *Stats) String() string {
	stats := s.GetStats()
	return fmt.Sprintf(
		"Total Requests: %d\n"+
			"Failed Requests: %d\n"+
			"Cache Hits: %d\n"+
			"Cache Misses: %d\n"+
			"Bytes Received: %d\n"+
			"Request Time: %s\n"+
			"Uptime: %s",
		stats["total_requests"],
		stats["failed_requests"],
		stats["cache_hits"],
		stats["cache_misses"],
		stats["bytes_received"],
		stats["request_time"],
		stats["uptime"],
	)
}
