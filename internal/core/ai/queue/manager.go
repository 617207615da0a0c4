// Package queue 生成請求的有界工作池
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/pkg/common"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("queue manager is closed")

// Job 隊列中執行的工作
type Job func(ctx context.Context) error

// request 隊列請求
type request struct {
	ctx    context.Context
	job    Job
	result chan error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Options 隊列設定
type Options struct {
	Workers int
	MaxSize int
	Metrics *metrics.Metrics
}

// Manager 隊列管理器，固定數量的 worker 依序取出請求執行
type Manager struct {
	workers int
	maxSize int
	metrics *metrics.Metrics

	queue     chan *request
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	processed int64
	failed    int64
}

// NewManager 建立隊列並啟動 worker
func NewManager(opts Options) *Manager {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	m := &Manager{
		workers: opts.Workers,
		maxSize: opts.MaxSize,
		metrics: opts.Metrics,
		queue:   make(chan *request, opts.MaxSize),
		done:    make(chan struct{}),
	}
	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m
}

// Submit 將工作加入隊列並等待完成。隊列已滿時立即回傳 common.ErrQueueFull
func (m *Manager) Submit(ctx context.Context, job Job) error {
	req := &request{ctx: ctx, job: job, result: make(chan error, 1)}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	select {
	case m.queue <- req:
		m.metrics.SetQueueDepth(len(m.queue))
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
	default:
		m.mu.RUnlock()
		common.LogWarn("生成隊列已滿", zap.Int("max_queue_size", m.maxSize))
		return common.ErrQueueFull
	}
	m.mu.RUnlock()

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.metrics.SetQueueDepth(len(m.queue))
			m.run(req)
		}
	}
}

func (m *Manager) run(req *request) {
	if err := req.ctx.Err(); err != nil {
		req.result <- err
		return
	}

	err := req.job(req.ctx)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
	}
	atomic.AddInt64(&m.processed, 1)
	req.result <- err
}

// GetQueueStatus 取得隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		FailedCount:    atomic.LoadInt64(&m.failed),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止接收新工作，等待執行中的工作結束，並讓仍在隊列中的請求回傳 ErrClosed
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()

	for {
		select {
		case req := <-m.queue:
			req.result <- ErrClosed
		default:
			m.metrics.SetQueueDepth(0)
			return
		}
	}
}
