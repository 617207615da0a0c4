package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/pkg/common"
)

const identificationCacheName = "identification"

// Clock 取得目前時間，測試時可替換
type Clock func() time.Time

// IdentificationOptions 識別快取設定
type IdentificationOptions struct {
	TTL             time.Duration
	MaxSize         int
	CleanupInterval time.Duration // 0 表示不啟動背景清理
	Clock           Clock
	Metrics         *metrics.Metrics
}

// identEntry 識別快取條目
type identEntry struct {
	key       string
	value     common.Identification
	createdAt time.Time
	expiresAt time.Time
}

// identStats 識別快取統計
type identStats struct {
	hits      int64
	misses    int64
	evictions int64
	expired   int64
}

// IdentificationCache 行程內的識別結果快取。
// 條目 TTL 到期後失效；容量滿時依寫入順序淘汰最舊的條目
type IdentificationCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	now     Clock
	metrics *metrics.Metrics

	order *list.List               // 寫入順序，Front 最舊
	items map[string]*list.Element // key -> *identEntry
	stats identStats

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewIdentificationCache 建立識別快取
func NewIdentificationCache(opts IdentificationOptions) *IdentificationCache {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1000
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	c := &IdentificationCache{
		ttl:     opts.TTL,
		maxSize: opts.MaxSize,
		now:     opts.Clock,
		metrics: opts.Metrics,
		order:   list.New(),
		items:   make(map[string]*list.Element),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		go c.startCleanup(opts.CleanupInterval)
	} else {
		close(c.done)
	}

	common.LogInfo("識別快取已初始化",
		zap.Int("最大容量", c.maxSize),
		zap.Duration("存活時間", c.ttl),
		zap.Duration("清理間隔", opts.CleanupInterval),
	)
	return c
}

// IdentificationKey 查詢字串轉為快取鍵
func IdentificationKey(query string) string {
	return strings.ToLower(common.CollapseSpaces(query))
}

// Get 取得識別結果；過期條目會在此移除
func (c *IdentificationCache) Get(query string) (common.Identification, bool) {
	key := IdentificationKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.misses++
		c.metrics.RecordCacheLookup(identificationCacheName, false)
		return common.Identification{}, false
	}

	entry := el.Value.(*identEntry)
	if !c.now().Before(entry.expiresAt) {
		c.removeElement(el)
		c.stats.expired++
		c.stats.misses++
		c.metrics.RecordEviction("expired", 1)
		c.metrics.RecordCacheLookup(identificationCacheName, false)
		c.metrics.SetIdentificationEntries(c.order.Len())
		return common.Identification{}, false
	}

	c.stats.hits++
	c.metrics.RecordCacheLookup(identificationCacheName, true)
	return entry.value, true
}

// Set 寫入識別結果。既有的鍵會重新計算存活時間並移到最新位置
func (c *IdentificationCache) Set(query string, value common.Identification) {
	key := IdentificationKey(query)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	if c.order.Len() >= c.maxSize {
		c.cleanupLocked(now)
	}
	evicted := 0
	for c.order.Len() >= c.maxSize {
		c.removeElement(c.order.Front())
		evicted++
	}
	if evicted > 0 {
		c.stats.evictions += int64(evicted)
		c.metrics.RecordEviction("capacity", evicted)
		common.LogDebug("識別快取已淘汰最舊條目", zap.Int("數量", evicted))
	}

	c.items[key] = c.order.PushBack(&identEntry{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	})
	c.metrics.SetIdentificationEntries(c.order.Len())
}

// Len 目前條目數（包含尚未清理的過期條目）
func (c *IdentificationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cleanup 清除所有過期條目並回傳數量
func (c *IdentificationCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleanupLocked(c.now())
}

// cleanupLocked 依寫入順序掃描；TTL 固定，遇到第一個未過期者即可停止
func (c *IdentificationCache) cleanupLocked(now time.Time) int {
	count := 0
	for el := c.order.Front(); el != nil; {
		entry := el.Value.(*identEntry)
		if now.Before(entry.expiresAt) {
			break
		}
		next := el.Next()
		c.removeElement(el)
		count++
		el = next
	}

	if count > 0 {
		c.stats.expired += int64(count)
		c.metrics.RecordEviction("expired", count)
		c.metrics.SetIdentificationEntries(c.order.Len())
		common.LogInfo("已清理過期識別快取",
			zap.Int("數量", count),
			zap.Int("剩餘", c.order.Len()),
		)
	}
	return count
}

func (c *IdentificationCache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*identEntry)
	delete(c.items, entry.key)
}

// startCleanup 定期清理過期條目，直到 Close
func (c *IdentificationCache) startCleanup(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stop:
			return
		}
	}
}

// GetStats 取得快取統計
func (c *IdentificationCache) GetStats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ratio := 0.0
	if total := c.stats.hits + c.stats.misses; total > 0 {
		ratio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      c.order.Len(),
		"max_size":  c.maxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"expired":   c.stats.expired,
		"hit_ratio": ratio,
	}
}

// Close 停止背景清理並清空快取，可重複呼叫
func (c *IdentificationCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done

		c.mu.Lock()
		defer c.mu.Unlock()
		c.order.Init()
		c.items = make(map[string]*list.Element)
		common.LogInfo("識別快取已關閉",
			zap.Int64("命中次數", c.stats.hits),
			zap.Int64("未命中次數", c.stats.misses),
			zap.Int64("淘汰次數", c.stats.evictions),
		)
	})
	return nil
}
