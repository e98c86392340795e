package cache

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

// 캐시 종류
const (
	KindPlayer        = "player"
	KindPlayerDetails = "playerDetails"
)

// CacheItem 캐시에 저장되는 개별 아이템을 나타냅니다
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// IsExpired 캐시 아이템이 만료되었는지 확인합니다
func (item *CacheItem) IsExpired() bool {
	return time.Now().After(item.ExpiresAt)
}

// CacheStats 캐시 통계 정보를 나타냅니다
type CacheStats struct {
	PlayerCount        int
	PlayerDetailsCount int
	PendingExpirations int
}

// ExpirationEntry 만료 시간 기반 우선순위 큐의 항목
type ExpirationEntry struct {
	Key       string
	Kind      string
	ExpiresAt time.Time
	Index     int // 힙에서의 인덱스
}

// ExpirationQueue 만료 시간 기반 우선순위 큐 (최소 힙)
type ExpirationQueue []*ExpirationEntry

func (priorityQueue ExpirationQueue) Len() int { return len(priorityQueue) }

func (priorityQueue ExpirationQueue) Less(i, j int) bool {
	return priorityQueue[i].ExpiresAt.Before(priorityQueue[j].ExpiresAt)
}

func (priorityQueue ExpirationQueue) Swap(i, j int) {
	priorityQueue[i], priorityQueue[j] = priorityQueue[j], priorityQueue[i]
	priorityQueue[i].Index = i
	priorityQueue[j].Index = j
}

func (priorityQueue *ExpirationQueue) Push(x interface{}) {
	n := len(*priorityQueue)
	entry := x.(*ExpirationEntry)
	entry.Index = n
	*priorityQueue = append(*priorityQueue, entry)
}

func (priorityQueue *ExpirationQueue) Pop() interface{} {
	old := *priorityQueue
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.Index = -1
	*priorityQueue = old[0 : n-1]
	return entry
}

// PlayerCache 라운지 플레이어 조회 결과를 만료 시간과 함께 보관합니다
type PlayerCache struct {
	items map[string]map[string]*CacheItem

	// 만료 시간 추적을 위한 우선순위 큐와 인덱스
	expirationQueue *ExpirationQueue
	keyToEntry      map[string]*ExpirationEntry

	mu sync.RWMutex

	ttl              map[string]time.Duration
	cleanupBatchSize int
	lastCleanup      time.Time
}

// NewPlayerCache 새로운 PlayerCache 인스턴스를 생성합니다
func NewPlayerCache() *PlayerCache {
	priorityQueue := &ExpirationQueue{}
	heap.Init(priorityQueue)

	return &PlayerCache{
		items: map[string]map[string]*CacheItem{
			KindPlayer:        make(map[string]*CacheItem),
			KindPlayerDetails: make(map[string]*CacheItem),
		},
		expirationQueue: priorityQueue,
		keyToEntry:      make(map[string]*ExpirationEntry),
		ttl: map[string]time.Duration{
			KindPlayer:        constants.PlayerCacheTTL,
			KindPlayerDetails: constants.PlayerDetailsCacheTTL,
		},
		cleanupBatchSize: constants.CacheCleanupBatchSize,
		lastCleanup:      time.Now(),
	}
}

func entryKey(kind, key string) string {
	return kind + ":" + key
}

// Set 지정한 종류의 캐시에 값을 저장합니다
func (cache *PlayerCache) Set(kind, key string, data interface{}) {
	cache.SetWithTTL(kind, key, data, cache.ttl[kind])
}

// SetWithTTL 만료 시간을 직접 지정해 값을 저장합니다
func (cache *PlayerCache) SetWithTTL(kind, key string, data interface{}, ttl time.Duration) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	bucket, ok := cache.items[kind]
	if !ok {
		bucket = make(map[string]*CacheItem)
		cache.items[kind] = bucket
	}

	expiresAt := time.Now().Add(ttl)
	bucket[key] = &CacheItem{Data: data, ExpiresAt: expiresAt}

	// 기존 항목은 힙에서 바로 빼지 않고 무효화만 해둔다
	ek := entryKey(kind, key)
	if existing, exists := cache.keyToEntry[ek]; exists {
		existing.ExpiresAt = time.Time{}
	}

	entry := &ExpirationEntry{Key: key, Kind: kind, ExpiresAt: expiresAt}
	heap.Push(cache.expirationQueue, entry)
	cache.keyToEntry[ek] = entry
}

// Get 캐시에서 만료되지 않은 값을 조회합니다
func (cache *PlayerCache) Get(kind, key string) (interface{}, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	item, exists := cache.items[kind][key]
	if !exists || item.IsExpired() {
		return nil, false
	}
	return item.Data, true
}

// ClearExpired 우선순위 큐를 사용하여 만료된 항목을 배치 단위로 정리합니다
func (cache *PlayerCache) ClearExpired() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := time.Now()
	cleaned := 0

	for cleaned < cache.cleanupBatchSize && cache.expirationQueue.Len() > 0 {
		entry := (*cache.expirationQueue)[0]

		if entry.ExpiresAt.IsZero() {
			// 무효화된 항목은 힙에서만 제거
			heap.Pop(cache.expirationQueue)
			cleaned++
			continue
		}
		if now.Before(entry.ExpiresAt) {
			break
		}

		heap.Pop(cache.expirationQueue)
		delete(cache.keyToEntry, entryKey(entry.Kind, entry.Key))
		delete(cache.items[entry.Kind], entry.Key)
		cleaned++
	}

	cache.lastCleanup = now
	return cleaned
}

// GetStats 캐시 통계를 반환합니다
func (cache *PlayerCache) GetStats() CacheStats {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	return CacheStats{
		PlayerCount:        len(cache.items[KindPlayer]),
		PlayerDetailsCount: len(cache.items[KindPlayerDetails]),
		PendingExpirations: cache.expirationQueue.Len(),
	}
}

// Clear 모든 캐시를 삭제합니다
func (cache *PlayerCache) Clear() {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	for kind := range cache.items {
		cache.items[kind] = make(map[string]*CacheItem)
	}

	cache.expirationQueue = &ExpirationQueue{}
	heap.Init(cache.expirationQueue)
	cache.keyToEntry = make(map[string]*ExpirationEntry)
}

// StartCleanupWorker 만료 항목 정리 워커를 시작합니다
func (cache *PlayerCache) StartCleanupWorker(interval time.Duration) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cache.ClearExpired()
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}
