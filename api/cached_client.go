package api

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Yumax-panda/Mario-Kart/cache"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"golang.org/x/sync/errgroup"
)

// CachedLoungeClient 캐시 기능을 포함한 Lounge API 클라이언트입니다
type CachedLoungeClient struct {
	client        *LoungeClient
	cache         *cache.PlayerCache
	cleanupCancel context.CancelFunc

	// 성능 메트릭
	cacheHits   int64
	cacheMisses int64
	totalCalls  int64
}

// NewCachedLoungeClient 새로운 CachedLoungeClient 인스턴스를 생성합니다
func NewCachedLoungeClient(client *LoungeClient) *CachedLoungeClient {
	utils.Info("Creating cached Lounge API client")

	playerCache := cache.NewPlayerCache()
	cachedClient := &CachedLoungeClient{
		client: client,
		cache:  playerCache,
	}

	cachedClient.cleanupCancel = playerCache.StartCleanupWorker(constants.CacheCleanupInterval)
	return cachedClient
}

// Close 캐시 정리 워커를 중지시킵니다.
func (cachedClient *CachedLoungeClient) Close() {
	if cachedClient.cleanupCancel != nil {
		cachedClient.cleanupCancel()
		utils.Info("Cache cleanup worker stopped.")
	}
}

// GetPlayer 캐시를 통해 플레이어를 조회합니다. 찾지 못한 결과는 캐시하지 않습니다
func (cachedClient *CachedLoungeClient) GetPlayer(ctx context.Context, query PlayerQuery) (*Player, error) {
	atomic.AddInt64(&cachedClient.totalCalls, 1)
	key := query.CacheKey()
	if key == "" {
		return nil, nil
	}

	if cachedData, found := cachedClient.cache.Get(cache.KindPlayer, key); found {
		atomic.AddInt64(&cachedClient.cacheHits, 1)
		utils.Debug("Cache hit for player: %s", key)
		return cachedData.(*Player), nil
	}

	atomic.AddInt64(&cachedClient.cacheMisses, 1)
	utils.Debug("Cache miss for player: %s, calling API", key)

	player, err := cachedClient.client.GetPlayer(ctx, query)
	if err != nil || player == nil {
		return nil, err
	}

	cachedClient.cache.Set(cache.KindPlayer, key, player)
	return player, nil
}

// GetPlayerDetails 캐시를 통해 플레이어 상세 정보를 조회합니다
func (cachedClient *CachedLoungeClient) GetPlayerDetails(ctx context.Context, query PlayerQuery) (*PlayerDetails, error) {
	atomic.AddInt64(&cachedClient.totalCalls, 1)
	key := PlayerQuery{ID: query.ID, Name: query.Name, Season: query.Season}.CacheKey()
	if key == "" {
		return nil, nil
	}

	if cachedData, found := cachedClient.cache.Get(cache.KindPlayerDetails, key); found {
		atomic.AddInt64(&cachedClient.cacheHits, 1)
		return cachedData.(*PlayerDetails), nil
	}

	atomic.AddInt64(&cachedClient.cacheMisses, 1)
	details, err := cachedClient.client.GetPlayerDetails(ctx, query)
	if err != nil || details == nil {
		return nil, err
	}

	cachedClient.cache.Set(cache.KindPlayerDetails, key, details)
	return details, nil
}

// GetPlayers Discord ID 목록으로 플레이어들을 동시에 조회합니다.
// 결과는 입력 순서를 따르며, 실패하거나 찾지 못한 항목은 nil입니다
func (cachedClient *CachedLoungeClient) GetPlayers(ctx context.Context, discordIDs []string) []*Player {
	players := make([]*Player, len(discordIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(constants.MaxConcurrentRequests)

	for i, discordID := range discordIDs {
		if discordID == "" {
			continue
		}
		i, discordID := i, discordID
		group.Go(func() error {
			player, err := cachedClient.GetPlayer(groupCtx, PlayerQuery{DiscordID: discordID})
			if err != nil {
				// 개별 실패는 전체 조회를 중단시키지 않는다
				utils.Warn("Failed to fetch lounge player for %s: %v", discordID, err)
				return nil
			}
			players[i] = player
			return nil
		})
	}

	_ = group.Wait()
	return players
}

// GetCacheStats 캐시 통계를 반환합니다
func (cachedClient *CachedLoungeClient) GetCacheStats() CacheMetrics {
	cacheStats := cachedClient.cache.GetStats()

	totalCalls := atomic.LoadInt64(&cachedClient.totalCalls)
	hits := atomic.LoadInt64(&cachedClient.cacheHits)
	misses := atomic.LoadInt64(&cachedClient.cacheMisses)

	var hitRate float64
	if totalCalls > 0 {
		hitRate = float64(hits) / float64(totalCalls) * 100
	}

	return CacheMetrics{
		TotalCalls:          totalCalls,
		CacheHits:           hits,
		CacheMisses:         misses,
		HitRate:             hitRate,
		PlayerCached:        cacheStats.PlayerCount,
		PlayerDetailsCached: cacheStats.PlayerDetailsCount,
	}
}

// CacheMetrics 캐시 성능 메트릭을 나타냅니다
type CacheMetrics struct {
	TotalCalls          int64
	CacheHits           int64
	CacheMisses         int64
	HitRate             float64
	PlayerCached        int
	PlayerDetailsCached int
}

// String CacheMetrics의 문자열 표현을 반환합니다
func (metrics CacheMetrics) String() string {
	return fmt.Sprintf("API Cache Stats: Calls=%d, Hits=%d, Misses=%d, Hit Rate=%.2f%%, Cached Items: Player=%d, Details=%d",
		metrics.TotalCalls, metrics.CacheHits, metrics.CacheMisses, metrics.HitRate,
		metrics.PlayerCached, metrics.PlayerDetailsCached)
}

// ClearCache 모든 캐시를 삭제합니다
func (cachedClient *CachedLoungeClient) ClearCache() {
	cachedClient.cache.Clear()
	atomic.StoreInt64(&cachedClient.cacheHits, 0)
	atomic.StoreInt64(&cachedClient.cacheMisses, 0)
	atomic.StoreInt64(&cachedClient.totalCalls, 0)
	utils.Info("API cache cleared")
}
