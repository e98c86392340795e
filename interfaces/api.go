package interfaces

import (
	"context"

	"github.com/Yumax-panda/Mario-Kart/api"
)

// LoungeClient Lounge API와의 통신을 위한 인터페이스입니다
type LoungeClient interface {
	GetPlayer(ctx context.Context, query api.PlayerQuery) (*api.Player, error)
	GetPlayerDetails(ctx context.Context, query api.PlayerQuery) (*api.PlayerDetails, error)
	GetPlayers(ctx context.Context, discordIDs []string) []*api.Player
	GetCacheStats() api.CacheMetrics
	ClearCache()
}
