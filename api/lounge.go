package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"golang.org/x/time/rate"
)

// LoungeClient MK8DX Lounge API와 통신하는 클라이언트입니다
type LoungeClient struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// Player Lounge 플레이어 요약 정보를 나타냅니다
type Player struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	MKCID       int     `json:"mkcId"`
	RegistryID  *int    `json:"registryId"`
	DiscordID   string  `json:"discordId"`
	CountryCode string  `json:"countryCode"`
	SwitchFC    *string `json:"switchFc"`
	IsHidden    bool    `json:"isHidden"`
	MMR         *int    `json:"mmr"`
	MaxMMR      *int    `json:"maxMmr"`
}

// PlayerDetails Lounge 플레이어 상세 정보를 나타냅니다
type PlayerDetails struct {
	PlayerID     int      `json:"playerId"`
	Name         string   `json:"name"`
	CountryCode  string   `json:"countryCode"`
	CountryName  string   `json:"countryName"`
	SwitchFC     *string  `json:"switchFc"`
	Season       int      `json:"season"`
	MMR          *int     `json:"mmr"`
	MaxMMR       *int     `json:"maxMmr"`
	OverallRank  *int     `json:"overallRank"`
	EventsPlayed int      `json:"eventsPlayed"`
	WinRate      *float64 `json:"winRate"`
	Rank         string   `json:"rank"`
}

// PlayerQuery Lounge 플레이어 검색 조건입니다. 먼저 설정된 필드 하나만 사용됩니다
type PlayerQuery struct {
	ID        int
	Name      string
	MKCID     int
	DiscordID string
	FC        string
	Season    int
}

// Params 조회 조건을 쿼리 파라미터로 변환합니다. 조건이 없으면 false를 반환합니다
func (query PlayerQuery) Params() (url.Values, bool) {
	params := url.Values{}
	switch {
	case query.ID != 0:
		params.Set("id", strconv.Itoa(query.ID))
	case query.Name != "":
		params.Set("name", query.Name)
	case query.MKCID != 0:
		params.Set("mkcId", strconv.Itoa(query.MKCID))
	case query.DiscordID != "":
		params.Set("discordId", query.DiscordID)
	case query.FC != "":
		params.Set("fc", query.FC)
	default:
		return nil, false
	}
	if query.Season != 0 {
		params.Set("season", strconv.Itoa(query.Season))
	}
	return params, true
}

// CacheKey 캐시 키로 사용할 문자열을 반환합니다
func (query PlayerQuery) CacheKey() string {
	params, ok := query.Params()
	if !ok {
		return ""
	}
	return params.Encode()
}

// NewLoungeClient 새로운 LoungeClient 인스턴스를 생성합니다
func NewLoungeClient(baseURL string, ratePerSecond float64) *LoungeClient {
	utils.Debug("Creating new Lounge API client")
	if baseURL == "" {
		baseURL = constants.LoungeBaseURL
	}
	if ratePerSecond <= 0 {
		ratePerSecond = constants.DefaultLoungeRate
	}
	return &LoungeClient{
		client: &http.Client{
			Timeout: constants.APITimeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), constants.MaxConcurrentRequests),
	}
}

// GetPlayer 조건에 맞는 플레이어를 조회합니다. 찾지 못하면 nil을 반환합니다
func (client *LoungeClient) GetPlayer(ctx context.Context, query PlayerQuery) (*Player, error) {
	params, ok := query.Params()
	if !ok {
		return nil, nil
	}

	var player Player
	found, err := client.get(ctx, "/player", params, &player)
	if err != nil || !found {
		return nil, err
	}
	return &player, nil
}

// GetPlayerDetails 플레이어 상세 정보를 조회합니다. ID 또는 이름만 사용합니다
func (client *LoungeClient) GetPlayerDetails(ctx context.Context, query PlayerQuery) (*PlayerDetails, error) {
	if query.ID == 0 && query.Name == "" {
		return nil, nil
	}
	params, _ := PlayerQuery{ID: query.ID, Name: query.Name, Season: query.Season}.Params()

	var details PlayerDetails
	found, err := client.get(ctx, "/player/details", params, &details)
	if err != nil || !found {
		return nil, err
	}
	return &details, nil
}

// get 요청을 한 번만 보냅니다. 200이 아닌 응답은 "없음"으로 취급합니다
func (client *LoungeClient) get(ctx context.Context, path string, params url.Values, out interface{}) (bool, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	requestURL := client.baseURL + path + "?" + params.Encode()
	utils.Debug("Fetching lounge data from: %s", requestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return false, fmt.Errorf("요청 생성 실패: %w", err)
	}

	resp, err := client.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("lounge %s 조회 실패: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Debug("Lounge API returned status %d for %s", resp.StatusCode, requestURL)
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("응답 읽기 실패: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		utils.Error("Failed to parse lounge response for %s: %v", path, err)
		return false, fmt.Errorf("응답 파싱 실패: %w", err)
	}
	return true, nil
}
