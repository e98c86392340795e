package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *LoungeClient {
	client := NewLoungeClient(baseURL, 1000)
	client.client = &http.Client{Timeout: constants.TestAPITimeout}
	return client
}

func TestNewLoungeClient(t *testing.T) {
	client := NewLoungeClient("", 0)

	if client == nil {
		t.Fatal("Expected non-nil client")
	}

	if client.baseURL != constants.LoungeBaseURL {
		t.Errorf("Expected base URL '%s', got '%s'", constants.LoungeBaseURL, client.baseURL)
	}

	if client.limiter == nil {
		t.Error("Expected non-nil rate limiter")
	}
}

func TestPlayerQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		query PlayerQuery
		want  string
		ok    bool
	}{
		{"id wins", PlayerQuery{ID: 5, Name: "Alice"}, "id=5", true},
		{"name", PlayerQuery{Name: "Alice"}, "name=Alice", true},
		{"discord with season", PlayerQuery{DiscordID: "123456789012345678", Season: 8}, "discordId=123456789012345678&season=8", true},
		{"friend code", PlayerQuery{FC: "0000-1111-2222"}, "fc=0000-1111-2222", true},
		{"empty", PlayerQuery{Season: 8}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := tt.query.Params()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, params.Encode())
			}
		})
	}
}

func TestLoungeClient_GetPlayer_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player" {
			t.Errorf("Expected path '/player', got '%s'", r.URL.Path)
		}
		if name := r.URL.Query().Get("name"); name != "Alice" {
			t.Errorf("Expected name 'Alice', got '%s'", name)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 42,
			"name": "Alice",
			"mkcId": 1000,
			"registryId": 777,
			"discordId": "123456789012345678",
			"switchFc": "0000-1111-2222",
			"isHidden": false,
			"mmr": 12345
		}`))
	}))
	defer server.Close()

	player, err := newTestClient(server.URL).GetPlayer(context.Background(), PlayerQuery{Name: "Alice"})
	require.NoError(t, err)
	require.NotNil(t, player)

	assert.Equal(t, 42, player.ID)
	assert.Equal(t, "Alice", player.Name)
	require.NotNil(t, player.MMR)
	assert.Equal(t, 12345, *player.MMR)
	require.NotNil(t, player.RegistryID)
	assert.Equal(t, 777, *player.RegistryID)
	require.NotNil(t, player.SwitchFC)
	assert.Equal(t, "0000-1111-2222", *player.SwitchFC)
}

func TestLoungeClient_GetPlayer_NotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	player, err := newTestClient(server.URL).GetPlayer(context.Background(), PlayerQuery{Name: "Nobody"})
	assert.NoError(t, err)
	assert.Nil(t, player)
	// 실패한 요청은 재시도하지 않는다
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoungeClient_GetPlayer_EmptyQuery(t *testing.T) {
	player, err := NewLoungeClient("http://127.0.0.1:0", 1).GetPlayer(context.Background(), PlayerQuery{})
	assert.NoError(t, err)
	assert.Nil(t, player)
}

func TestLoungeClient_GetPlayerDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player/details" {
			t.Errorf("Expected path '/player/details', got '%s'", r.URL.Path)
		}
		w.Write([]byte(`{"playerId": 42, "name": "Alice", "mmr": 9000, "rank": "Platinum 2", "eventsPlayed": 10}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).GetPlayerDetails(context.Background(), PlayerQuery{ID: 42, DiscordID: "ignored"})
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "Platinum 2", details.Rank)
	assert.Equal(t, 10, details.EventsPlayed)

	// ID 또는 이름이 없으면 요청하지 않는다
	details, err = newTestClient(server.URL).GetPlayerDetails(context.Background(), PlayerQuery{DiscordID: "1"})
	assert.NoError(t, err)
	assert.Nil(t, details)
}

func TestLoungeClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{invalid json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPlayer(context.Background(), PlayerQuery{Name: "Alice"})
	assert.Error(t, err)
}

func TestLoungeClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.client.Timeout = 50 * time.Millisecond

	_, err := client.GetPlayer(context.Background(), PlayerQuery{Name: "Alice"})
	assert.Error(t, err)
}
