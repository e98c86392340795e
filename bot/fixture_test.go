package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/mogi"
	"github.com/Yumax-panda/Mario-Kart/results"
	"github.com/Yumax-panda/Mario-Kart/scoring"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/testutil"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// fakeLounge 메모리에 있는 플레이어만 돌려주는 Lounge 클라이언트입니다
type fakeLounge struct {
	byDiscord map[string]*api.Player
	byName    map[string]*api.Player
	err       error
	cleared   bool
}

func newFakeLounge(players ...*api.Player) *fakeLounge {
	l := &fakeLounge{byDiscord: map[string]*api.Player{}, byName: map[string]*api.Player{}}
	for _, p := range players {
		l.byDiscord[p.DiscordID] = p
		l.byName[strings.ToLower(p.Name)] = p
	}
	return l
}

func (l *fakeLounge) GetPlayer(ctx context.Context, query api.PlayerQuery) (*api.Player, error) {
	if l.err != nil {
		return nil, l.err
	}
	switch {
	case query.DiscordID != "":
		return l.byDiscord[query.DiscordID], nil
	case query.Name != "":
		return l.byName[strings.ToLower(query.Name)], nil
	}
	return nil, nil
}

func (l *fakeLounge) GetPlayerDetails(ctx context.Context, query api.PlayerQuery) (*api.PlayerDetails, error) {
	return nil, nil
}

func (l *fakeLounge) GetPlayers(ctx context.Context, discordIDs []string) []*api.Player {
	out := make([]*api.Player, len(discordIDs))
	for i, id := range discordIDs {
		out[i] = l.byDiscord[id]
	}
	return out
}

func (l *fakeLounge) GetCacheStats() api.CacheMetrics {
	return api.CacheMetrics{TotalCalls: 4, CacheHits: 3, CacheMisses: 1, HitRate: 75}
}

func (l *fakeLounge) ClearCache() {
	l.cleared = true
}

// fakeTeams 스프레드시트 대신 맵에 팀 이름과 계정 연결을 저장합니다
type fakeTeams struct {
	names map[string]string
	links map[string]string
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{names: map[string]string{}, links: map[string]string{}}
}

func (f *fakeTeams) GetTeamName(ctx context.Context, guildID string) (string, error) {
	return f.names[guildID], nil
}

func (f *fakeTeams) SetTeamName(ctx context.Context, guildID, name string) error {
	f.names[guildID] = name
	return nil
}

func (f *fakeTeams) ResetTeamName(ctx context.Context, guildID string) error {
	delete(f.names, guildID)
	return nil
}

func (f *fakeTeams) LinkedIDs(ctx context.Context, discordIDs []string) ([]string, error) {
	out := make([]string, len(discordIDs))
	for i, id := range discordIDs {
		out[i] = id
		if linked, ok := f.links[id]; ok {
			out[i] = linked
		}
	}
	return out, nil
}

func (f *fakeTeams) SetLinkedID(ctx context.Context, discordID, loungeDiscordID string) error {
	f.links[discordID] = loungeDiscordID
	return nil
}

// fakeFiles 첨부 파일 URL별 내용을 돌려줍니다
type fakeFiles struct {
	data map[string][]byte
}

func (f *fakeFiles) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := f.data[url]; ok {
		return data, nil
	}
	return []byte("png"), nil
}

type commandRecord struct {
	name    string
	success bool
}

type fakeRecorder struct {
	mu       sync.Mutex
	commands []commandRecord
}

func (r *fakeRecorder) RecordCommand(command string, success bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, commandRecord{name: command, success: success})
}

func (r *fakeRecorder) RecordReset(guilds int) {}

type fixture struct {
	handler *CommandHandler
	session *testutil.FakeSession
	deps    *CommandDependencies
	repo    *storage.GuildRepository
	lounge  *fakeLounge
	teams   *fakeTeams
	files   *fakeFiles
	metrics *fakeRecorder
}

const (
	testGuild   = "g"
	testChannel = "c"
	testAuthor  = "100"
)

func intPtr(n int) *int { return &n }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	session := testutil.NewFakeSession("bot")
	session.Guilds[testGuild] = &discordgo.Guild{ID: testGuild, Name: "Home"}

	repo := storage.NewGuildRepository(storage.NewInMemoryStore())
	files := &fakeFiles{data: map[string][]byte{}}
	mogiService := mogi.NewService(mogi.NewStore(repo.Store()), session, nil, time.Hour)
	mogiService.SetImageFetcher(files)
	handsupService := handsup.NewService(repo, session, handsup.NewRoleManager(session, 2))

	lounge := newFakeLounge(
		&api.Player{ID: 1, Name: "Alice", DiscordID: "100", MMR: intPtr(7000), RegistryID: intPtr(11)},
		&api.Player{ID: 2, Name: "Bob", DiscordID: "200", MMR: intPtr(8000)},
		&api.Player{ID: 3, Name: "Carol", DiscordID: "300", MMR: intPtr(9000)},
	)
	teams := newFakeTeams()
	metrics := &fakeRecorder{}

	deps := NewCommandDependencies(mogiService, handsupService, results.NewService(repo), lounge, teams,
		scoring.NewTeamCalculator(models.GetTierManager()), metrics, constants.LangEN)
	deps.Files = files

	handler := NewCommandHandler(deps)
	handler.SetSelfID("bot")

	return &fixture{
		handler: handler,
		session: session,
		deps:    deps,
		repo:    repo,
		lounge:  lounge,
		teams:   teams,
		files:   files,
		metrics: metrics,
	}
}

type messageOption func(*discordgo.Message)

func withMentions(users ...*discordgo.User) messageOption {
	return func(m *discordgo.Message) { m.Mentions = users }
}

func withRoles(roleIDs ...string) messageOption {
	return func(m *discordgo.Message) { m.MentionRoles = roleIDs }
}

func withAttachment(name, url string) messageOption {
	return func(m *discordgo.Message) {
		m.Attachments = append(m.Attachments, &discordgo.MessageAttachment{Filename: name, URL: url})
	}
}

func inDM() messageOption {
	return func(m *discordgo.Message) { m.GuildID = "" }
}

// send 작성자 "alice"가 보낸 메시지를 처리합니다
func (f *fixture) send(content string, opts ...messageOption) {
	msg := &discordgo.Message{
		ID:        "1",
		GuildID:   testGuild,
		ChannelID: testChannel,
		Content:   content,
		Author:    &discordgo.User{ID: testAuthor, Username: "alice"},
	}
	for _, opt := range opts {
		opt(msg)
	}
	f.handler.Dispatch(context.Background(), f.session, msg)
}

// last 채널에 마지막으로 보낸 메시지 본문입니다
func (f *fixture) last(t *testing.T) string {
	t.Helper()
	msg := f.session.Last(testChannel)
	require.NotNil(t, msg, "no message was sent")
	return msg.Content
}

func (f *fixture) current(t *testing.T) *mogi.State {
	t.Helper()
	state, err := f.deps.Mogi.Current(context.Background(), mogi.Channel{GuildID: testGuild, ChannelID: testChannel}, true)
	require.NoError(t, err)
	return state
}
