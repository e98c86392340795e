package mogi

import (
	"context"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImages struct{}

func (stubImages) Fetch(ctx context.Context, url string) ([]byte, error) {
	return []byte("png:" + url), nil
}

type serviceFixture struct {
	svc     *Service
	session *testutil.FakeSession
	store   *Store
	ch      Channel
	offset  time.Duration
}

func newServiceFixture(t *testing.T, botIDs ...string) *serviceFixture {
	t.Helper()
	session := testutil.NewFakeSession("bot")
	store := NewStore(storage.NewInMemoryStore())
	f := &serviceFixture{
		svc:     NewService(store, session, botIDs, time.Hour),
		session: session,
		store:   store,
		ch:      Channel{GuildID: "g", ChannelID: "c"},
	}
	f.svc.SetSelfID("bot")
	f.svc.SetImageFetcher(stubImages{})
	f.svc.now = func() time.Time { return session.Clock().Add(f.offset) }
	return f
}

func (f *serviceFixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Start(context.Background(), f.ch, New("A", "B", []string{"1"}, constants.LangEN), ""))
}

func (f *serviceFixture) current(t *testing.T) *State {
	t.Helper()
	state, err := f.svc.Current(context.Background(), f.ch, true)
	require.NoError(t, err)
	return state
}

func TestService_StartPostsMirror(t *testing.T) {
	f := newServiceFixture(t)
	f.start(t)

	last := f.session.Last("c")
	require.NotNil(t, last)
	require.Len(t, last.Embeds, 1)
	assert.Equal(t, "Sokuji 6v6\nA - B", last.Embeds[0].Title)

	rec, err := f.store.Load(context.Background(), f.ch)
	require.NoError(t, err)
	assert.Equal(t, last.ID, rec.MessageID)
	assert.Equal(t, int64(1), rec.Version)
}

func TestService_StartKeepsPreviousMessage(t *testing.T) {
	f := newServiceFixture(t)
	f.start(t)
	first := f.session.Last("c")

	require.NoError(t, f.svc.Start(context.Background(), f.ch, New("A", "C", nil, constants.LangEN), ""))

	assert.Len(t, f.session.Messages("c"), 2)
	assert.NotContains(t, f.session.Deleted, first.ID)
	assert.Equal(t, "C", f.current(t).Tags[1])
}

func TestService_HandleChatAddsRaceAndReposts(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)
	first := f.session.Last("c")

	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1234-5"))

	state := f.current(t)
	require.Len(t, state.Races, 1)
	assert.Equal(t, models.Point{Ally: 55, Enemy: 27}, state.Total())
	assert.Contains(t, f.session.Deleted, first.ID)

	last := f.session.Last("c")
	assert.NotEqual(t, first.ID, last.ID)
	assert.Equal(t, "`55 : 27(+28) @11`", last.Embeds[0].Description)
}

func TestService_HandleChatUsesImplicitTrack(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)

	f.session.Post("c", "user", "MKS")
	f.session.Post("c", "user", "dBP")
	f.session.Post("c", "user", "gg")
	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1-6"))

	state := f.current(t)
	require.Len(t, state.Races, 1)
	require.NotNil(t, state.Races[0].Track)
	assert.Equal(t, "dBP", state.Races[0].Track.Abbr)

	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1-6"))
	state = f.current(t)
	assert.Nil(t, state.Races[1].Track)
}

func TestService_HandleChatBackAndIgnoredInput(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)

	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "hello"))
	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1234-5"))
	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "back"))
	assert.Empty(t, f.current(t).Races)

	err := f.svc.HandleChat(ctx, f.ch, "back")
	assert.True(t, IsRejected(err, NotBackable))
	assert.True(t, IsSilent(err))
}

func TestService_HandleChatWithoutMogi(t *testing.T) {
	f := newServiceFixture(t)
	err := f.svc.HandleChat(context.Background(), f.ch, "1234-5")
	assert.ErrorIs(t, err, ErrMogiNotFound)
	assert.True(t, IsSilent(err))
}

func TestService_MutateEditsInPlace(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)
	mirror := f.session.Last("c")

	state, err := f.svc.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
		s.End()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusArchive, state.Status)
	assert.Len(t, f.session.Messages("c"), 1)
	require.NotNil(t, mirror.Embeds[0].Author)
	assert.Equal(t, "Archived", mirror.Embeds[0].Author.Name)

	err = f.svc.HandleChat(ctx, f.ch, "1234-5")
	assert.True(t, IsRejected(err, MogiArchived))

	_, err = f.svc.Current(ctx, f.ch, false)
	assert.True(t, IsRejected(err, MogiArchived))

	state, err = f.svc.Mutate(ctx, f.ch, MutateOptions{IncludeArchived: true}, func(s *State) error {
		s.Resume()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, state.Status)
}

func TestService_MutateErrorLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)

	_, err := f.svc.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
		return s.AddAdjustment(AdjustPenalty, "Z", -15)
	})
	assert.ErrorIs(t, err, ErrInvalidTag)

	rec, err := f.store.Load(ctx, f.ch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
}

func TestService_EditFallsBackToPostWhenMessageIsGone(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)
	mirror := f.session.Last("c")
	require.NoError(t, f.session.ChannelMessageDelete("c", mirror.ID))

	_, err := f.svc.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
		s.Tags[1] = "C"
		return nil
	})
	require.NoError(t, err)

	last := f.session.Last("c")
	require.NotNil(t, last)
	assert.NotEqual(t, mirror.ID, last.ID)
	assert.Equal(t, "Sokuji 6v6\nA - C", last.Embeds[0].Title)
}

// replica 같은 저장소와 채널을 쓰는 두 번째 봇 인스턴스를 만듭니다
func (f *serviceFixture) replica(store *Store) *Service {
	other := NewService(store, f.session, nil, time.Hour)
	other.SetSelfID("bot")
	other.SetImageFetcher(stubImages{})
	other.now = f.svc.now
	return other
}

func newSharedFixture(t *testing.T) (*serviceFixture, *Service) {
	t.Helper()
	blobs := storage.NewInMemoryStore()
	f := newServiceFixture(t)
	f.store = NewStore(blobs)
	f.svc.store = f.store
	f.start(t)
	return f, f.replica(NewStore(blobs))
}

// interleave 다음 메시지 쓰기 직전에 한 번만 fn을 실행합니다
func interleave(f *serviceFixture, fn func()) {
	f.session.BeforeWrite = func(string) {
		f.session.BeforeWrite = nil
		fn()
	}
}

func mirrors(t *testing.T, f *serviceFixture) []*State {
	t.Helper()
	var out []*State
	for _, msg := range f.session.Messages("c") {
		if len(msg.Embeds) == 0 {
			continue
		}
		state, err := Decode(msg.Embeds[0])
		require.NoError(t, err)
		out = append(out, state)
	}
	return out
}

func TestService_RepostConflictRemovesRejectedMirror(t *testing.T) {
	ctx := context.Background()
	f, other := newSharedFixture(t)

	interleave(f, func() {
		_, err := other.Mutate(ctx, f.ch, MutateOptions{Repost: true}, func(s *State) error {
			return s.AddRace(Race{Rank: models.Rank{1, 2, 3, 4, 5, 6}})
		})
		require.NoError(t, err)
	})

	_, err := f.svc.Mutate(ctx, f.ch, MutateOptions{Repost: true}, func(s *State) error {
		return s.AddRace(Race{Rank: models.Rank{7, 8, 9, 10, 11, 12}})
	})
	require.ErrorIs(t, err, ErrVersionConflict)

	visible := mirrors(t, f)
	require.Len(t, visible, 1)
	assert.Equal(t, models.Point{Ally: 61, Enemy: 21}, visible[0].Total())

	rec, err := f.store.Load(ctx, f.ch)
	require.NoError(t, err)
	assert.Equal(t, f.session.Last("c").ID, rec.MessageID)
	assert.Equal(t, int64(2), rec.Version)
}

func TestService_EditConflictRestoresStoredMirror(t *testing.T) {
	ctx := context.Background()
	f, other := newSharedFixture(t)
	mirror := f.session.Last("c")

	interleave(f, func() {
		_, err := other.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
			return s.AddAdjustment(AdjustPenalty, "A", -10)
		})
		require.NoError(t, err)
	})

	_, err := f.svc.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
		s.Tags[1] = "C"
		return nil
	})
	require.ErrorIs(t, err, ErrVersionConflict)

	visible := mirrors(t, f)
	require.Len(t, visible, 1)
	assert.Equal(t, mirror.ID, f.session.Last("c").ID)
	assert.Equal(t, "B", visible[0].Tags[1])
	assert.Equal(t, models.Point{Ally: -10}, visible[0].Penalty)
}

func TestService_StartConflictRemovesNewMirror(t *testing.T) {
	ctx := context.Background()
	f, other := newSharedFixture(t)

	interleave(f, func() {
		_, err := other.Mutate(ctx, f.ch, MutateOptions{}, func(s *State) error {
			s.Tags[1] = "D"
			return nil
		})
		require.NoError(t, err)
	})

	err := f.svc.Start(ctx, f.ch, New("A", "E", nil, constants.LangEN), "")
	require.ErrorIs(t, err, ErrVersionConflict)

	visible := mirrors(t, f)
	require.Len(t, visible, 1)
	assert.Equal(t, "D", visible[0].Tags[1])
}

func TestService_Images(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)

	_, err := f.svc.SetImage(ctx, f.ch, "https://cdn.example.com/a.gif", "a.gif")
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = f.svc.SetImage(ctx, f.ch, "https://cdn.example.com/result.png", "result.png")
	require.NoError(t, err)
	require.Len(t, f.session.Files, 1)
	assert.Equal(t, "image.png", f.session.Files[0].Name)
	assert.Equal(t, "png:https://cdn.example.com/result.png", string(f.session.Files[0].Data))

	mirror := f.session.Last("c")
	require.NotNil(t, mirror.Embeds[0].Image)
	assert.Equal(t, "attachment://image.png", mirror.Embeds[0].Image.URL)

	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1234-5"))
	assert.Len(t, f.session.Files, 2)

	_, err = f.svc.RemoveImage(ctx, f.ch)
	require.NoError(t, err)
	last := f.session.Last("c")
	assert.Nil(t, last.Embeds[0].Image)
	assert.Empty(t, last.Attachments)

	rec, err := f.store.Load(ctx, f.ch)
	require.NoError(t, err)
	assert.Empty(t, rec.Image)
}

func TestService_AdoptsMessageWithoutRecord(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, "legacy")

	state := New("A", "B", []string{"1"}, constants.LangEN)
	require.NoError(t, state.AddRace(Race{Rank: models.Rank{1, 2, 3, 4, 5, 12}}))
	legacy := f.session.Post("c", "legacy", "", Encode(state))
	f.session.Post("c", "user", "chat")

	current, err := f.svc.Current(ctx, f.ch, false)
	require.NoError(t, err)
	assert.Len(t, current.Races, 1)

	require.NoError(t, f.svc.HandleChat(ctx, f.ch, "1-6"))
	assert.Equal(t, 2, len(f.current(t).Races))
	assert.NotContains(t, f.session.Deleted, legacy.ID)
	assert.Equal(t, "bot", f.session.Last("c").Author.ID)
}

func TestService_RecordOutsideLookbackIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.start(t)

	f.offset = 2 * time.Hour
	_, err := f.svc.Current(ctx, f.ch, true)
	assert.ErrorIs(t, err, ErrMogiNotFound)
}

func TestService_FindCurrentSkipsForeignMessages(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	f.session.Post("c", "user", "", Encode(New("X", "Y", nil, constants.LangEN)))
	_, _, _, err := f.svc.FindCurrent(ctx, "c", true)
	assert.ErrorIs(t, err, ErrMogiNotFound)

	f.start(t)
	f.session.Post("c", "user", "WP")

	state, msg, track, err := f.svc.FindCurrent(ctx, "c", true)
	require.NoError(t, err)
	assert.Equal(t, "A", state.Tags[0])
	assert.Equal(t, "bot", msg.Author.ID)
	require.NotNil(t, track)
	assert.Equal(t, "WP", track.Abbr)
}
