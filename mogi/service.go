package mogi

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

// maxHistoryPages 기록 창 안에서 조회할 최대 페이지 수입니다
const maxHistoryPages = 5

// MutateOptions 상태 변경 방식입니다
type MutateOptions struct {
	IncludeArchived bool   // 보관된 집계도 대상으로 함
	Repost          bool   // 수정 대신 새 메시지로 다시 게시
	Content         string // 새로 게시할 때 함께 보낼 본문
}

// Service 채널별 즉시 집계를 불러오고, 변경하고, 표시합니다
type Service struct {
	store    *Store
	session  interfaces.ChatSession
	mirror   *mirror
	lookback time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	botIDs []string
	selfID string
}

// NewService 새로운 Service를 생성합니다. botIDs는 다른 인스턴스의 봇 ID처럼 인정할 작성자입니다
func NewService(store *Store, session interfaces.ChatSession, botIDs []string, lookback time.Duration) *Service {
	if lookback <= 0 {
		lookback = constants.MogiLookback
	}
	return &Service{
		store:    store,
		session:  session,
		mirror:   &mirror{session: session, images: NewHTTPImageFetcher()},
		lookback: lookback,
		now:      time.Now,
		botIDs:   append([]string(nil), botIDs...),
	}
}

// SetImageFetcher 이미지 다운로더를 교체합니다
func (s *Service) SetImageFetcher(fetcher ImageFetcher) {
	s.mirror.images = fetcher
}

// SetSelfID 실행 중인 봇의 ID를 등록합니다
func (s *Service) SetSelfID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selfID = id
	if !containsID(s.botIDs, id) {
		s.botIDs = append(s.botIDs, id)
	}
}

func (s *Service) identities() ([]string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.botIDs...), s.selfID
}

// Start 채널에 새 집계를 시작합니다. 기존 집계는 대체됩니다
func (s *Service) Start(ctx context.Context, ch Channel, state *State, content string) error {
	unlock := s.store.Lock(ch)
	defer unlock()

	rec := &Record{State: state}
	existing, err := s.store.Load(ctx, ch)
	switch {
	case err == nil:
		rec.Version = existing.Version
	case !errors.Is(err, ErrMogiNotFound):
		return err
	}

	if err := s.mirror.publish(ctx, ch.ChannelID, rec, content, s.now()); err != nil {
		return err
	}
	if err := s.store.Save(ctx, ch, rec); err != nil {
		s.mirror.retire(ch.ChannelID, rec.MessageID)
		return err
	}
	return nil
}

// Current 채널의 현재 집계를 읽기 전용으로 반환합니다
func (s *Service) Current(ctx context.Context, ch Channel, includeArchived bool) (*State, error) {
	rec, err := s.load(ctx, ch, includeArchived)
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

// Mutate 현재 집계에 fn을 적용하고 저장한 뒤 표시 메시지를 갱신합니다.
// fn이 오류를 반환하면 아무것도 저장하지 않습니다
func (s *Service) Mutate(ctx context.Context, ch Channel, opts MutateOptions, fn func(state *State) error) (*State, error) {
	rec, err := s.mutate(ctx, ch, opts, func(rec *Record) error {
		return fn(rec.State)
	})
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

func (s *Service) mutate(ctx context.Context, ch Channel, opts MutateOptions, fn func(rec *Record) error) (*Record, error) {
	unlock := s.store.Lock(ch)
	defer unlock()

	rec, err := s.load(ctx, ch, opts.IncludeArchived)
	if err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		return nil, err
	}

	previous := rec.MessageID
	if opts.Repost {
		err = s.mirror.publish(ctx, ch.ChannelID, rec, opts.Content, s.now())
	} else {
		err = s.mirror.edit(ctx, ch.ChannelID, rec, s.now())
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, ch, rec); err != nil {
		s.rollback(ctx, ch, rec, previous)
		return nil, err
	}
	if rec.MessageID != previous {
		s.mirror.retire(ch.ChannelID, previous)
	}
	return rec, nil
}

// rollback 저장하지 못한 변경의 표시를 되돌립니다. 새로 게시한 메시지는 지우고,
// 제자리에서 고친 메시지는 저장된 기록으로 다시 그립니다
func (s *Service) rollback(ctx context.Context, ch Channel, rec *Record, previous string) {
	if rec.MessageID != previous {
		s.mirror.retire(ch.ChannelID, rec.MessageID)
		return
	}

	stored, err := s.store.Load(ctx, ch)
	if err != nil || stored.MessageID != rec.MessageID {
		return
	}
	if err := s.mirror.edit(ctx, ch.ChannelID, stored, s.now()); err != nil {
		utils.Warn("Failed to restore mogi message %s: %v", stored.MessageID, err)
	}
}

// SetImage 사용자가 올린 결과 이미지를 집계 메시지에 붙입니다
func (s *Service) SetImage(ctx context.Context, ch Channel, url, filename string) (*State, error) {
	if !ValidImageName(filename) {
		return nil, ErrInvalidFile
	}
	rec, err := s.mutate(ctx, ch, MutateOptions{IncludeArchived: true}, func(rec *Record) error {
		rec.Image = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

// RemoveImage 집계 메시지의 이미지를 제거합니다
func (s *Service) RemoveImage(ctx context.Context, ch Channel) (*State, error) {
	rec, err := s.mutate(ctx, ch, MutateOptions{IncludeArchived: true}, func(rec *Record) error {
		rec.Image = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.State, nil
}

// HandleChat 일반 채팅을 레이스 입력으로 해석합니다. "back"은 되돌리기, 순위 형식은 레이스 추가입니다.
// 관련 없는 메시지면 nil을 반환합니다
func (s *Service) HandleChat(ctx context.Context, ch Channel, content string) error {
	if content == "back" {
		_, err := s.mutate(ctx, ch, MutateOptions{Repost: true}, func(rec *Record) error {
			_, err := rec.State.Back()
			return err
		})
		return err
	}

	if !models.LooksLikeRank(content) {
		return nil
	}
	rank, ok := models.ParseRank(content)
	if !ok {
		return nil
	}

	_, err := s.mutate(ctx, ch, MutateOptions{Repost: true}, func(rec *Record) error {
		track := s.implicitTrack(ch.ChannelID, rec.MessageID)
		return rec.State.AddRace(Race{Rank: rank, Track: track})
	})
	return err
}

// implicitTrack 집계 메시지 이후 올라온 메시지 중 가장 최근에 코스 이름만 적힌 것을 찾습니다
func (s *Service) implicitTrack(channelID, afterID string) *models.Track {
	if afterID == "" {
		return nil
	}
	msgs, err := s.session.ChannelMessages(channelID, constants.MogiHistoryLimit, "", afterID, "")
	if err != nil {
		utils.Warn("Failed to read messages after %s: %v", afterID, err)
		return nil
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.After(msgs[j].Timestamp)
	})
	for _, msg := range msgs {
		if track := models.FindTrack(msg.Content); track != nil {
			return track
		}
	}
	return nil
}

// load 저장된 기록을 읽습니다. 기록이 없거나 기록 창을 벗어났으면 채널 기록에서 집계 메시지를 찾아 채택합니다
func (s *Service) load(ctx context.Context, ch Channel, includeArchived bool) (*Record, error) {
	rec, err := s.store.Load(ctx, ch)
	if err != nil && !errors.Is(err, ErrMogiNotFound) {
		return nil, err
	}

	if rec == nil || s.now().Sub(rec.PostedAt) > s.lookback {
		adopted, adoptErr := s.adopt(ctx, ch)
		if adoptErr != nil {
			return nil, adoptErr
		}
		if rec != nil {
			adopted.Version = rec.Version
		}
		rec = adopted
	}

	if rec.State.Status == StatusArchive && !includeArchived {
		return nil, reject(MogiArchived)
	}
	return rec, nil
}

func (s *Service) adopt(ctx context.Context, ch Channel) (*Record, error) {
	state, msg, _, err := s.FindCurrent(ctx, ch.ChannelID, true)
	if err != nil {
		return nil, err
	}

	_, selfID := s.identities()
	rec := &Record{State: state, PostedAt: msg.Timestamp, Image: messageImageURL(msg)}
	// 다른 봇이 쓴 메시지는 수정할 수 없으므로 다음 갱신 때 새로 게시한다
	if msg.Author != nil && msg.Author.ID == selfID {
		rec.MessageID = msg.ID
	}
	utils.Debug("Adopted mogi message %s in channel %s", msg.ID, ch.ChannelID)
	return rec, nil
}

// FindCurrent 기록 창 안의 채널 메시지를 최신순으로 살펴 첫 번째 집계 메시지를 복원합니다.
// 집계 메시지보다 나중에 올라온 메시지 중 코스 이름만 적힌 가장 최근 것도 함께 반환합니다
func (s *Service) FindCurrent(ctx context.Context, channelID string, includeArchived bool) (*State, *discordgo.Message, *models.Track, error) {
	botIDs, _ := s.identities()
	cutoff := s.now().Add(-s.lookback)
	var track *models.Track
	before := ""

	for page := 0; page < maxHistoryPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		msgs, err := s.session.ChannelMessages(channelID, constants.MogiHistoryLimit, before, "", "")
		if err != nil {
			return nil, nil, nil, err
		}
		if len(msgs) == 0 {
			break
		}

		for _, msg := range msgs {
			if msg.Timestamp.Before(cutoff) {
				return nil, nil, nil, ErrMogiNotFound
			}
			if track == nil {
				track = models.FindTrack(msg.Content)
			}
			if !Verify(msg, botIDs, true) {
				continue
			}

			state, err := Decode(msg.Embeds[0])
			if err != nil {
				return nil, nil, nil, err
			}
			if state.Status == StatusArchive && !includeArchived {
				return nil, nil, nil, reject(MogiArchived)
			}
			return state, msg, track, nil
		}
		before = msgs[len(msgs)-1].ID
	}
	return nil, nil, nil, ErrMogiNotFound
}
