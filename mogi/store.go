package mogi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/storage"
)

// Record 채널별로 저장되는 집계 기록입니다. 표시용 메시지는 MessageID로만 참조합니다
type Record struct {
	State     *State    `json:"state"`
	Version   int64     `json:"version"`
	MessageID string    `json:"messageId"`
	PostedAt  time.Time `json:"postedAt"`
	Image     string    `json:"image,omitempty"`
}

// Channel 집계가 진행되는 위치입니다
type Channel struct {
	GuildID   string
	ChannelID string
}

func (c Channel) key() string {
	return c.GuildID + "/" + c.ChannelID
}

// RecordPath 채널 기록의 저장 경로입니다
func RecordPath(ch Channel) string {
	return path.Join(ch.GuildID, constants.MogiRecordDir, ch.ChannelID+".json")
}

// Store 채널별 집계 기록을 BlobStore에 버전과 함께 저장합니다
type Store struct {
	blobs interfaces.BlobStore
	locks sync.Map // channel key -> *sync.Mutex
}

// NewStore 새로운 Store를 생성합니다
func NewStore(blobs interfaces.BlobStore) *Store {
	return &Store{blobs: blobs}
}

// Lock 채널 단위 잠금을 잡고 해제 함수를 반환합니다
func (s *Store) Lock(ch Channel) func() {
	value, _ := s.locks.LoadOrStore(ch.key(), &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Load 채널 기록을 읽습니다. 없으면 ErrMogiNotFound를 반환합니다
func (s *Store) Load(ctx context.Context, ch Channel) (*Record, error) {
	data, err := s.blobs.Get(ctx, RecordPath(ch))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMogiNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode mogi record: %w", err)
	}
	if rec.State == nil {
		return nil, ErrMogiNotFound
	}
	return &rec, nil
}

// Save 저장된 버전이 rec.Version과 같을 때만 기록을 쓰고 버전을 올립니다
func (s *Store) Save(ctx context.Context, ch Channel, rec *Record) error {
	expected := rec.Version
	next := *rec
	next.Version = expected + 1

	_, err := s.blobs.Update(ctx, RecordPath(ch), func(current []byte, exists bool) ([]byte, error) {
		var stored int64
		if exists {
			var cur Record
			if err := json.Unmarshal(current, &cur); err != nil {
				return nil, fmt.Errorf("failed to decode mogi record: %w", err)
			}
			stored = cur.Version
		}
		if stored != expected {
			return nil, fmt.Errorf("%w: stored %d, expected %d", ErrVersionConflict, stored, expected)
		}
		return json.Marshal(&next)
	})
	if err != nil {
		return err
	}
	rec.Version = next.Version
	return nil
}

// Delete 채널 기록을 삭제합니다
func (s *Store) Delete(ctx context.Context, ch Channel) error {
	return s.blobs.Delete(ctx, RecordPath(ch))
}
