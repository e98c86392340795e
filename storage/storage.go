package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Yumax-panda/Mario-Kart/config"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

var (
	// ErrNotFound 경로에 문서가 없을 때 반환됩니다
	ErrNotFound = errors.New("blob not found")
	// ErrConflict 재시도 횟수 안에 원자적 갱신을 끝내지 못했을 때 반환됩니다
	ErrConflict = errors.New("blob update conflict")
)

// NewBlobStore 설정된 백엔드의 저장소를 생성합니다
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (interfaces.BlobStore, error) {
	switch cfg.Backend {
	case config.StorageFirestore:
		return NewFirestoreStore(ctx, cfg.FirebaseCredentialsJSON)
	case config.StorageRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.StorageMemory, "":
		utils.Warn("Using in-memory storage; data will be lost on restart")
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// GetJSON 문서를 읽어 out에 디코딩합니다
func GetJSON(ctx context.Context, store interfaces.BlobStore, path string, out interface{}) error {
	data, err := store.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// PutJSON 값을 JSON으로 인코딩해 저장합니다
func PutJSON(ctx context.Context, store interfaces.BlobStore, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return store.Put(ctx, path, data)
}
