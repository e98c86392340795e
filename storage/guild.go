package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

// GuildRepository 길드별 설정 문서와 전적 문서를 관리합니다
type GuildRepository struct {
	store interfaces.BlobStore
}

// NewGuildRepository 새로운 GuildRepository를 생성합니다
func NewGuildRepository(store interfaces.BlobStore) *GuildRepository {
	return &GuildRepository{store: store}
}

// Store 하위 저장소를 반환합니다
func (r *GuildRepository) Store() interfaces.BlobStore {
	return r.store
}

// DetailsPath 길드 설정 문서 경로입니다
func DetailsPath(guildID string) string {
	return path.Join(guildID, constants.GuildDetailsFile)
}

// ResultsPath 길드 전적 문서 경로입니다
func ResultsPath(guildID string) string {
	return path.Join(guildID, constants.GuildResultsFile)
}

// GetGuildInfo 설정 문서를 읽습니다. 문서가 없으면 기본값을 저장하고 반환합니다
func (r *GuildRepository) GetGuildInfo(ctx context.Context, guildID string) (*models.GuildInfo, error) {
	info := models.NewGuildInfo()
	err := GetJSON(ctx, r.store, DetailsPath(guildID), info)
	if errors.Is(err, ErrNotFound) {
		utils.Debug("Initializing guild details for %s", guildID)
		info = models.NewGuildInfo()
		if err := PutJSON(ctx, r.store, DetailsPath(guildID), info); err != nil {
			return nil, err
		}
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	if info.Recruit == nil {
		info.Recruit = models.RecruitmentBoard{}
	}
	return info, nil
}

// UpdateGuildInfo 설정 문서를 원자적으로 수정합니다
func (r *GuildRepository) UpdateGuildInfo(ctx context.Context, guildID string, fn func(info *models.GuildInfo) error) (*models.GuildInfo, error) {
	var updated *models.GuildInfo
	_, err := r.store.Update(ctx, DetailsPath(guildID), func(current []byte, exists bool) ([]byte, error) {
		info := models.NewGuildInfo()
		if exists {
			if err := json.Unmarshal(current, info); err != nil {
				return nil, fmt.Errorf("failed to decode guild details: %w", err)
			}
			if info.Recruit == nil {
				info.Recruit = models.RecruitmentBoard{}
			}
		}
		if err := fn(info); err != nil {
			return nil, err
		}
		updated = info
		return json.Marshal(info)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetResults 전적 목록을 읽습니다. 문서가 없으면 빈 목록을 저장하고 반환합니다
func (r *GuildRepository) GetResults(ctx context.Context, guildID string) ([]models.Result, error) {
	var results []models.Result
	err := GetJSON(ctx, r.store, ResultsPath(guildID), &results)
	if errors.Is(err, ErrNotFound) {
		results = []models.Result{}
		if err := PutJSON(ctx, r.store, ResultsPath(guildID), results); err != nil {
			return nil, err
		}
		return results, nil
	}
	if err != nil {
		return nil, err
	}
	return models.NormalizeResults(results), nil
}

// SaveResults 전적 목록을 정렬/중복 제거 후 덮어씁니다
func (r *GuildRepository) SaveResults(ctx context.Context, guildID string, results []models.Result) error {
	return PutJSON(ctx, r.store, ResultsPath(guildID), models.NormalizeResults(results))
}

// UpdateResults 전적 목록을 원자적으로 수정합니다. fn은 정렬된 목록을 받습니다
func (r *GuildRepository) UpdateResults(ctx context.Context, guildID string, fn func(results []models.Result) ([]models.Result, error)) ([]models.Result, error) {
	var updated []models.Result
	_, err := r.store.Update(ctx, ResultsPath(guildID), func(current []byte, exists bool) ([]byte, error) {
		results := []models.Result{}
		if exists {
			if err := json.Unmarshal(current, &results); err != nil {
				return nil, fmt.Errorf("failed to decode results: %w", err)
			}
		}
		next, err := fn(models.NormalizeResults(results))
		if err != nil {
			return nil, err
		}
		updated = models.NormalizeResults(next)
		return json.Marshal(updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GuildIDs 설정 문서가 있는 모든 길드 ID를 반환합니다
func (r *GuildRepository) GuildIDs(ctx context.Context) ([]string, error) {
	paths, err := r.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var ids []string
	suffix := "/" + constants.GuildDetailsFile
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) && strings.Count(p, "/") == 1 {
			ids = append(ids, strings.TrimSuffix(p, suffix))
		}
	}
	return ids, nil
}
