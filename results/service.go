package results

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

// Entry 목록에서 0부터 시작하는 번호가 붙은 전적입니다
type Entry struct {
	ID int
	models.Result
}

// Edit 전적 수정 내용입니다. 비어 있는 값은 기존 값을 유지합니다
type Edit struct {
	Enemy  string
	Scores []int
	Date   string
}

// Service 길드별 교류전 전적을 관리합니다
type Service struct {
	repo *storage.GuildRepository
	now  func() time.Time
}

// NewService 새로운 Service를 생성합니다
func NewService(repo *storage.GuildRepository) *Service {
	return &Service{repo: repo, now: utils.GetCurrentTimeJST}
}

// List 모든 전적을 날짜순으로 반환합니다
func (s *Service) List(ctx context.Context, guildID string) ([]Entry, error) {
	results, err := s.repo.GetResults(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return entries(results), nil
}

// Search 상대 팀 이름이 정확히 일치하는 전적을 찾습니다.
// 일치하는 전적이 없으면 첫 글자가 같은(대소문자 무시) 상대 이름을 제안합니다
func (s *Service) Search(ctx context.Context, guildID, enemy string) ([]Entry, []string, error) {
	all, err := s.List(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}

	var matches []Entry
	for _, entry := range all {
		if entry.Enemy == enemy {
			matches = append(matches, entry)
		}
	}
	if len(matches) > 0 {
		return matches, nil, nil
	}

	similar := similarNames(all, enemy)
	if len(similar) == 0 {
		return nil, nil, ErrEmptyResult
	}
	return nil, similar, nil
}

func similarNames(all []Entry, name string) []string {
	first, _ := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return nil
	}
	first = unicode.ToLower(first)

	seen := make(map[string]bool)
	var names []string
	for _, entry := range all {
		r, _ := utf8.DecodeRuneInString(entry.Enemy)
		if unicode.ToLower(r) != first || seen[entry.Enemy] {
			continue
		}
		seen[entry.Enemy] = true
		names = append(names, entry.Enemy)
	}
	return names
}

// Register 전적을 추가합니다. 점수가 하나면 상대 점수는 984에서 뺀 값입니다.
// date가 비어 있으면 현재 시각을 사용합니다
func (s *Service) Register(ctx context.Context, guildID, enemy string, scores []int, date string) (models.Result, error) {
	score, enemyScore, err := splitScores(scores)
	if err != nil {
		return models.Result{}, err
	}

	when := s.now()
	if strings.TrimSpace(date) != "" {
		if when, err = utils.ParseDate(date, s.now()); err != nil {
			return models.Result{}, ErrInvalidDate
		}
	}

	result := models.Result{Score: score, EnemyScore: enemyScore, Enemy: enemy, Date: utils.FormatDateTime(when.In(utils.JST))}
	if _, err := s.repo.UpdateResults(ctx, guildID, func(results []models.Result) ([]models.Result, error) {
		return append(results, result), nil
	}); err != nil {
		return models.Result{}, err
	}
	return result, nil
}

func splitScores(scores []int) (int, int, error) {
	switch len(scores) {
	case 1:
		return scores[0], constants.DefaultTotalScore - scores[0], nil
	case 2:
		return scores[0], scores[1], nil
	default:
		return 0, 0, ErrInvalidScoreInput
	}
}

// Delete 번호에 해당하는 전적을 삭제하고 삭제된 전적을 반환합니다
func (s *Service) Delete(ctx context.Context, guildID string, ids []int) ([]Entry, error) {
	ids = uniqueSorted(ids)
	if len(ids) == 0 {
		return nil, ErrInvalidIDInput
	}

	var deleted []Entry
	_, err := s.repo.UpdateResults(ctx, guildID, func(results []models.Result) ([]models.Result, error) {
		results = models.NormalizeResults(results)
		if len(results) == 0 {
			return nil, ErrEmptyResult
		}

		drop := make(map[int]bool, len(ids))
		for _, id := range ids {
			if id < 0 || id >= len(results) {
				return nil, ErrIDOutOfRange
			}
			drop[id] = true
		}

		deleted = deleted[:0]
		kept := make([]models.Result, 0, len(results)-len(ids))
		for i, r := range results {
			if drop[i] {
				deleted = append(deleted, Entry{ID: i, Result: r})
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Edit 번호에 해당하는 전적을 수정합니다. 점수는 1~2개만 허용합니다
func (s *Service) Edit(ctx context.Context, guildID string, id int, edit Edit) (models.Result, error) {
	if edit.Scores != nil && (len(edit.Scores) < 1 || len(edit.Scores) > 2) {
		return models.Result{}, ErrInvalidScoreInput
	}

	var date string
	if strings.TrimSpace(edit.Date) != "" {
		when, err := utils.ParseDate(edit.Date, s.now())
		if err != nil {
			return models.Result{}, ErrInvalidDate
		}
		date = utils.FormatDateTime(when)
	}

	var edited models.Result
	_, err := s.repo.UpdateResults(ctx, guildID, func(results []models.Result) ([]models.Result, error) {
		results = models.NormalizeResults(results)
		if id < 0 || id >= len(results) {
			return nil, ErrIDOutOfRange
		}

		r := results[id]
		if edit.Enemy != "" {
			r.Enemy = edit.Enemy
		}
		if len(edit.Scores) >= 1 {
			r.Score = edit.Scores[0]
		}
		if len(edit.Scores) == 2 {
			r.EnemyScore = edit.Scores[1]
		}
		if date != "" {
			r.Date = date
		}
		results[id] = r
		edited = r
		return results, nil
	})
	if err != nil {
		return models.Result{}, err
	}
	return edited, nil
}

// Replace 전적 전체를 교체합니다
func (s *Service) Replace(ctx context.Context, guildID string, results []models.Result) error {
	return s.repo.SaveResults(ctx, guildID, models.NormalizeResults(results))
}

// All 저장된 전적을 그대로 반환합니다. 비어 있으면 ErrEmptyResult입니다
func (s *Service) All(ctx context.Context, guildID string) ([]models.Result, error) {
	results, err := s.repo.GetResults(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return models.NormalizeResults(results), nil
}

func entries(results []models.Result) []Entry {
	results = models.NormalizeResults(results)
	out := make([]Entry, len(results))
	for i, r := range results {
		out[i] = Entry{ID: i, Result: r}
	}
	return out
}

func uniqueSorted(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
