package models

import (
	"fmt"
	"sort"
)

// Outcome 경기 결과 구분입니다
type Outcome string

const (
	OutcomeWin  Outcome = "Win"
	OutcomeLose Outcome = "Lose"
	OutcomeDraw Outcome = "Draw"
)

// Result 한 번의 교류전 결과({guildId}/results.json의 한 항목)입니다
type Result struct {
	Score      int    `json:"score"`
	EnemyScore int    `json:"enemyScore"`
	Enemy      string `json:"enemy"`
	Date       string `json:"date"` // "YYYY-MM-DD HH:MM:SS" (JST)
}

// Point 결과 점수를 Point로 반환합니다
func (r Result) Point() Point {
	return Point{Ally: r.Score, Enemy: r.EnemyScore}
}

// Diff 점수 차이를 반환합니다
func (r Result) Diff() int {
	return r.Score - r.EnemyScore
}

// Outcome 점수 차이로 승패를 판정합니다
func (r Result) Outcome() Outcome {
	switch diff := r.Diff(); {
	case diff < 0:
		return OutcomeLose
	case diff == 0:
		return OutcomeDraw
	default:
		return OutcomeWin
	}
}

// FormattedScores "score - enemyScore" 형식으로 표시합니다
func (r Result) FormattedScores() string {
	return fmt.Sprintf("%d - %d", r.Score, r.EnemyScore)
}

// ResultSummary 승/패/무 집계입니다
type ResultSummary struct {
	Win   int
	Lose  int
	Draw  int
	Total int
}

// String 목록 하단에 표시하는 요약 문자열입니다
func (s ResultSummary) String() string {
	return fmt.Sprintf("__**Win**__:  %d  __**Lose**__:  %d  __**Draw**__:  %d  [%d]", s.Win, s.Lose, s.Draw, s.Total)
}

// Summarize 결과 목록의 승패를 집계합니다
func Summarize(results []Result) ResultSummary {
	summary := ResultSummary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome() {
		case OutcomeWin:
			summary.Win++
		case OutcomeLose:
			summary.Lose++
		default:
			summary.Draw++
		}
	}
	return summary
}

// NormalizeResults 날짜순으로 정렬하고 완전히 같은 항목을 제거합니다
func NormalizeResults(results []Result) []Result {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	seen := make(map[Result]bool, len(sorted))
	out := make([]Result, 0, len(sorted))
	for _, r := range sorted {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
