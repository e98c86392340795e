package models

import "fmt"

// Point 우리 팀과 상대 팀의 점수 쌍입니다
type Point struct {
	Ally  int `json:"ally"`
	Enemy int `json:"enemy"`
}

// Add 두 점수를 더합니다
func (p Point) Add(other Point) Point {
	return Point{Ally: p.Ally + other.Ally, Enemy: p.Enemy + other.Enemy}
}

// Diff 점수 차이(우리 팀 - 상대 팀)를 반환합니다
func (p Point) Diff() int {
	return p.Ally - p.Enemy
}

// IsZero 두 점수가 모두 0인지 확인합니다
func (p Point) IsZero() bool {
	return p.Ally == 0 && p.Enemy == 0
}

// String "ally : enemy" 형식으로 표시합니다
func (p Point) String() string {
	return fmt.Sprintf("%d : %d", p.Ally, p.Enemy)
}

// WithDiff "ally : enemy(+diff)" 형식으로 표시합니다
func (p Point) WithDiff() string {
	sign := ""
	if p.Diff() >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%d : %d(%s%d)", p.Ally, p.Enemy, sign, p.Diff())
}
