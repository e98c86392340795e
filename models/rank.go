package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

// rankPattern 숫자, 공백, ',', '-'로 이루어진 첫 구간을 찾습니다. 공백만 있는 구간은 제외합니다
var rankPattern = regexp.MustCompile(`[0-9\-][0-9\-, ]*`)

// Rank 한 레이스에서 우리 팀이 차지한 6개의 순위입니다 (오름차순, 중복 없음)
type Rank []int

// String 순위를 쉼표로 이어 붙입니다
func (r Rank) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// LooksLikeRank 일반 채팅 메시지가 순위 입력일 가능성이 있는지 빠르게 판별합니다
func LooksLikeRank(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// IsRankToken 공백으로 나뉜 한 토큰이 순위 입력의 일부인지 판별합니다
func IsRankToken(token string) bool {
	if !LooksLikeRank(token) {
		return false
	}
	for _, c := range token {
		if c != '-' && c != ',' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// rankTokens 우선순위대로 검사하는 여러 자리 토큰입니다
var rankTokens = []struct {
	prefix string
	values []int
}{
	{"10", []int{10}},
	{"110", []int{1, 10}},
	{"1112", []int{11, 12}},
	{"111", []int{1, 11}},
	{"112", []int{1, 12}},
	{"11", []int{11}},
}

// ParseRank "1112-3", "2 5 7-10" 같은 입력을 6개의 순위로 변환합니다.
// 순위를 찾지 못했거나 7개 이상이 나오면 false를 반환합니다
func ParseRank(text string) (Rank, bool) {
	match := rankPattern.FindString(text)
	if match == "" {
		return nil, false
	}

	rs := strings.NewReplacer(" ", "", ",", "").Replace(match)
	var data []int
	rangeFill := false

	for rs != "" {
		var next []int

		if strings.HasPrefix(rs, "-") {
			rangeFill = true
			rs = rs[1:]
		}

		prev := 0
		if len(data) > 0 {
			prev = data[len(data)-1]
		}

		next, rs = nextRankToken(rs, len(data) > 0)

		if rangeFill {
			// 뒤따르는 값이 없으면 12까지 채운다
			if len(next) == 0 {
				next = []int{constants.MaxPlacement}
			}
			for next[0]-prev > 1 {
				prev++
				data = append(data, prev)
			}
			rangeFill = false
		}

		data = append(data, next...)
	}

	seen := make(map[int]bool)
	ranks := make([]int, 0, constants.RankSize)
	for _, v := range data {
		if v < 1 || v > constants.MaxPlacement || seen[v] {
			continue
		}
		seen[v] = true
		ranks = append(ranks, v)
	}

	if len(ranks) > constants.RankSize {
		return nil, false
	}

	// 부족한 순위는 하위권부터 채운다
	for k := constants.MaxPlacement; k > 0 && len(ranks) < constants.RankSize; k-- {
		if !seen[k] {
			seen[k] = true
			ranks = append(ranks, k)
		}
	}

	sort.Ints(ranks)
	return Rank(ranks), true
}

func nextRankToken(rs string, hasPrior bool) ([]int, string) {
	for _, token := range rankTokens {
		if strings.HasPrefix(rs, token.prefix) {
			return token.values, rs[len(token.prefix):]
		}
	}
	if strings.HasPrefix(rs, "12") {
		if hasPrior {
			return []int{12}, rs[2:]
		}
		return []int{1, 2}, rs[2:]
	}
	if rs == "" || rs[0] == '-' {
		return nil, rs
	}
	return []int{int(rs[0] - '0')}, rs[1:]
}
