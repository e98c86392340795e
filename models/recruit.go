package models

import (
	"sort"
	"strconv"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

// HourSlot 한 시간대의 확정/임시 참가자 목록입니다
type HourSlot struct {
	Confirmed IDList `json:"c"`
	Tentative IDList `json:"t"`
}

// ParticipationKind 挙手 종류입니다
type ParticipationKind int

const (
	KindConfirmed ParticipationKind = iota
	KindTentative
)

// RecruitmentBoard 시간대 라벨별 모집 현황입니다
type RecruitmentBoard map[string]*HourSlot

// GuildInfo 길드별 설정 문서({guildId}/details.json)입니다
type GuildInfo struct {
	Recruit   RecruitmentBoard `json:"recruit"`
	ChannelID *Snowflake       `json:"channel_id"`
}

// NewGuildInfo 빈 기본 문서를 생성합니다
func NewGuildInfo() *GuildInfo {
	return &GuildInfo{Recruit: RecruitmentBoard{}}
}

// CallChannel 통지 채널 ID를 반환합니다. 설정되지 않았으면 빈 문자열입니다
func (g *GuildInfo) CallChannel() string {
	if g.ChannelID == nil {
		return ""
	}
	return string(*g.ChannelID)
}

// SetCallChannel 통지 채널을 설정합니다. 빈 문자열이면 초기화합니다
func (g *GuildInfo) SetCallChannel(channelID string) {
	if channelID == "" {
		g.ChannelID = nil
		return
	}
	id := Snowflake(channelID)
	g.ChannelID = &id
}

// HourLabel 시간을 보드 키로 변환합니다
func HourLabel(hour int) string {
	return strconv.Itoa(hour)
}

// Participate ids를 지정한 종류로 각 시간대에 등록하고 반대쪽 목록에서는 제거합니다.
// 확정 인원이 이번 호출로 정원에 도달한 시간대를 반환합니다
func (b RecruitmentBoard) Participate(kind ParticipationKind, hours []int, ids []string) []int {
	var filled []int
	for _, hour := range sortedUnique(hours) {
		label := HourLabel(hour)
		slot, ok := b[label]
		if !ok {
			slot = &HourSlot{Confirmed: IDList{}, Tentative: IDList{}}
			b[label] = slot
		}
		before := len(slot.Confirmed)

		if kind == KindConfirmed {
			slot.Confirmed = union(slot.Confirmed, ids)
			slot.Tentative = subtract(slot.Tentative, ids)
		} else {
			slot.Tentative = union(slot.Tentative, ids)
			slot.Confirmed = subtract(slot.Confirmed, ids)
		}

		if before < constants.LineupCapacity && len(slot.Confirmed) >= constants.LineupCapacity {
			filled = append(filled, hour)
		}
	}
	return filled
}

// Drop 존재하는 시간대에서 ids를 두 목록 모두에서 제거합니다
func (b RecruitmentBoard) Drop(hours []int, ids []string) {
	for _, hour := range hours {
		slot, ok := b[HourLabel(hour)]
		if !ok {
			continue
		}
		slot.Confirmed = subtract(slot.Confirmed, ids)
		slot.Tentative = subtract(slot.Tentative, ids)
	}
}

// Out 시간대 자체를 제거하고 실제로 제거된 시간을 반환합니다
func (b RecruitmentBoard) Out(hours []int) []int {
	var removed []int
	for _, hour := range sortedUnique(hours) {
		label := HourLabel(hour)
		if _, ok := b[label]; ok {
			delete(b, label)
			removed = append(removed, hour)
		}
	}
	return removed
}

// Clear 모든 시간대를 비웁니다
func (b RecruitmentBoard) Clear() {
	for label := range b {
		delete(b, label)
	}
}

// Hours 숫자 순으로 정렬된 시간대를 반환합니다. 숫자가 아닌 키는 무시합니다
func (b RecruitmentBoard) Hours() []int {
	hours := make([]int, 0, len(b))
	for label := range b {
		if hour, err := strconv.Atoi(label); err == nil {
			hours = append(hours, hour)
		}
	}
	sort.Ints(hours)
	return hours
}

// Slot 시간대의 현황을 반환합니다
func (b RecruitmentBoard) Slot(hour int) *HourSlot {
	return b[HourLabel(hour)]
}

func sortedUnique(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func union(list IDList, ids []string) IDList {
	for _, id := range ids {
		if !list.Contains(id) {
			list = append(list, id)
		}
	}
	return list
}

func subtract(list IDList, ids []string) IDList {
	out := make(IDList, 0, len(list))
	for _, v := range list {
		remove := false
		for _, id := range ids {
			if v == id {
				remove = true
				break
			}
		}
		if !remove {
			out = append(out, v)
		}
	}
	return out
}
