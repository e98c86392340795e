package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecruitmentBoard_ConfirmMovesFromTentative(t *testing.T) {
	board := RecruitmentBoard{}
	board.Participate(KindTentative, []int{21}, []string{"a", "b"})
	board.Participate(KindConfirmed, []int{21}, []string{"a"})

	slot := board.Slot(21)
	require.NotNil(t, slot)
	assert.Equal(t, IDList{"a"}, slot.Confirmed)
	assert.Equal(t, IDList{"b"}, slot.Tentative)

	board.Participate(KindTentative, []int{21}, []string{"a"})
	assert.Equal(t, IDList{}, slot.Confirmed)
	assert.Equal(t, IDList{"b", "a"}, slot.Tentative)
}

func TestRecruitmentBoard_FilledOnlyOnCrossing(t *testing.T) {
	board := RecruitmentBoard{}
	filled := board.Participate(KindConfirmed, []int{22}, []string{"1", "2", "3", "4", "5"})
	assert.Empty(t, filled)

	filled = board.Participate(KindConfirmed, []int{22, 23}, []string{"6"})
	assert.Equal(t, []int{22}, filled)

	filled = board.Participate(KindConfirmed, []int{22}, []string{"7"})
	assert.Empty(t, filled, "already full hour must not notify again")

	// 정원 미만으로 내려갔다가 다시 채워지면 다시 알린다
	board.Drop([]int{22}, []string{"6", "7"})
	filled = board.Participate(KindConfirmed, []int{22}, []string{"8"})
	assert.Equal(t, []int{22}, filled)
}

func TestRecruitmentBoard_ConfirmIgnoresDuplicates(t *testing.T) {
	board := RecruitmentBoard{}
	board.Participate(KindConfirmed, []int{21, 21}, []string{"a", "a"})
	assert.Equal(t, IDList{"a"}, board.Slot(21).Confirmed)
	assert.Equal(t, []int{21}, board.Hours())
}

func TestRecruitmentBoard_DropUsesEachListsMembership(t *testing.T) {
	board := RecruitmentBoard{}
	board.Participate(KindConfirmed, []int{21}, []string{"a", "b"})
	board.Participate(KindTentative, []int{21}, []string{"c", "d"})

	board.Drop([]int{21, 22}, []string{"b", "c"})

	slot := board.Slot(21)
	assert.Equal(t, IDList{"a"}, slot.Confirmed)
	assert.Equal(t, IDList{"d"}, slot.Tentative)
	assert.Nil(t, board.Slot(22), "drop must not create hours")
}

func TestRecruitmentBoard_OutAndClear(t *testing.T) {
	board := RecruitmentBoard{}
	board.Participate(KindConfirmed, []int{23, 21, 22}, []string{"a"})
	assert.Equal(t, []int{21, 22, 23}, board.Hours())

	removed := board.Out([]int{22, 25})
	assert.Equal(t, []int{22}, removed)
	assert.Equal(t, []int{21, 23}, board.Hours())

	board.Clear()
	assert.Empty(t, board)
}

func TestRecruitmentBoard_HoursSortNumerically(t *testing.T) {
	board := RecruitmentBoard{}
	board.Participate(KindConfirmed, []int{9, 10, 24, 1}, []string{"a"})
	assert.Equal(t, []int{1, 9, 10, 24}, board.Hours())
}

func TestGuildInfo_DecodesLegacyNumericIDs(t *testing.T) {
	raw := `{"recruit":{"21":{"c":[123456789012345678,"234"],"t":[]}},"channel_id":987654321098765432}`

	var info GuildInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, IDList{"123456789012345678", "234"}, info.Recruit.Slot(21).Confirmed)
	assert.Equal(t, "987654321098765432", info.CallChannel())
}

func TestGuildInfo_CallChannel(t *testing.T) {
	info := NewGuildInfo()
	assert.Equal(t, "", info.CallChannel())

	info.SetCallChannel("42")
	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recruit":{},"channel_id":"42"}`, string(data))

	info.SetCallChannel("")
	data, err = json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recruit":{},"channel_id":null}`, string(data))
}
