package bot

import (
	"context"
	"testing"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) board(t *testing.T) models.RecruitmentBoard {
	t.Helper()
	info, err := f.repo.GetGuildInfo(context.Background(), testGuild)
	require.NoError(t, err)
	return info.Recruit
}

func TestCan_DefaultsToAuthor(t *testing.T) {
	f := newFixture(t)

	f.send("!can 21 22")

	assert.Equal(t, "aliceさんが21, 22へ挙手しました。", f.last(t))
	board := f.board(t)
	assert.Equal(t, models.IDList{testAuthor}, board.Slot(21).Confirmed)
	assert.Equal(t, models.IDList{testAuthor}, board.Slot(22).Confirmed)
}

func TestCan_MentionedUsersAndRoles(t *testing.T) {
	f := newFixture(t)
	f.session.Members[testGuild] = []*discordgo.Member{
		{User: &discordgo.User{ID: "300", Username: "carol"}, Roles: []string{"900"}},
		{User: &discordgo.User{ID: "400", Username: "dave"}, Nick: "D", Roles: []string{"900"}},
		{User: &discordgo.User{ID: "500", Username: "erin"}, Roles: []string{"901"}},
	}

	f.send("!c <@200> <@&900> 21",
		withMentions(&discordgo.User{ID: "200", Username: "bob"}),
		withRoles("900"))

	assert.Equal(t, "bob,carol,Dさんが21へ挙手しました。", f.last(t))
	assert.Equal(t, models.IDList{"200", "300", "400"}, f.board(t).Slot(21).Confirmed)
}

func TestTentativelyAndDrop(t *testing.T) {
	f := newFixture(t)

	f.send("!t 23")
	assert.Equal(t, "aliceさんが23へ仮挙手しました。", f.last(t))
	assert.Equal(t, models.IDList{testAuthor}, f.board(t).Slot(23).Tentative)

	f.send("!d 23")
	assert.Equal(t, "aliceさんが23の挙手を取り下げました。", f.last(t))
	assert.Empty(t, f.board(t).Slot(23).Tentative)
}

func TestCan_WithoutHours(t *testing.T) {
	f := newFixture(t)

	f.send("!can")
	assert.Equal(t, constants.EmojiError+" Time is not selected.", f.last(t))
}

func TestOutNowAndClear(t *testing.T) {
	f := newFixture(t)
	f.send("!can 21 22")

	f.send("!out 21")
	assert.Equal(t, "21の募集を削除しました", f.last(t))
	assert.Equal(t, []int{22}, f.board(t).Hours())

	f.send("!now")
	last := f.session.Last(testChannel)
	require.Len(t, last.Embeds, 1)
	assert.Equal(t, constants.LineupTitle, last.Embeds[0].Title)

	f.send("!clear")
	assert.Equal(t, "募集をリセットしました。", f.last(t))
	assert.Empty(t, f.board(t).Hours())
}

func TestChannelSetAndReset(t *testing.T) {
	f := newFixture(t)

	f.send("!channel set")
	assert.Equal(t, constants.EmojiSuccess+" Calls will be posted in this channel.", f.last(t))
	info, err := f.repo.GetGuildInfo(context.Background(), testGuild)
	require.NoError(t, err)
	assert.Equal(t, testChannel, info.CallChannel())

	f.send("!channel reset")
	assert.Equal(t, constants.EmojiSuccess+" Calls will be posted where commands are used.", f.last(t))
	info, err = f.repo.GetGuildInfo(context.Background(), testGuild)
	require.NoError(t, err)
	assert.Empty(t, info.CallChannel())

	f.send("!channel")
	assert.Equal(t, constants.EmojiError+" "+constants.MsgChannelUsage, f.last(t))
}
