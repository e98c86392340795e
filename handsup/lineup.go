package handsup

import (
	"fmt"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

const lineupMarker = "6v6 War List"

// RenderLineup 모집 현황을 embed로 만듭니다
func RenderLineup(board models.RecruitmentBoard) (*discordgo.MessageEmbed, error) {
	if len(board) == 0 {
		return nil, ErrNotGathering
	}
	if len(board) > constants.MaxRecruitHours {
		return nil, ErrHourNotAddable
	}

	embed := &discordgo.MessageEmbed{Title: constants.LineupTitle, Color: constants.ColorLineup}
	for _, hour := range board.Hours() {
		slot := board.Slot(hour)
		if len(slot.Confirmed)+len(slot.Tentative) == 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("%d@%d", hour, constants.LineupCapacity),
				Value: constants.LineupEmptyValue,
			})
			continue
		}

		name := fmt.Sprintf("%d@%d", hour, constants.LineupCapacity-len(slot.Confirmed))
		value := "> " + joinMentions(slot.Confirmed, ",")
		if len(slot.Tentative) > 0 {
			name += fmt.Sprintf("(%d)", len(slot.Tentative))
			value += "(" + joinMentions(slot.Tentative, ",") + ")"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}
	return embed, nil
}

func joinMentions(ids []string, sep string) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = utils.Mention(id)
	}
	return strings.Join(mentions, sep)
}

// IsLineup 봇이 작성한, 보관되지 않은 라인업 메시지인지 확인합니다
func IsLineup(msg *discordgo.Message, botID string) bool {
	if msg == nil || msg.Author == nil || msg.Author.ID != botID || len(msg.Embeds) == 0 {
		return false
	}
	embed := msg.Embeds[0]
	if !strings.Contains(embed.Title, lineupMarker) {
		return false
	}
	return embed.Author == nil || embed.Author.Name != constants.ArchiveBanner
}

// FindLineup 최근 메시지에서 마지막 라인업 메시지를 찾습니다
func FindLineup(session interfaces.ChatSession, channelID, botID string) (*discordgo.Message, error) {
	msgs, err := session.ChannelMessages(channelID, constants.LineupHistory, "", "", "")
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		if IsLineup(msg, botID) {
			return msg, nil
		}
	}
	return nil, nil
}

// archiveLineup 라인업 메시지에 보관 배너를 붙입니다
func archiveLineup(session interfaces.ChatSession, msg *discordgo.Message) error {
	embed := *msg.Embeds[0]
	embed.Author = &discordgo.MessageEmbedAuthor{Name: constants.ArchiveBanner}
	embed.Color = constants.ColorArchived
	_, err := session.ChannelMessageEditComplex(discordgo.NewMessageEdit(msg.ChannelID, msg.ID).SetEmbed(&embed))
	return err
}

// CallText 정원이 찬 시간대의 호출 메시지입니다
func CallText(hours []int, ids []string) string {
	labels := make([]string, len(hours))
	for i, hour := range hours {
		labels[i] = models.HourLabel(hour)
	}
	return fmt.Sprintf("**%s**%s", strings.Join(labels, ", "), joinMentions(ids, ", "))
}
