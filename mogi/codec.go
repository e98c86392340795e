package mogi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

var memberIDPattern = regexp.MustCompile(`[0-9]+`)

// tagEscaper 팀 이름 안의 구분자를 제목에서 구분할 수 있게 바꿉니다
var tagEscaper = strings.NewReplacer(`\`, `\\`, " -", ` \-`, "- ", `\- `)

func titlePrefix(lang constants.Lang) string {
	if lang == constants.LangJA {
		return constants.MogiTitleJA
	}
	return constants.MogiTitleEN
}

// Encode 상태를 표시용 embed로 변환합니다
func Encode(state *State) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s\n%s%s%s",
			titlePrefix(state.Lang), constants.MogiFormat,
			tagEscaper.Replace(state.Tags[0]), constants.TagSeparator, tagEscaper.Replace(state.Tags[1])),
		Description: fmt.Sprintf("`%s @%d`", state.Total().WithDiff(), state.Remaining()),
		Color:       constants.MogiColor,
	}

	for i, race := range state.Races {
		name := fmt.Sprintf("%d", i+1)
		if race.Track != nil {
			name += constants.TagSeparator + race.Track.Nick(state.Lang)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("`%s`|`%s`", race.Point().WithDiff(), race.Rank),
		})
	}

	if !state.Penalty.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  constants.MogiPenaltyField,
			Value: fmt.Sprintf("`%s`", state.Penalty),
		})
	}
	if !state.Repick.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  constants.MogiRepickField,
			Value: fmt.Sprintf("`%s`", state.Repick),
		})
	}

	if len(state.Members) > 0 {
		mentions := make([]string, len(state.Members))
		for i, id := range state.Members {
			mentions[i] = utils.Mention(id)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  constants.MogiMembersField,
			Value: "> " + strings.Join(mentions, ", "),
		})
	}

	if banner := state.Status.Banner(state.Lang); banner != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: banner}
	}
	return embed
}

// IsMogiTitle embed 제목이 즉시 집계 형식인지 확인합니다
func IsMogiTitle(title string) bool {
	return strings.HasPrefix(title, constants.MogiTitleEN) || strings.HasPrefix(title, constants.MogiTitleJA)
}

// Decode Encode가 만든 embed에서 상태를 복원합니다
func Decode(embed *discordgo.MessageEmbed) (*State, error) {
	if embed == nil || !IsMogiTitle(embed.Title) {
		return nil, ErrInvalidMessage
	}

	state := &State{Lang: constants.LangEN, Status: StatusOngoing}
	if strings.Contains(embed.Title, constants.MogiTitleJA) {
		state.Lang = constants.LangJA
	}

	lines := strings.SplitN(embed.Title, "\n", 2)
	state.Tags = splitTags(lines[len(lines)-1])

	if embed.Author != nil {
		state.Status = statusFromBanner(embed.Author.Name)
	}

	for _, field := range embed.Fields {
		switch {
		case strings.Contains(field.Name, constants.MogiPenaltyField):
			state.Penalty = state.Penalty.Add(pointFromText(field.Value))
		case strings.Contains(field.Name, constants.MogiRepickField):
			state.Repick = state.Repick.Add(pointFromText(field.Value))
		case strings.Contains(field.Name, constants.MogiMembersField):
			state.Members = dedupe(memberIDPattern.FindAllString(field.Value, -1))
		default:
			race, err := decodeRace(field)
			if err != nil {
				return nil, err
			}
			state.Races = append(state.Races, race)
		}
	}

	if state.Status == StatusFinished && len(state.Races) != constants.MaxRaces {
		state.Status = StatusOngoing
	}
	return state, nil
}

// splitTags 이스케이프되지 않은 구분자로 제목 줄을 나눕니다. 구분자가 여럿이면 처음과 마지막 조각을 씁니다
func splitTags(line string) [2]string {
	var parts []string
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line):
			i++
			b.WriteByte(line[i])
		case strings.HasPrefix(line[i:], constants.TagSeparator):
			parts = append(parts, b.String())
			b.Reset()
			i += len(constants.TagSeparator) - 1
		default:
			b.WriteByte(line[i])
		}
	}
	parts = append(parts, b.String())
	return [2]string{parts[0], parts[len(parts)-1]}
}

func pointFromText(text string) models.Point {
	nums := utils.GetIntegers(text)
	if len(nums) < 2 {
		return models.Point{}
	}
	return models.Point{Ally: nums[0], Enemy: nums[1]}
}

func decodeRace(field *discordgo.MessageEmbedField) (Race, error) {
	nums := utils.GetIntegers(field.Value)
	if len(nums) < constants.RankSize {
		return Race{}, fmt.Errorf("%w: race field %q has no rank", ErrInvalidMessage, field.Name)
	}

	rank := models.Rank(nums[len(nums)-constants.RankSize:])
	if !validRank(rank) {
		return Race{}, fmt.Errorf("%w: race field %q has invalid rank %v", ErrInvalidMessage, field.Name, rank)
	}

	race := Race{Rank: rank}
	if idx := strings.Index(field.Name, "-"); idx >= 0 {
		race.Track = models.FindTrack(strings.TrimSpace(field.Name[idx+1:]))
	}
	return race, nil
}

func validRank(rank models.Rank) bool {
	for i, v := range rank {
		if v < 1 || v > constants.MaxPlacement {
			return false
		}
		if i > 0 && rank[i-1] >= v {
			return false
		}
	}
	return true
}

// Verify 메시지가 봇이 작성한 즉시 집계 메시지인지 확인합니다.
// includeArchived가 false이면 보관 배너가 붙은 메시지는 거부합니다
func Verify(msg *discordgo.Message, botIDs []string, includeArchived bool) bool {
	if msg == nil || msg.Author == nil || len(msg.Embeds) == 0 {
		return false
	}
	embed := msg.Embeds[0]
	if !IsMogiTitle(embed.Title) || !containsID(botIDs, msg.Author.ID) {
		return false
	}
	if !includeArchived && embed.Author != nil && statusFromBanner(embed.Author.Name) == StatusArchive {
		return false
	}
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
