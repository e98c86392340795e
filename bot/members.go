package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

// guildMemberPageSize Discord가 한 번에 돌려주는 최대 멤버 수입니다
const guildMemberPageSize = 1000

var errNoMembers = errors.New("no members found")

func userName(user *discordgo.User) string {
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

func memberName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	return userName(member.User)
}

// guildMembers 길드의 모든 멤버를 페이지 단위로 가져옵니다
func guildMembers(session interfaces.ChatSession, guildID string) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := session.GuildMembers(guildID, after, guildMemberPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < guildMemberPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// roleMembers 주어진 역할 중 하나라도 가진 멤버를 반환합니다
func roleMembers(session interfaces.ChatSession, guildID string, roleIDs []string) ([]handsup.Member, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		wanted[id] = true
	}

	members, err := guildMembers(session, guildID)
	if err != nil {
		return nil, err
	}

	var out []handsup.Member
	for _, member := range members {
		if member.User == nil || member.User.Bot {
			continue
		}
		for _, roleID := range member.Roles {
			if wanted[roleID] {
				out = append(out, handsup.Member{ID: member.User.ID, Name: memberName(member)})
				break
			}
		}
	}
	return out, nil
}

// roleIDByName 이름이 같은 역할의 ID를 찾습니다
func roleIDByName(session interfaces.ChatSession, guildID, name string) (string, error) {
	roles, err := session.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role.Name == name {
			return role.ID, nil
		}
	}
	return "", errNoMembers
}

// mentionedMembers 메시지에서 멘션된 사용자와 멘션된 역할의 멤버를 중복 없이 모읍니다
func mentionedMembers(cc *commandContext) ([]handsup.Member, error) {
	var members []handsup.Member
	for _, user := range cc.msg.Mentions {
		if user == nil || user.Bot {
			continue
		}
		members = append(members, handsup.Member{ID: user.ID, Name: userName(user)})
	}

	fromRoles, err := roleMembers(cc.session, cc.guildID(), cc.msg.MentionRoles)
	if err != nil {
		return nil, err
	}
	return dedupeMembers(append(members, fromRoles...)), nil
}

// membersOrAuthor 멘션이 없으면 명령어를 보낸 사용자를 대상으로 합니다
func membersOrAuthor(cc *commandContext) ([]handsup.Member, error) {
	members, err := mentionedMembers(cc)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return members, nil
	}

	author := cc.msg.Author
	name := userName(author)
	if cc.msg.Member != nil && cc.msg.Member.Nick != "" {
		name = cc.msg.Member.Nick
	}
	return []handsup.Member{{ID: author.ID, Name: name}}, nil
}

func dedupeMembers(members []handsup.Member) []handsup.Member {
	seen := make(map[string]bool, len(members))
	out := make([]handsup.Member, 0, len(members))
	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

func memberIDs(members []handsup.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func isMention(token string) bool {
	if _, ok := utils.ParseUserMention(token); ok {
		return true
	}
	_, ok := utils.ParseRoleMention(token)
	return ok
}

// plainArgs 멘션을 제외한 인자들입니다
func plainArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !isMention(arg) {
			out = append(out, arg)
		}
	}
	return out
}

// hoursFromArgs 멘션을 제외한 인자에서 모든 정수를 시간대로 읽습니다
func hoursFromArgs(args []string) []int {
	return utils.GetIntegers(strings.Join(plainArgs(args), " "))
}

// leadingScores 앞쪽의 정수 인자를 최대 max개까지 점수로 읽고 나머지를 반환합니다.
// 한 경기 총점보다 큰 정수는 연도로 보고 멈춥니다
func leadingScores(args []string, max int) ([]int, []string) {
	var scores []int
	i := 0
	for ; i < len(args) && len(scores) < max; i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil || n > constants.DefaultTotalScore {
			break
		}
		scores = append(scores, n)
	}
	return scores, args[i:]
}

// leadingRank 앞쪽의 순위 토큰을 이어 붙이고 나머지 인자를 반환합니다
func leadingRank(args []string) (string, []string) {
	i := 0
	for i < len(args) && models.IsRankToken(args[i]) {
		i++
	}
	return strings.Join(args[:i], " "), args[i:]
}
