package bot

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/errors"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

var (
	errLoungeUnavailable = stderrors.New("lounge api unavailable")
	errRegistryDisabled  = errors.NewValidationError("TEAM_REGISTRY_DISABLED",
		"team registry is not configured", "Team registry is not configured.")
)

// playerNotFoundError Lounge에서 플레이어를 찾지 못했습니다
type playerNotFoundError struct {
	query string
}

func (e *playerNotFoundError) Error() string {
	return fmt.Sprintf("lounge player %q not found", e.query)
}

func (ch *CommandHandler) handleTeam(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "name", "n":
		return ch.handleTeamName(next)
	case "mmr":
		return ch.handleTeamMMR(next)
	case "mkc":
		return ch.handleTeamMKC(next)
	}
	return usage(constants.MsgTeamUsage)
}

// handleTeamName 팀 이름을 보여 주거나, 등록하거나, 서버 이름으로 되돌립니다
func (ch *CommandHandler) handleTeamName(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "":
		name, err := ch.teamName(cc)
		if err != nil {
			return err
		}
		return cc.send(fmt.Sprintf("**%s**", name))
	case "set":
		name := utils.SanitizeString(next.rest(0))
		if name == "" {
			return usage(constants.MsgTeamUsage)
		}
		if ch.deps.Teams == nil {
			return errRegistryDisabled
		}
		if err := ch.deps.Teams.SetTeamName(cc.ctx, cc.guildID(), name); err != nil {
			return err
		}
		return cc.success(constants.MsgTeamNameSet, name)
	case "reset":
		if ch.deps.Teams == nil {
			return errRegistryDisabled
		}
		if err := ch.deps.Teams.ResetTeamName(cc.ctx, cc.guildID()); err != nil {
			return err
		}
		guild, err := cc.session.Guild(cc.guildID())
		if err != nil {
			return err
		}
		return cc.success(constants.MsgTeamNameReset, guild.Name)
	}
	return usage(constants.MsgTeamUsage)
}

// linkedIDs 연결된 Lounge 계정이 있으면 그 Discord ID로 바꿉니다
func (ch *CommandHandler) linkedIDs(cc *commandContext, ids []string) []string {
	if ch.deps.Teams == nil {
		return ids
	}
	linked, err := ch.deps.Teams.LinkedIDs(cc.ctx, ids)
	if err != nil {
		cc.log.Warn("Failed to read linked accounts: %v", err)
		return ids
	}
	return linked
}

// loungePlayers 멤버들의 Lounge 플레이어를 이름 기준으로 중복 없이 찾습니다
func (ch *CommandHandler) loungePlayers(cc *commandContext, members []handsup.Member) []*api.Player {
	found := ch.deps.Lounge.GetPlayers(cc.ctx, ch.linkedIDs(cc, memberIDs(members)))

	seen := make(map[string]bool, len(found))
	players := make([]*api.Player, 0, len(found))
	for _, player := range found {
		if player == nil || seen[player.Name] {
			continue
		}
		seen[player.Name] = true
		players = append(players, player)
	}
	return players
}

func (ch *CommandHandler) mentionedPlayers(cc *commandContext) ([]*api.Player, error) {
	members, err := mentionedMembers(cc)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, errNoMembers
	}
	players := ch.loungePlayers(cc, members)
	if len(players) == 0 {
		return nil, &playerNotFoundError{query: strings.Join(plainArgs(cc.args), " ")}
	}
	return players, nil
}

func mmrValue(player *api.Player) int {
	if player.MMR == nil {
		return -1
	}
	return *player.MMR
}

func playerLink(player *api.Player) string {
	return fmt.Sprintf("[%s](%s%d)", player.Name, constants.LoungeWebPlayerURL, player.ID)
}

// handleTeamMMR 멤버들의 평균 MMR과 랭크를 보여 줍니다
func (ch *CommandHandler) handleTeamMMR(cc *commandContext) error {
	players, err := ch.mentionedPlayers(cc)
	if err != nil {
		return err
	}
	rating, ok := ch.deps.Calculator.Rate(players)
	if !ok {
		return &playerNotFoundError{query: "mmr"}
	}

	sort.SliceStable(players, func(i, j int) bool { return mmrValue(players[i]) > mmrValue(players[j]) })

	var desc strings.Builder
	if len(cc.msg.MentionRoles) > 0 {
		fmt.Fprintf(&desc, "**Role** <@&%s>\n\n", cc.msg.MentionRoles[0])
	}
	for i, player := range players {
		mmr := "-"
		if player.MMR != nil {
			mmr = strconv.Itoa(*player.MMR)
		}
		fmt.Fprintf(&desc, "%3d: %s (MMR: %s)\n", i+1, playerLink(player), mmr)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Team MMR: %.1f", rating.Average),
		Color: constants.MogiColor,
	}
	if rating.Tier != nil {
		fmt.Fprintf(&desc, "\n**Rank** %s", rating.Tier.Name)
		embed.Color = rating.Tier.ColorCode
		if rating.Tier.IconURL != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: rating.Tier.IconURL}
		}
	}
	embed.Description = utils.TruncateString(desc.String(), 4096)

	_, err = cc.session.ChannelMessageSendEmbed(cc.channelID(), embed)
	return err
}

// handleTeamMKC 멤버들의 MKC 레지스트리 링크와 친구 코드를 보여 줍니다
func (ch *CommandHandler) handleTeamMKC(cc *commandContext) error {
	players, err := ch.mentionedPlayers(cc)
	if err != nil {
		return err
	}

	var desc strings.Builder
	for _, player := range players {
		name := player.Name
		if player.RegistryID != nil {
			name = fmt.Sprintf("[%s](%s%d)", player.Name, constants.MKCRegistryPlayerURL, *player.RegistryID)
		}
		fc := "-"
		if player.SwitchFC != nil && *player.SwitchFC != "" {
			fc = *player.SwitchFC
		}
		fmt.Fprintf(&desc, "%s (%s)\n", name, fc)
	}

	_, err = cc.session.ChannelMessageSendEmbed(cc.channelID(), &discordgo.MessageEmbed{
		Title:       "MKC Registry",
		Description: utils.TruncateString(desc.String(), 4096),
		Color:       constants.MogiColor,
	})
	return err
}

// handleMkmg 시간대 역할 멤버의 평균 MMR로 교류전 모집 문구를 만듭니다
func (ch *CommandHandler) handleMkmg(cc *commandContext) error {
	label := cc.arg(0)
	if label == "" {
		return usage(constants.MsgMkmgUsage)
	}
	if hour, err := strconv.Atoi(label); err == nil {
		label = models.HourLabel(hour)
	}
	host := strings.EqualFold(cc.arg(1), "h") || strings.EqualFold(cc.arg(1), "host")

	team, err := ch.teamName(cc)
	if err != nil {
		return err
	}
	roleID, err := roleIDByName(cc.session, cc.guildID(), label)
	if err != nil {
		return err
	}
	members, err := roleMembers(cc.session, cc.guildID(), []string{roleID})
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return errNoMembers
	}

	var text strings.Builder
	fmt.Fprintf(&text, constants.MkmgHeader, label, team)
	if rating, ok := ch.deps.Calculator.Rate(ch.loungePlayers(cc, members)); ok {
		fmt.Fprintf(&text, constants.MkmgAverageMMR, rating.RoundedAverage())
	}
	if host {
		text.WriteString(constants.MkmgHostable)
	} else {
		text.WriteString(constants.MkmgNotHostable)
	}
	text.WriteString(constants.MkmgFooter)
	return cc.send(text.String())
}

// handleWho 이름, 친구 코드, Discord ID, 멘션 또는 서버 멤버 이름으로 Lounge 플레이어를 찾습니다
func (ch *CommandHandler) handleWho(cc *commandContext) error {
	input := cc.rest(0)
	if input == "" {
		return usage(constants.MsgWhoUsage)
	}

	player, err := ch.findPlayer(cc, input)
	if err != nil {
		return err
	}
	if player == nil {
		return &playerNotFoundError{query: input}
	}

	text := playerLink(player)
	if player.DiscordID != "" {
		text += "   (" + utils.Mention(player.DiscordID) + ")"
	}
	return cc.send(text)
}

func (ch *CommandHandler) getPlayer(cc *commandContext, query api.PlayerQuery) (*api.Player, error) {
	player, err := ch.deps.Lounge.GetPlayer(cc.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errLoungeUnavailable, err)
	}
	return player, nil
}

func (ch *CommandHandler) playerByDiscordID(cc *commandContext, discordID string) (*api.Player, error) {
	return ch.getPlayer(cc, api.PlayerQuery{DiscordID: ch.linkedIDs(cc, []string{discordID})[0]})
}

func (ch *CommandHandler) findPlayer(cc *commandContext, input string) (*api.Player, error) {
	for _, user := range cc.msg.Mentions {
		if user != nil {
			return ch.playerByDiscordID(cc, user.ID)
		}
	}

	param := utils.MaybePlayerParam(input)
	switch {
	case param.DiscordID != "":
		return ch.playerByDiscordID(cc, param.DiscordID)
	case param.FriendCode != "":
		return ch.getPlayer(cc, api.PlayerQuery{FC: param.FriendCode})
	}

	player, err := ch.getPlayer(cc, api.PlayerQuery{Name: param.Name})
	if err != nil || player != nil || cc.guildID() == "" {
		return player, err
	}

	// Lounge 이름이 없으면 서버 멤버 이름으로 다시 찾는다
	members, err := guildMembers(cc.session, cc.guildID())
	if err != nil {
		return nil, err
	}
	wanted := utils.NormalizeName(param.Name)
	for _, member := range members {
		if member.User == nil {
			continue
		}
		if utils.NormalizeName(memberName(member)) == wanted || utils.NormalizeName(member.User.Username) == wanted {
			return ch.playerByDiscordID(cc, member.User.ID)
		}
	}
	return nil, nil
}

// handleLink 자신의 Discord 계정에 다른 Lounge 계정의 Discord ID를 연결합니다
func (ch *CommandHandler) handleLink(cc *commandContext) error {
	target, ok := utils.GetDiscordID(cc.arg(0))
	if !ok {
		return usage(constants.MsgLinkUsage)
	}
	if ch.deps.Teams == nil {
		return errRegistryDisabled
	}
	if err := ch.deps.Teams.SetLinkedID(cc.ctx, cc.authorID(), target); err != nil {
		return err
	}
	return cc.success(constants.MsgLinkSet)
}
