package bot

import (
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/mogi"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

func (cc *commandContext) mogiChannel() mogi.Channel {
	return mogi.Channel{GuildID: cc.guildID(), ChannelID: cc.channelID()}
}

// teamName 스프레드시트에 등록된 팀 이름을 찾고, 없으면 서버 이름을 사용합니다
func (ch *CommandHandler) teamName(cc *commandContext) (string, error) {
	if ch.deps.Teams != nil {
		name, err := ch.deps.Teams.GetTeamName(cc.ctx, cc.guildID())
		if err != nil {
			cc.log.Warn("Failed to read team name: %v", err)
		} else if name != "" {
			return name, nil
		}
	}

	guild, err := cc.session.Guild(cc.guildID())
	if err != nil {
		return "", err
	}
	return guild.Name, nil
}

// guildLanguage 서버의 기본 언어 설정을 따릅니다
func (ch *CommandHandler) guildLanguage(cc *commandContext) constants.Lang {
	guild, err := cc.session.Guild(cc.guildID())
	if err != nil || guild.PreferredLocale == "" {
		return ch.deps.Language
	}
	return constants.ParseLang(guild.PreferredLocale, ch.deps.Language)
}

// explicitLang 인자가 언어 코드일 때만 true를 반환합니다
func explicitLang(arg string) (constants.Lang, bool) {
	en := constants.ParseLang(arg, constants.LangEN)
	ja := constants.ParseLang(arg, constants.LangJA)
	return en, arg != "" && en == ja
}

// handleStart 채널에 새 즉시 집계를 시작합니다
func (ch *CommandHandler) handleStart(cc *commandContext) error {
	plain := plainArgs(cc.args)
	if len(plain) == 0 {
		return usage(cc.localized(constants.MsgMogiUsage))
	}
	enemy := plain[0]

	var lang constants.Lang
	ok := false
	if len(plain) > 1 {
		lang, ok = explicitLang(plain[1])
	}
	if !ok {
		lang = ch.guildLanguage(cc)
	}
	cc.lang = lang

	ours, err := ch.teamName(cc)
	if err != nil {
		return err
	}
	members, err := mentionedMembers(cc)
	if err != nil {
		return err
	}

	state := mogi.New(ours, enemy, memberIDs(members), lang)
	if err := ch.deps.Mogi.Start(cc.ctx, cc.mogiChannel(), state, cc.localized(constants.MsgMogiStarted)); err != nil {
		return err
	}
	cc.log.Info("Started mogi %s vs %s with %d members", ours, enemy, len(members))
	return nil
}

// handleEdit 상대 팀 태그와 참가자를 바꿉니다
func (ch *CommandHandler) handleEdit(cc *commandContext) error {
	plain := plainArgs(cc.args)
	if len(plain) == 0 {
		return usage(constants.MsgEditUsage)
	}
	members, err := mentionedMembers(cc)
	if err != nil {
		return err
	}

	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{}, func(state *mogi.State) error {
		state.Tags[1] = plain[0]
		if len(members) > 0 {
			state.SetMembers(memberIDs(members))
		}
		return nil
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgMogiEdited)
}

func (ch *CommandHandler) handleEnd(cc *commandContext) error {
	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{}, func(state *mogi.State) error {
		state.End()
		return nil
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgMogiEnded)
}

func (ch *CommandHandler) handleResume(cc *commandContext) error {
	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{IncludeArchived: true}, func(state *mogi.State) error {
		state.Resume()
		return nil
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgMogiResumed)
}

// handleLanguage 집계 표시 언어를 바꿉니다. 보관된 집계에도 적용됩니다
func (ch *CommandHandler) handleLanguage(cc *commandContext) error {
	lang, ok := explicitLang(cc.arg(0))
	if !ok {
		return usage(constants.MsgLangUsage)
	}

	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{IncludeArchived: true}, func(state *mogi.State) error {
		state.Lang = lang
		return nil
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgLanguageChanged)
}

func (ch *CommandHandler) handleRace(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "add", "a":
		return ch.handleRaceAdd(next)
	case "back", "b":
		return ch.handleRaceBack(next)
	case "edit", "e":
		return ch.handleRaceEdit(next)
	}
	return usage(constants.MsgRaceUsage)
}

// handleRaceAdd 순위를 입력받아 레이스를 추가하고 집계 메시지를 다시 게시합니다
func (ch *CommandHandler) handleRaceAdd(cc *commandContext) error {
	if cc.arg(0) == "" {
		return usage(constants.MsgRaceUsage)
	}
	text, rest := leadingRank(cc.args)
	rank, ok := models.ParseRank(text)
	if !ok {
		return mogi.ErrInvalidRank
	}
	var track *models.Track
	if len(rest) > 0 {
		track = models.FindTrack(strings.Join(rest, " "))
	}

	_, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{Repost: true}, func(state *mogi.State) error {
		return state.AddRace(mogi.Race{Rank: rank, Track: track})
	})
	return err
}

func (ch *CommandHandler) handleRaceBack(cc *commandContext) error {
	_, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{Repost: true}, func(state *mogi.State) error {
		_, err := state.Back()
		return err
	})
	return err
}

// handleRaceEdit n번째 레이스의 순위나 코스를 고칩니다. "-"는 기존 순위를 유지합니다
func (ch *CommandHandler) handleRaceEdit(cc *commandContext) error {
	number, err := strconv.Atoi(cc.arg(0))
	if err != nil || cc.arg(1) == "" {
		return usage(constants.MsgRaceUsage)
	}

	var rank models.Rank
	rest := cc.args[2:]
	if cc.arg(1) != "-" {
		var text string
		text, rest = leadingRank(cc.args[1:])
		parsed, ok := models.ParseRank(text)
		if !ok {
			return mogi.ErrInvalidRank
		}
		rank = parsed
	}
	var track *models.Track
	if len(rest) > 0 {
		track = models.FindTrack(strings.Join(rest, " "))
	}

	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{}, func(state *mogi.State) error {
		return state.EditRace(number, rank, track)
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgRaceEdited)
}

func (ch *CommandHandler) handlePenalty(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "add", "a":
		return ch.handlePenaltyAdd(next)
	case "clear", "c":
		return ch.handlePenaltyClear(next)
	}
	return usage(constants.MsgPenaltyUsage)
}

// handlePenaltyAdd 태그 팀에 점수 보정을 더합니다. 기본은 -15점 리픽입니다
func (ch *CommandHandler) handlePenaltyAdd(cc *commandContext) error {
	tag := cc.arg(0)
	if tag == "" {
		return usage(constants.MsgPenaltyUsage)
	}

	amount := constants.DefaultPenalty
	kind := mogi.AdjustRepick
	for _, arg := range cc.args[1:] {
		if n, err := strconv.Atoi(arg); err == nil {
			amount = n
			continue
		}
		parsed, ok := mogi.ParseAdjustment(arg)
		if !ok {
			return usage(constants.MsgPenaltyUsage)
		}
		kind = parsed
	}

	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{}, func(state *mogi.State) error {
		return state.AddAdjustment(kind, tag, amount)
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgPenaltyAdded)
}

func (ch *CommandHandler) handlePenaltyClear(cc *commandContext) error {
	var kind *mogi.Adjustment
	if arg := cc.arg(0); arg != "" {
		parsed, ok := mogi.ParseAdjustment(arg)
		if !ok {
			return usage(constants.MsgPenaltyUsage)
		}
		kind = &parsed
	}

	state, err := ch.deps.Mogi.Mutate(cc.ctx, cc.mogiChannel(), mogi.MutateOptions{}, func(state *mogi.State) error {
		state.ClearAdjustment(kind)
		return nil
	})
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgPenaltyCleared)
}

func (ch *CommandHandler) handleImage(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "set", "s":
		return ch.handleImageSet(next)
	case "remove", "r", "rm":
		return ch.handleImageRemove(next)
	}
	return usage(constants.MsgImageUsage)
}

// handleImageSet 첨부한 결과 이미지 한 장을 집계 메시지에 붙입니다
func (ch *CommandHandler) handleImageSet(cc *commandContext) error {
	if len(cc.msg.Attachments) != 1 {
		return mogi.ErrInvalidFile
	}
	attachment := cc.msg.Attachments[0]

	state, err := ch.deps.Mogi.SetImage(cc.ctx, cc.mogiChannel(), attachment.URL, attachment.Filename)
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	utils.Debug("Attached %s to mogi in channel %s", attachment.Filename, cc.channelID())
	return cc.success(constants.MsgImageSet)
}

func (ch *CommandHandler) handleImageRemove(cc *commandContext) error {
	state, err := ch.deps.Mogi.RemoveImage(cc.ctx, cc.mogiChannel())
	if err != nil {
		return err
	}
	cc.lang = state.Lang
	return cc.success(constants.MsgImageRemoved)
}
