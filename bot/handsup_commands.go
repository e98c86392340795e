package bot

import (
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/models"
)

func (cc *commandContext) target() handsup.Target {
	return handsup.Target{GuildID: cc.guildID(), ChannelID: cc.channelID()}
}

func (ch *CommandHandler) handleCan(cc *commandContext) error {
	return ch.participate(cc, models.KindConfirmed)
}

func (ch *CommandHandler) handleTentatively(cc *commandContext) error {
	return ch.participate(cc, models.KindTentative)
}

// participate 멘션된 멤버(없으면 본인)를 시간대에 挙手시킵니다
func (ch *CommandHandler) participate(cc *commandContext, kind models.ParticipationKind) error {
	members, err := membersOrAuthor(cc)
	if err != nil {
		return err
	}
	return ch.deps.Handsup.Participate(cc.ctx, cc.target(), kind, members, hoursFromArgs(cc.args))
}

func (ch *CommandHandler) handleDrop(cc *commandContext) error {
	members, err := membersOrAuthor(cc)
	if err != nil {
		return err
	}
	return ch.deps.Handsup.Drop(cc.ctx, cc.target(), members, hoursFromArgs(cc.args))
}

func (ch *CommandHandler) handleNow(cc *commandContext) error {
	return ch.deps.Handsup.Now(cc.ctx, cc.target())
}

func (ch *CommandHandler) handleOut(cc *commandContext) error {
	return ch.deps.Handsup.Out(cc.ctx, cc.target(), hoursFromArgs(cc.args))
}

func (ch *CommandHandler) handleClear(cc *commandContext) error {
	return ch.deps.Handsup.Clear(cc.ctx, cc.target())
}

// handleChannel 정원이 찼을 때 호출 메시지를 보낼 채널을 정합니다
func (ch *CommandHandler) handleChannel(cc *commandContext) error {
	sub, _ := cc.sub()
	switch sub {
	case "set":
		if err := ch.deps.Handsup.SetCallChannel(cc.ctx, cc.guildID(), cc.channelID()); err != nil {
			return err
		}
		return cc.success(constants.MsgCallChannelSet)
	case "reset":
		if err := ch.deps.Handsup.SetCallChannel(cc.ctx, cc.guildID(), ""); err != nil {
			return err
		}
		return cc.success(constants.MsgCallChannelReset)
	}
	return usage(constants.MsgChannelUsage)
}
