package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/errors"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// commandContext 명령어 한 번의 실행 정보를 담습니다
type commandContext struct {
	ctx       context.Context
	session   interfaces.ChatSession
	msg       *discordgo.Message
	command   string
	args      []string
	lang      constants.Lang
	requestID string
	log       *utils.FieldLogger
}

func (ch *CommandHandler) newContext(ctx context.Context, s interfaces.ChatSession, msg *discordgo.Message, command string, args []string) *commandContext {
	requestID := uuid.NewString()
	return &commandContext{
		ctx:       ctx,
		session:   s,
		msg:       msg,
		command:   command,
		args:      args,
		lang:      ch.deps.Language,
		requestID: requestID,
		log: utils.WithFields(map[string]string{
			"request_id": requestID,
			"command":    command,
			"guild":      msg.GuildID,
			"channel":    msg.ChannelID,
		}),
	}
}

func (cc *commandContext) guildID() string   { return cc.msg.GuildID }
func (cc *commandContext) channelID() string { return cc.msg.ChannelID }
func (cc *commandContext) authorID() string  { return cc.msg.Author.ID }

// arg i번째 인자를 반환합니다. 없으면 빈 문자열입니다
func (cc *commandContext) arg(i int) string {
	if i < 0 || i >= len(cc.args) {
		return ""
	}
	return cc.args[i]
}

// rest from번째 이후의 인자를 공백으로 이어 붙입니다
func (cc *commandContext) rest(from int) string {
	if from >= len(cc.args) {
		return ""
	}
	return strings.Join(cc.args[from:], " ")
}

// sub 첫 인자를 하위 명령어로 떼어 낸 컨텍스트를 반환합니다
func (cc *commandContext) sub() (string, *commandContext) {
	if len(cc.args) == 0 {
		return "", cc
	}
	next := *cc
	next.args = cc.args[1:]
	return strings.ToLower(cc.args[0]), &next
}

func (cc *commandContext) send(content string) error {
	_, err := cc.session.ChannelMessageSend(cc.channelID(), content)
	return err
}

// localized 현재 언어로 메시지를 만듭니다. args가 있을 때만 포맷합니다
func (cc *commandContext) localized(key constants.MessageKey, args ...interface{}) string {
	text := constants.Localize(key, cc.lang)
	if len(args) > 0 {
		text = fmt.Sprintf(text, args...)
	}
	return text
}

// success 성공 메시지를 보냅니다
func (cc *commandContext) success(key constants.MessageKey, args ...interface{}) error {
	return errors.SendDiscordSuccess(cc.session, cc.channelID(), cc.localized(key, args...))
}
