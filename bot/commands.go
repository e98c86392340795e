package bot

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/errors"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/mogi"
	"github.com/Yumax-panda/Mario-Kart/results"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

// handlerFunc 하나의 명령어를 처리합니다
type handlerFunc func(cc *commandContext) error

type CommandHandler struct {
	deps *CommandDependencies
}

func NewCommandHandler(deps *CommandDependencies) *CommandHandler {
	return &CommandHandler{deps: deps}
}

// SetSelfID 로그인한 봇 계정의 ID를 각 서비스에 알립니다
func (ch *CommandHandler) SetSelfID(id string) {
	if ch.deps.Mogi != nil {
		ch.deps.Mogi.SetSelfID(id)
	}
	if ch.deps.Handsup != nil {
		ch.deps.Handsup.SetBotID(id)
	}
}

// HandleMessage Discord 메시지를 처리합니다
func (ch *CommandHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	ch.Dispatch(context.Background(), s, m.Message)
}

// Dispatch 메시지를 명령어 또는 집계 입력으로 처리합니다
func (ch *CommandHandler) Dispatch(ctx context.Context, s interfaces.ChatSession, msg *discordgo.Message) {
	if ch.shouldIgnoreMessage(msg) {
		return
	}

	command, args, ok := parseMessage(msg.Content)
	if !ok {
		if msg.GuildID != "" && ch.deps.Mogi != nil {
			ch.handleChat(ctx, s, msg)
		}
		return
	}

	ch.routeCommand(ctx, s, msg, command, args)
}

// shouldIgnoreMessage 메시지를 무시해야 하는지 확인합니다
func (ch *CommandHandler) shouldIgnoreMessage(msg *discordgo.Message) bool {
	if msg == nil || msg.Author == nil {
		return true
	}
	// 봇 메시지는 자신을 포함해 모두 무시
	return msg.Author.Bot
}

// parseMessage 메시지를 파싱하여 명령어와 매개변수를 추출합니다
func parseMessage(content string) (command string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, constants.CommandPrefix) {
		return "", nil, false
	}

	fields := strings.Fields(content[constants.CommandPrefixLength:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// handleChat 일반 채팅을 레이스 입력으로 넘깁니다
func (ch *CommandHandler) handleChat(ctx context.Context, s interfaces.ChatSession, msg *discordgo.Message) {
	content := strings.TrimSpace(msg.Content)
	err := ch.deps.Mogi.HandleChat(ctx, mogi.Channel{GuildID: msg.GuildID, ChannelID: msg.ChannelID}, content)
	if err == nil || mogi.IsSilent(err) {
		return
	}

	cc := ch.newContext(ctx, s, msg, "chat", nil)
	ch.report(cc, err)
}

// route 명령어 이름을 대표 이름과 핸들러로 변환합니다. guildOnly 명령어는 DM에서 무시됩니다
func (ch *CommandHandler) route(command string) (name string, handler handlerFunc, guildOnly bool) {
	switch command {
	case "help", "h":
		return "help", ch.handleHelp, false
	case "ping":
		return "ping", ch.handlePing, false
	case "cache":
		return "cache", ch.handleCacheStats, false
	case "who":
		return "who", ch.handleWho, false

	// 즉시 집계
	case "start":
		return "start", ch.handleStart, true
	case "edit":
		return "edit", ch.handleEdit, true
	case "end":
		return "end", ch.handleEnd, true
	case "resume":
		return "resume", ch.handleResume, true
	case "language", "lang":
		return "language", ch.handleLanguage, true
	case "race":
		return "race", ch.handleRace, true
	case "ra":
		return "race", ch.handleRaceAdd, true
	case "rb":
		return "race", ch.handleRaceBack, true
	case "penalty", "pe":
		return "penalty", ch.handlePenalty, true
	case "image", "img":
		return "image", ch.handleImage, true

	// 모집
	case "can", "c":
		return "can", ch.handleCan, true
	case "tentatively", "t", "maybe", "rc", "sub":
		return "tentatively", ch.handleTentatively, true
	case "drop", "d", "dr":
		return "drop", ch.handleDrop, true
	case "now", "warlist", "list":
		return "now", ch.handleNow, true
	case "out":
		return "out", ch.handleOut, true
	case "clear":
		return "clear", ch.handleClear, true
	case "channel":
		return "channel", ch.handleChannel, true

	// 전적
	case "result":
		return "result", ch.handleResult, true
	case "results":
		return "result", ch.handleResultList, true

	// 팀 / Lounge
	case "team":
		return "team", ch.handleTeam, true
	case "mkmg", "m":
		return "mkmg", ch.handleMkmg, true
	case "link":
		return "link", ch.handleLink, false
	}
	return "", nil, false
}

// routeCommand 명령어를 해당 핸들러로 라우팅하고 결과를 기록합니다
func (ch *CommandHandler) routeCommand(ctx context.Context, s interfaces.ChatSession, msg *discordgo.Message, command string, args []string) {
	name, handler, guildOnly := ch.route(command)
	if handler == nil {
		return
	}
	if guildOnly && msg.GuildID == "" {
		utils.Debug("Ignoring guild command %s in DM from %s", name, msg.Author.ID)
		return
	}

	cc := ch.newContext(ctx, s, msg, name, args)
	start := time.Now()
	err := handler(cc)
	if err != nil {
		ch.report(cc, err)
	}
	cc.log.Debug("Handled %s in %s", command, utils.Elapsed(start))

	if ch.deps.Metrics != nil {
		ch.deps.Metrics.RecordCommand(name, err == nil, time.Since(start))
	}
}

func (ch *CommandHandler) handlePing(cc *commandContext) error {
	return errors.SendDiscordInfo(cc.session, cc.channelID(), constants.MsgPong)
}

func (ch *CommandHandler) handleHelp(cc *commandContext) error {
	_, err := cc.session.ChannelMessageSend(cc.channelID(), constants.HelpMessage)
	return err
}

// handleCacheStats Lounge 캐시 통계를 보여 줍니다
func (ch *CommandHandler) handleCacheStats(cc *commandContext) error {
	if ch.deps.Lounge == nil {
		return errors.SendDiscordInfo(cc.session, cc.channelID(), "Lounge client is not configured.")
	}
	if sub, _ := cc.sub(); sub == "clear" {
		ch.deps.Lounge.ClearCache()
		return errors.SendDiscordSuccess(cc.session, cc.channelID(), "Lounge cache cleared.")
	}
	stats := ch.deps.Lounge.GetCacheStats()
	return errors.SendDiscordInfo(cc.session, cc.channelID(), constants.EmojiStats+" "+stats.String())
}

// usageError 명령어 형식이 잘못되었을 때 사용법을 안내합니다
type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return "invalid usage: " + e.usage
}

func usage(text string) error {
	return &usageError{usage: text}
}

// report 오류 종류에 맞는 에러 핸들러로 사용자에게 알립니다
func (ch *CommandHandler) report(cc *commandContext, err error) {
	handlers := utils.NewErrorHandlerFactory(cc.session, cc.channelID(), cc.lang)
	cc.log.Debug("Command failed: %v", err)

	var usageErr *usageError
	if stderrors.As(err, &usageErr) {
		handlers.Validation().HandleUsage(cc.command, usageErr.usage)
		return
	}

	if key, ok := mogi.MessageKey(err); ok {
		var transition *mogi.TransitionError
		switch {
		case stderrors.As(err, &transition):
			handlers.State().HandleRejected("MOGI_"+strings.ToUpper(transition.Reason.String()), key, err)
		case stderrors.Is(err, mogi.ErrMogiNotFound):
			handlers.Data().HandleNotFound("MOGI_NOT_FOUND", key)
		default:
			handlers.Validation().HandleMessage("MOGI_INVALID_INPUT", key)
		}
		return
	}

	if key, ok := handsup.MessageKey(err); ok {
		handlers.Validation().HandleMessage("HANDSUP_INVALID_INPUT", key)
		return
	}

	if key, ok := results.MessageKey(err); ok {
		if stderrors.Is(err, results.ErrEmptyResult) {
			handlers.Data().HandleNotFound("RESULT_NOT_FOUND", key)
			return
		}
		handlers.Validation().HandleMessage("RESULT_INVALID_INPUT", key)
		return
	}

	var notFound *playerNotFoundError
	switch {
	case stderrors.As(err, &notFound):
		handlers.API().HandlePlayerNotFound(notFound.query)
		return
	case stderrors.Is(err, errNoMembers):
		handlers.Data().HandleNotFound("NO_MEMBERS", constants.MsgNoMembers)
		return
	case stderrors.Is(err, errLoungeUnavailable):
		handlers.API().HandleExternalFailure("Lounge API", err)
		return
	case stderrors.Is(err, mogi.ErrVersionConflict), stderrors.Is(err, storage.ErrConflict):
		handlers.System().HandleStorageFailed(err)
		return
	case isForbidden(err):
		handlers.System().HandleForbidden(err)
		return
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		handlers.Handle(err)
		return
	}

	handlers.System().HandleSystemError("COMMAND_FAILED", fmt.Sprintf("%s 명령어 처리에 실패했습니다", cc.command), err)
}

// isForbidden Discord가 권한 부족으로 요청을 거절했는지 확인합니다
func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	return stderrors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
