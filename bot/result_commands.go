package bot

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/results"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

func (ch *CommandHandler) handleResult(cc *commandContext) error {
	sub, next := cc.sub()
	switch sub {
	case "list", "l":
		return ch.handleResultList(next)
	case "search", "s":
		return ch.handleResultSearch(next)
	case "register", "r":
		return ch.handleResultRegister(next)
	case "mogi":
		return ch.handleResultMogi(next)
	case "delete", "del":
		return ch.handleResultDelete(next)
	case "edit", "e":
		return ch.handleResultEdit(next)
	case "export":
		return ch.handleResultExport(next)
	case "load":
		return ch.handleResultLoad(next)
	case "graph", "g":
		return ch.handleResultGraph(next)
	}
	return usage(constants.MsgResultUsage)
}

func (cc *commandContext) sendPages(pages []string) error {
	for _, page := range pages {
		if err := cc.send(page); err != nil {
			return err
		}
	}
	return nil
}

// resultLine 등록/수정된 전적 한 줄입니다. 날짜는 Discord 타임스탬프로 표시합니다
func resultLine(result models.Result) string {
	date := result.Date
	if t, err := utils.ParseDateTime(result.Date); err == nil {
		date = fmt.Sprintf("<t:%d:F>", t.Unix())
	}
	return fmt.Sprintf("%s  vs. **%s** %s", result.Point().String(), result.Enemy, date)
}

func (ch *CommandHandler) handleResultList(cc *commandContext) error {
	list, err := ch.deps.Results.List(cc.ctx, cc.guildID())
	if err != nil {
		return err
	}
	return cc.sendPages(results.ListPages(list))
}

// handleResultSearch 상대 팀 이름으로 전적을 찾습니다. 없으면 비슷한 이름을 제안합니다
func (ch *CommandHandler) handleResultSearch(cc *commandContext) error {
	enemy := cc.rest(0)
	if enemy == "" {
		return usage(constants.MsgResultUsage)
	}

	matches, similar, err := ch.deps.Results.Search(cc.ctx, cc.guildID(), enemy)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return cc.send(cc.localized(constants.MsgSimilarResults) + strings.Join(similar, ", "))
	}
	return cc.sendPages(results.SearchPages(enemy, matches))
}

// handleResultRegister "<상대> <점수> [상대 점수] [날짜]"를 등록합니다
func (ch *CommandHandler) handleResultRegister(cc *commandContext) error {
	enemy := cc.arg(0)
	if enemy == "" {
		return usage(constants.MsgResultUsage)
	}
	scores, rest := leadingScores(cc.args[1:], 2)
	if len(scores) == 0 {
		return results.ErrInvalidScoreInput
	}

	result, err := ch.deps.Results.Register(cc.ctx, cc.guildID(), enemy, scores, strings.Join(rest, " "))
	if err != nil {
		return err
	}
	return cc.send(cc.localized(constants.MsgResultRegistered) + resultLine(result))
}

// handleResultMogi 채널의 현재 집계(보관 포함) 합계를 전적으로 등록합니다
func (ch *CommandHandler) handleResultMogi(cc *commandContext) error {
	state, err := ch.deps.Mogi.Current(cc.ctx, cc.mogiChannel(), true)
	if err != nil {
		return err
	}
	total := state.Total()

	result, err := ch.deps.Results.Register(cc.ctx, cc.guildID(), state.Tags[1], []int{total.Ally, total.Enemy}, "")
	if err != nil {
		return err
	}
	return cc.send(cc.localized(constants.MsgResultRegistered) + resultLine(result))
}

func (ch *CommandHandler) handleResultDelete(cc *commandContext) error {
	ids := utils.GetIntegers(cc.rest(0))
	deleted, err := ch.deps.Results.Delete(cc.ctx, cc.guildID(), ids)
	if err != nil {
		return err
	}
	return cc.sendPages(results.DeletedPages(cc.localized(constants.MsgResultDeleted)+"\n", deleted))
}

// handleResultEdit "<id> <상대|-> [점수] [상대 점수] [날짜]"로 전적을 고칩니다
func (ch *CommandHandler) handleResultEdit(cc *commandContext) error {
	id, err := strconv.Atoi(cc.arg(0))
	if err != nil {
		return results.ErrInvalidIDInput
	}
	if cc.arg(1) == "" {
		return usage(constants.MsgResultUsage)
	}

	edit := results.Edit{}
	if enemy := cc.arg(1); enemy != "-" {
		edit.Enemy = enemy
	}
	scores, rest := leadingScores(cc.args[2:], 2)
	edit.Scores = scores
	edit.Date = strings.Join(rest, " ")

	result, err := ch.deps.Results.Edit(cc.ctx, cc.guildID(), id, edit)
	if err != nil {
		return err
	}
	return cc.send(cc.localized(constants.MsgResultEdited) + resultLine(result))
}

func (cc *commandContext) sendFile(content, name, contentType string, data []byte) error {
	_, err := cc.session.ChannelMessageSendComplex(cc.channelID(), &discordgo.MessageSend{
		Content: content,
		Files:   []*discordgo.File{{Name: name, ContentType: contentType, Reader: bytes.NewReader(data)}},
	})
	return err
}

// handleResultExport 전적을 CSV(기본) 또는 XLSX 파일로 보냅니다
func (ch *CommandHandler) handleResultExport(cc *commandContext) error {
	all, err := ch.deps.Results.All(cc.ctx, cc.guildID())
	if err != nil {
		return err
	}
	team, err := ch.teamName(cc)
	if err != nil {
		return err
	}

	switch strings.ToLower(cc.arg(0)) {
	case "", "csv":
		data, err := results.ExportCSV(all, team)
		if err != nil {
			return err
		}
		return cc.sendFile(cc.localized(constants.MsgResultExported), results.CSVFileName, contentTypeCSV, data)
	case "xlsx", "excel":
		data, err := results.ExportXLSX(all, team)
		if err != nil {
			return err
		}
		return cc.sendFile(cc.localized(constants.MsgResultExported), results.XLSXFileName, contentTypeXLSX, data)
	}
	return usage(constants.MsgResultUsage)
}

// handleResultLoad 첨부한 CSV 파일로 전적 전체를 교체합니다
func (ch *CommandHandler) handleResultLoad(cc *commandContext) error {
	if len(cc.msg.Attachments) != 1 {
		return results.ErrNotCSVFile
	}
	attachment := cc.msg.Attachments[0]
	if err := results.ValidateCSVName(attachment.Filename); err != nil {
		return err
	}

	data, err := ch.deps.Files.Fetch(cc.ctx, attachment.URL)
	if err != nil {
		return err
	}
	loaded, err := results.ParseCSV(data)
	if err != nil {
		return err
	}
	if err := ch.deps.Results.Replace(cc.ctx, cc.guildID(), loaded); err != nil {
		return err
	}
	cc.log.Info("Loaded %d results from %s", len(loaded), attachment.Filename)
	return cc.success(constants.MsgResultLoaded)
}

func (ch *CommandHandler) handleResultGraph(cc *commandContext) error {
	all, err := ch.deps.Results.All(cc.ctx, cc.guildID())
	if err != nil {
		return err
	}
	chart, err := results.RenderChart(all)
	if err != nil {
		return err
	}
	return cc.sendFile("", results.ChartFileName, contentTypePNG, chart)
}
