package results

import (
	"fmt"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

// pageSize 한 페이지 본문의 최대 길이입니다
const pageSize = 800

// ListPages 전체 전적 목록을 메시지 페이지로 나눕니다. 마지막 줄에 승패 요약이 붙습니다
func ListPages(list []Entry) []string {
	header := fmt.Sprintf("%-4s %-11s %-16s %s", "ID", "Scores", "Enemy", "Result")
	lines := make([]string, len(list))
	for i, e := range list {
		lines[i] = fmt.Sprintf("%-4d %-11s %-16s %s", e.ID, e.FormattedScores(), e.Enemy, e.Outcome())
	}
	return paginate(lines, header, summarize(list).String(), "")
}

// SearchPages 특정 상대와의 전적을 메시지 페이지로 나눕니다
func SearchPages(enemy string, list []Entry) []string {
	header := fmt.Sprintf("%-4s %-10s %-11s %s", "ID", "Date", "Scores", "Result")
	lines := make([]string, len(list))
	for i, e := range list {
		lines[i] = fmt.Sprintf("%-4d %-10s %-11s %s", e.ID, shortDate(e.Date), e.FormattedScores(), e.Outcome())
	}
	return paginate(lines, header, summarize(list).String(), fmt.Sprintf("vs **%s**", enemy))
}

// DeletedPages 삭제된 전적을 보여 줍니다
func DeletedPages(top string, list []Entry) []string {
	header := fmt.Sprintf("%-4s %-16s %-11s %s", "ID", "Enemy", "Scores", "Date")
	lines := make([]string, len(list))
	for i, e := range list {
		lines[i] = fmt.Sprintf("%-4d %-16s %-11s %s", e.ID, e.Enemy, e.FormattedScores(), shortDate(e.Date))
	}
	return paginate(lines, header, "", top)
}

func summarize(list []Entry) models.ResultSummary {
	results := make([]models.Result, len(list))
	for i, e := range list {
		results[i] = e.Result
	}
	return models.Summarize(results)
}

func shortDate(date string) string {
	t, err := utils.ParseDateTime(date)
	if err != nil {
		return date
	}
	return t.Format("2006/01/02")
}

func paginate(lines []string, header, footer, top string) []string {
	var pages []string
	var body strings.Builder
	flush := func() {
		pages = append(pages, top+"```"+header+"\n"+body.String()+"```"+footer)
		body.Reset()
	}

	for _, line := range lines {
		if body.Len() > 0 && body.Len()+len(line)+1 > pageSize {
			flush()
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	if body.Len() > 0 || len(pages) == 0 {
		flush()
	}
	return pages
}
