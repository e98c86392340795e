package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// JST 일본 표준시 위치
var JST = time.FixedZone("JST", constants.JSTOffset)

var (
	datePartPattern = regexp.MustCompile(`[0-9]+`)
	dateParser      = newDateParser()
)

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// GetCurrentTimeJST 현재 JST 시간을 반환합니다
func GetCurrentTimeJST() time.Time {
	return time.Now().In(JST)
}

// FormatDateTime 날짜와 시간을 포맷팅합니다
func FormatDateTime(dateTime time.Time) string {
	return dateTime.Format(constants.DateTimeFormat)
}

// ParseDateTime 저장된 "YYYY-MM-DD HH:MM:SS" 형식의 문자열을 JST 시간으로 변환합니다
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{constants.DateTimeFormat, constants.DateFormat, "2006/01/02 15:04:05", "2006/01/02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, JST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", value)
}

// ParseDate "(년) (월) 일" 형식의 숫자 입력을 JST 날짜(자정)로 변환합니다.
// 숫자가 없으면 자연어("yesterday", "last friday" 등) 해석을 시도합니다
func ParseDate(text string, now time.Time) (time.Time, error) {
	now = now.In(JST)
	parts := datePartPattern.FindAllString(text, -1)
	if len(parts) == 0 {
		return parseNaturalDate(text, now)
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}

	// 뒤에서부터 일, 월, 년 순서로 해석
	nums := make([]int, 0, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date part %q: %w", parts[i], err)
		}
		nums = append(nums, n)
	}

	year, month, day := now.Year(), int(now.Month()), now.Day()
	if len(nums) > 0 && nums[0] != 0 {
		day = nums[0]
	}
	if len(nums) > 1 && nums[1] != 0 {
		month = nums[1]
	}
	if len(nums) > 2 && nums[2] != 0 {
		year = nums[2]
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date out of range: %d-%d-%d", year, month, day)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, JST)
	if date.Day() != day {
		return time.Time{}, fmt.Errorf("date out of range: %d-%d-%d", year, month, day)
	}
	return date, nil
}

func parseNaturalDate(text string, now time.Time) (time.Time, error) {
	result, err := dateParser.Parse(strings.ToLower(text), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", text, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized date: %q", text)
	}
	t := result.Time.In(JST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, JST), nil
}
