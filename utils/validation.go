package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

var (
	integerPattern  = regexp.MustCompile(`-?[0-9]+`)
	nonDigitPattern = regexp.MustCompile(`\D`)
	mentionPattern  = regexp.MustCompile(`^<@!?([0-9]+)>$`)
	rolePattern     = regexp.MustCompile(`^<@&([0-9]+)>$`)
)

// GetIntegers 문자열에 포함된 모든 정수(음수 포함)를 순서대로 반환합니다
func GetIntegers(text string) []int {
	matches := integerPattern.FindAllString(text, -1)
	numbers := make([]int, 0, len(matches))
	for _, match := range matches {
		n, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// GetFriendCode 12자리 숫자를 포함한 문자열을 xxxx-xxxx-xxxx 형식의 친구 코드로 변환합니다
func GetFriendCode(text string) (string, bool) {
	digits := nonDigitPattern.ReplaceAllString(text, "")
	if len(digits) != 12 {
		return "", false
	}
	return digits[:4] + "-" + digits[4:8] + "-" + digits[8:], true
}

// GetDiscordID 17~19자리 숫자로 이루어진 Discord ID를 추출합니다
func GetDiscordID(text string) (string, bool) {
	digits := nonDigitPattern.ReplaceAllString(text, "")
	if len(digits) >= 17 && len(digits) <= 19 {
		return digits, true
	}
	return "", false
}

// PlayerParam 사용자 입력에서 해석한 플레이어 검색 조건입니다
type PlayerParam struct {
	Name       string
	DiscordID  string
	FriendCode string
}

// MaybePlayerParam 입력이 Discord ID, 친구 코드, 이름 중 무엇인지 판별합니다
func MaybePlayerParam(text string) PlayerParam {
	if id, ok := GetDiscordID(text); ok {
		return PlayerParam{DiscordID: id}
	}
	if fc, ok := GetFriendCode(text); ok {
		return PlayerParam{FriendCode: fc}
	}
	return PlayerParam{Name: strings.TrimSpace(text)}
}

// ParseUserMention <@id> 또는 <@!id> 형식의 멘션에서 사용자 ID를 추출합니다
func ParseUserMention(token string) (string, bool) {
	m := mentionPattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseRoleMention <@&id> 형식의 멘션에서 역할 ID를 추출합니다
func ParseRoleMention(token string) (string, bool) {
	m := rolePattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Mention 사용자 ID를 Discord 멘션 문자열로 변환합니다
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// TruncateString 문자열을 지정된 길이로 자릅니다
func TruncateString(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	indicator := []rune(constants.TruncateIndicator)
	if maxLength <= len(indicator) {
		return string([]rune(s)[:maxLength])
	}
	return string([]rune(s)[:maxLength-len(indicator)]) + constants.TruncateIndicator
}

// SanitizeString 제어 문자를 제거하고 앞뒤 공백을 정리합니다
func SanitizeString(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r == '\t' || r == '\n' || r == '\r' || r >= ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeName 비교용으로 이름을 정규화합니다 (공백 제거, 소문자 통일)
func NormalizeName(name string) string {
	normalized := strings.TrimSpace(name)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "　", "")
	return strings.ToLower(normalized)
}
