package constants

import "strings"

// Lang 메시지를 표시할 언어를 나타냅니다
type Lang int

const (
	LangEN Lang = iota
	LangJA
)

// String 언어 코드를 반환합니다
func (l Lang) String() string {
	if l == LangJA {
		return "ja"
	}
	return "en"
}

// ParseLang 언어 코드 문자열을 Lang으로 변환합니다. 알 수 없는 값이면 fallback을 반환합니다
func ParseLang(s string, fallback Lang) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "jp", "ja-jp", "japanese", "日本語":
		return LangJA
	case "en", "en-us", "en-gb", "english", "英語":
		return LangEN
	default:
		return fallback
	}
}

// MessageKey 다국어 메시지 테이블의 키입니다
type MessageKey int

const (
	MsgUnknown MessageKey = iota
	MsgExternalFailure
	MsgStorageConflict
	MsgMissingPermission

	// 즉시 집계 오류
	MsgMogiNotFound
	MsgInvalidMessage
	MsgInvalidRankInput
	MsgNotBackable
	MsgNotAddable
	MsgMogiArchived
	MsgInvalidTag
	MsgOutOfRange
	MsgInvalidFile

	// 즉시 집계 성공
	MsgMogiStarted
	MsgMogiEdited
	MsgMogiEnded
	MsgMogiResumed
	MsgRaceAdded
	MsgRaceBacked
	MsgRaceEdited
	MsgPenaltyAdded
	MsgPenaltyCleared
	MsgLanguageChanged
	MsgImageSet
	MsgImageRemoved
	MsgMogiUsage

	// 상태 표시
	MsgStatusOngoing
	MsgStatusFinished
	MsgStatusArchived

	// 모집
	MsgTimeNotSelected
	MsgHourNotAddable
	MsgNotGathering
	MsgRecruitCleared
	MsgRecruitOut
	MsgCallChannelSet
	MsgCallChannelReset

	// 전적
	MsgEmptyResult
	MsgSimilarResults
	MsgInvalidScoreInput
	MsgInvalidIDInput
	MsgIDOutOfRange
	MsgNotCSVFile
	MsgNotAcceptableContent
	MsgInvalidDate
	MsgResultRegistered
	MsgResultEdited
	MsgResultDeleted
	MsgResultExported
	MsgResultLoaded

	// 팀 / Lounge
	MsgPlayerNotFound
	MsgTeamNameSet
	MsgTeamNameReset
	MsgLinkSet
	MsgNoMembers
)

// messages 언어별 메시지 테이블입니다. 인덱스는 Lang 값과 일치합니다
var messages = map[MessageKey][2]string{
	MsgUnknown:           {"An unexpected error occurred.", "予期しないエラーが発生しました。"},
	MsgExternalFailure:   {"Could not reach an external service. Please try again later.", "外部サービスに接続できませんでした。しばらくしてから再度お試しください。"},
	MsgStorageConflict:   {"Another update was saved at the same time. Please try again.", "同時に別の更新が保存されました。もう一度お試しください。"},
	MsgMissingPermission: {"The bot does not have permission to do that.", "ボットにその操作の権限がありません。"},

	MsgMogiNotFound:     {"Mogi not Found.", "実施している即時が見つかりません。"},
	MsgInvalidMessage:   {"Invalid Message.", "メッセージが不正です。"},
	MsgInvalidRankInput: {"Invalid rank input.", "順位の入力が不正です。"},
	MsgNotBackable:      {"You cannot back race anymore.", "レースを戻すことができません。"},
	MsgNotAddable:       {"This mogi has already finished.", "既に12レース終了しています。"},
	MsgMogiArchived:     {"This mogi has already finished.", "この即時は既に終了しています。"},
	MsgInvalidTag:       {"Invalid tag name.", "タグの名前が不正です。"},
	MsgOutOfRange:       {"Invalid race number.", "存在しないレース番号です。"},
	MsgInvalidFile:      {"Only `.jpeg, .jpg, .png` are available.", "ファイル拡張子は`.jpeg, .jpg, .png`のみです。"},

	MsgMogiStarted:     {"Started Mogi.", "即時を開始します。"},
	MsgMogiEdited:      {"Edited mogi.", "即時を編集しました。"},
	MsgMogiEnded:       {"Finished mogi.", "即時を終了しました。"},
	MsgMogiResumed:     {"Resumed mogi.", "即時を再開しました。"},
	MsgRaceAdded:       {"Added race.", "レースを追加しました。"},
	MsgRaceBacked:      {"Backed to previous race", "1レース戻しました。"},
	MsgRaceEdited:      {"Edited race.", "レースを編集しました。"},
	MsgPenaltyAdded:    {"Added penalty.", "ペナルティを追加しました。"},
	MsgPenaltyCleared:  {"Cleared penalty.", "ペナルティを削除しました。"},
	MsgLanguageChanged: {"Changed to English.", "日本語へ変更しました。"},
	MsgImageSet:        {"Set image.", "画像を設定しました。"},
	MsgImageRemoved:    {"Removed image.", "画像を削除しました。"},
	MsgMogiUsage:       {"Usage: `!start <enemy> [en|ja] [@members]`", "使い方: `!start <相手チーム> [en|ja] [@メンバー]`"},

	MsgStatusOngoing:  {"Ongoing", "集計中"},
	MsgStatusFinished: {"Finished", "集計終了"},
	MsgStatusArchived: {"Archived", "アーカイブ"},

	MsgTimeNotSelected:  {"Time is not selected.", "時間が選択されていません。"},
	MsgHourNotAddable:   {"The maximum number of times that can be set is 25.", "募集できる時間は25個までです。"},
	MsgNotGathering:     {"There is no recruiting.", "募集している時間はありません。"},
	MsgRecruitCleared:   {"Cleared war list.", "募集をリセットしました。"},
	MsgRecruitOut:       {"Removed hours from war list.", "募集から時間を削除しました。"},
	MsgCallChannelSet:   {"Calls will be posted in this channel.", "このチャンネルに通知します。"},
	MsgCallChannelReset: {"Calls will be posted where commands are used.", "通知先をリセットしました。"},

	MsgEmptyResult:          {"Result not Found.", "戦績が見つかりません。"},
	MsgSimilarResults:       {"Result not found.\nSimilar name:  ", "戦績が見つかりませんでした。\n類似した名前: "},
	MsgInvalidScoreInput:    {"Invalid scores input\n `score (enemy_score; optional)`", "得点の入力が不正です。\n`自チーム (敵チーム 任意)`"},
	MsgInvalidIDInput:       {"Invalid ID input.", "IDの入力が不正です。"},
	MsgIDOutOfRange:         {"This ID does not exist.", "存在しないIDが含まれています。"},
	MsgNotCSVFile:           {"Only CSV file is available.", "CSVファイルのみが有効です。"},
	MsgNotAcceptableContent: {"Not acceptable content.", "ファイルの内容が不正です。"},
	MsgInvalidDate:          {"Invalid date input.\n `(year) (month) day`", "日付の入力が不正です。\n`(年) (月) 日`"},
	MsgResultRegistered:     {"Successfully sent result.\n", "戦績を登録しました。\n"},
	MsgResultEdited:         {"Successfully edited result.\n", "戦績を編集しました。\n"},
	MsgResultDeleted:        {"Deleted results.", "戦績を削除しました。"},
	MsgResultExported:       {"Sent result file.", "ファイルを送信しました。"},
	MsgResultLoaded:         {"Loaded result file.", "戦績ファイルを読み込みました。"},

	MsgPlayerNotFound: {"Player not found.", "プレイヤーが見つかりません。"},
	MsgTeamNameSet:    {"Set team name **%s**", "チーム名を登録しました  **%s**"},
	MsgTeamNameReset:  {"Reset team name to default %s", "%sへリセットしました。"},
	MsgLinkSet:        {"Linked lounge account.", "ラウンジアカウントを連携しました。"},
	MsgNoMembers:      {"No members found.", "メンバーが見つかりません。"},
}

// Localize 키와 언어에 해당하는 메시지를 반환합니다
func Localize(key MessageKey, lang Lang) string {
	texts, ok := messages[key]
	if !ok {
		texts = messages[MsgUnknown]
	}
	if lang == LangJA && texts[LangJA] != "" {
		return texts[LangJA]
	}
	return texts[LangEN]
}
