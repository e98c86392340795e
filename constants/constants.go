package constants

import "time"

// Lounge API 관련 상수
const (
	LoungeBaseURL         = "https://www.mk8dx-lounge.com/api"
	LoungeWebPlayerURL    = "https://www.mk8dx-lounge.com/PlayerDetails/"
	MKCRegistryPlayerURL  = "https://www.mariokartcentral.com/mkc/registry/players/"
	APITimeout            = 30 * time.Second
	DefaultLoungeRate     = 5 // 초당 요청 수
	MaxConcurrentRequests = 5
)

// Discord 관련 상수
const (
	CommandPrefix       = "!"
	CommandPrefixLength = 1 // "!" 길이
)

// 즉시 집계(Mogi) 관련 상수
const (
	MaxRaces          = 12               // 한 경기의 최대 레이스 수
	RankSize          = 6                // 우리 팀 순위 개수
	MaxPlacement      = 12               // 최하위 순위
	RacePointPool     = 82               // 레이스당 한 팀 기준 총점
	DefaultPenalty    = -15              // 기본 페널티 점수
	MogiLookback      = 1 * time.Hour    // 현재 경기를 찾는 기록 범위
	MogiHistoryLimit  = 100              // 한 번에 조회하는 메시지 수
	MogiTitleEN       = "Sokuji"         // 영어 제목 접두사
	MogiTitleJA       = "即時集計"           // 일본어 제목 접두사
	MogiFormat        = "6v6"            // 경기 형식
	MogiColor         = 0x00BFFF         // 집계 메시지 색상
	MogiPenaltyField  = "Penalty"        // 페널티 필드명
	MogiRepickField   = "Repick"         // 리픽 필드명
	MogiMembersField  = "Members"        // 참가자 필드명
	TagSeparator      = " - "            // 태그 구분자
	DefaultTotalScore = 984              // 12레이스 총점 (점수 하나만 입력한 경우)
)

// 모집(Hands-up) 관련 상수
const (
	LineupTitle      = "**6v6 War List**"
	LineupCapacity   = 6  // 한 시간대의 정원
	MaxRecruitHours  = 25 // 동시에 모집 가능한 시간대 수
	LineupHistory    = 20 // 라인업 메시지를 찾는 기록 범위
	LineupEmptyValue = "> なし"
	ArchiveBanner    = "アーカイブ"
	ColorLineup      = 0x3498DB
	ColorArchived    = 0xF1C40F
)

// 이모지 상수
const (
	EmojiSuccess = "✅"
	EmojiError   = "❌"
	EmojiInfo    = "ℹ️"
	EmojiTrophy  = "🏆"
	EmojiFlag    = "🏁"
	EmojiStats   = "📊"
	EmojiCall    = "📣"
)

// 날짜 형식
const (
	DateFormat     = "2006-01-02"
	TimeFormat     = "15:04:05"
	DateTimeFormat = "2006-01-02 15:04:05"
	JSTOffset      = 9 * 60 * 60 // 일본 표준시(JST) UTC 오프셋 (초)
)

// 로그 관련 상수
const (
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
)

// 문자열 크기 제한
const (
	TruncateIndicator  = "..."
	MaxEmbedFields     = 25
	MaxEmbedFieldValue = 1024
)

// Google Sheets 관련 상수
const (
	TeamSheetName    = "team"
	LinkSheetName    = "link_account"
	SheetKeyColumn   = "user_id"
	SheetLinkColumn  = "lounge_disco"
	SheetTeamColumn  = "name"
	SheetValueOption = "RAW"
)

// 저장소 경로 관련 상수
const (
	GuildDetailsFile  = "details.json"
	GuildResultsFile  = "results.json"
	MogiRecordDir     = "mogi"
	BlobCollection    = "blobs"
	MaxUpdateAttempts = 5
)
