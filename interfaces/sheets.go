package interfaces

import "context"

// TeamRegistry 스프레드시트에 저장된 팀 이름과 Lounge 계정 연결을 다룹니다
type TeamRegistry interface {
	GetTeamName(ctx context.Context, guildID string) (string, error)
	SetTeamName(ctx context.Context, guildID, name string) error
	ResetTeamName(ctx context.Context, guildID string) error

	// LinkedIDs 각 Discord ID에 연결된 Lounge용 Discord ID를 반환합니다. 연결이 없으면 원래 ID입니다
	LinkedIDs(ctx context.Context, discordIDs []string) ([]string, error)
	SetLinkedID(ctx context.Context, discordID, loungeDiscordID string) error
}
