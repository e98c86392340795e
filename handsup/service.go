package handsup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

// Member 挙手 대상 사용자입니다
type Member struct {
	ID   string
	Name string
}

// Target 명령이 실행된 위치입니다
type Target struct {
	GuildID   string
	ChannelID string
}

// Service 길드별 교류전 참가자 모집을 관리합니다
type Service struct {
	repo    *storage.GuildRepository
	session interfaces.ChatSession
	roles   *RoleManager

	mu    sync.RWMutex
	botID string
}

// NewService 새로운 Service를 생성합니다
func NewService(repo *storage.GuildRepository, session interfaces.ChatSession, roles *RoleManager) *Service {
	return &Service{repo: repo, session: session, roles: roles}
}

// SetBotID 라인업 메시지를 식별할 봇 ID를 등록합니다
func (s *Service) SetBotID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botID = id
}

func (s *Service) self() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.botID
}

// Participate 멤버들을 시간대에 확정 또는 임시로 등록하고 라인업을 다시 게시합니다.
// 이번 등록으로 정원이 찬 시간대가 있으면 호출 메시지를 보냅니다
func (s *Service) Participate(ctx context.Context, target Target, kind models.ParticipationKind, members []Member, hours []int) error {
	if len(hours) == 0 {
		return ErrTimeNotSelected
	}
	ids := memberIDs(members)

	var filled []int
	info, err := s.repo.UpdateGuildInfo(ctx, target.GuildID, func(info *models.GuildInfo) error {
		filled = info.Recruit.Participate(kind, hours, ids)
		if len(info.Recruit) > constants.MaxRecruitHours {
			return ErrHourNotAddable
		}
		return nil
	})
	if err != nil {
		return err
	}

	embed, err := RenderLineup(info.Recruit)
	if err != nil {
		return err
	}
	if err := s.roles.Grant(target.GuildID, hours, ids); err != nil {
		utils.Warn("Failed to grant hour roles in guild %s: %v", target.GuildID, err)
	}

	prefix := ""
	if kind == models.KindTentative {
		prefix = "仮"
	}
	content := fmt.Sprintf("%sさんが%sへ%s挙手しました。", memberNames(members), joinHours(hours, ", "), prefix)
	if err := s.replaceLineup(target.ChannelID, content, embed); err != nil {
		return err
	}

	if len(filled) > 0 {
		return s.call(info, target.ChannelID, filled)
	}
	return nil
}

// Drop 멤버들의 挙手를 취소합니다
func (s *Service) Drop(ctx context.Context, target Target, members []Member, hours []int) error {
	if len(hours) == 0 {
		return ErrTimeNotSelected
	}
	ids := memberIDs(members)

	info, err := s.repo.UpdateGuildInfo(ctx, target.GuildID, func(info *models.GuildInfo) error {
		info.Recruit.Drop(hours, ids)
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.roles.Revoke(target.GuildID, hours, ids); err != nil {
		utils.Warn("Failed to revoke hour roles in guild %s: %v", target.GuildID, err)
	}

	embed, err := RenderLineup(info.Recruit)
	if err != nil {
		return err
	}
	content := fmt.Sprintf("%sさんが%sの挙手を取り下げました。", memberNames(members), joinHours(hours, ", "))
	return s.replaceLineup(target.ChannelID, content, embed)
}

// Out 시간대 모집 자체를 삭제합니다
func (s *Service) Out(ctx context.Context, target Target, hours []int) error {
	if len(hours) == 0 {
		return ErrTimeNotSelected
	}

	if _, err := s.repo.UpdateGuildInfo(ctx, target.GuildID, func(info *models.GuildInfo) error {
		info.Recruit.Out(hours)
		return nil
	}); err != nil {
		return err
	}
	if err := s.roles.DeleteHours(target.GuildID, hours); err != nil {
		utils.Warn("Failed to delete hour roles in guild %s: %v", target.GuildID, err)
	}

	_, err := s.session.ChannelMessageSend(target.ChannelID, fmt.Sprintf("%sの募集を削除しました", joinHours(hours, ",")))
	return err
}

// Clear 모든 모집을 초기화하고 마지막 라인업을 보관 처리합니다
func (s *Service) Clear(ctx context.Context, target Target) error {
	hours, err := s.reset(ctx, target.GuildID)
	if err != nil {
		return err
	}
	utils.Debug("Cleared %d recruiting hours in guild %s", len(hours), target.GuildID)

	lineup, err := FindLineup(s.session, target.ChannelID, s.self())
	if err != nil {
		utils.Warn("Failed to look up lineup in channel %s: %v", target.ChannelID, err)
	} else if lineup != nil {
		if err := archiveLineup(s.session, lineup); err != nil {
			utils.Warn("Failed to archive lineup %s: %v", lineup.ID, err)
		}
	}

	_, err = s.session.ChannelMessageSend(target.ChannelID, "募集をリセットしました。")
	return err
}

// Now 현재 모집 현황을 다시 게시합니다
func (s *Service) Now(ctx context.Context, target Target) error {
	info, err := s.repo.GetGuildInfo(ctx, target.GuildID)
	if err != nil {
		return err
	}
	embed, err := RenderLineup(info.Recruit)
	if err != nil {
		return err
	}
	return s.replaceLineup(target.ChannelID, "", embed)
}

// SetCallChannel 호출 메시지를 보낼 채널을 설정합니다. 빈 문자열이면 명령 채널로 되돌립니다
func (s *Service) SetCallChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.repo.UpdateGuildInfo(ctx, guildID, func(info *models.GuildInfo) error {
		info.SetCallChannel(channelID)
		return nil
	})
	return err
}

// ResetAll 모든 길드의 모집을 초기화합니다. 초기화한 길드 수를 반환합니다
func (s *Service) ResetAll(ctx context.Context) (int, error) {
	guildIDs, err := s.repo.GuildIDs(ctx)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, guildID := range guildIDs {
		if err := ctx.Err(); err != nil {
			return reset, err
		}
		hours, err := s.reset(ctx, guildID)
		if err != nil {
			utils.Warn("Failed to reset recruiting in guild %s: %v", guildID, err)
			continue
		}
		if len(hours) > 0 {
			reset++
		}
	}
	return reset, nil
}

func (s *Service) reset(ctx context.Context, guildID string) ([]int, error) {
	var hours []int
	if _, err := s.repo.UpdateGuildInfo(ctx, guildID, func(info *models.GuildInfo) error {
		hours = info.Recruit.Hours()
		info.Recruit.Clear()
		return nil
	}); err != nil {
		return nil, err
	}

	if len(hours) > 0 {
		if err := s.roles.DeleteHours(guildID, hours); err != nil {
			utils.Warn("Failed to delete hour roles in guild %s: %v", guildID, err)
		}
	}
	return hours, nil
}

// replaceLineup 새 라인업을 보내고 이전 라인업을 삭제합니다
func (s *Service) replaceLineup(channelID, content string, embed *discordgo.MessageEmbed) error {
	previous, err := FindLineup(s.session, channelID, s.self())
	if err != nil {
		utils.Warn("Failed to look up lineup in channel %s: %v", channelID, err)
	}

	if _, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}); err != nil {
		return err
	}

	if previous != nil {
		if err := s.session.ChannelMessageDelete(channelID, previous.ID); err != nil {
			utils.Warn("Failed to delete previous lineup %s: %v", previous.ID, err)
		}
	}
	return nil
}

func (s *Service) call(info *models.GuildInfo, channelID string, filled []int) error {
	var ids []string
	seen := make(map[string]bool)
	for _, hour := range filled {
		for _, id := range info.Recruit.Slot(hour).Confirmed {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if callChannel := info.CallChannel(); callChannel != "" {
		channelID = callChannel
	}
	_, err := s.session.ChannelMessageSend(channelID, CallText(filled, ids))
	return err
}

func memberIDs(members []Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func memberNames(members []Member) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, ",")
}

func joinHours(hours []int, sep string) string {
	labels := make([]string, len(hours))
	for i, hour := range hours {
		labels[i] = models.HourLabel(hour)
	}
	return strings.Join(labels, sep)
}
