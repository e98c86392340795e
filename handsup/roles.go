package handsup

import (
	"sync"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"
)

// RoleManager 시간대 이름의 길드 역할을 만들고 부여합니다
type RoleManager struct {
	session interfaces.ChatSession
	workers int
}

// NewRoleManager 새로운 RoleManager를 생성합니다
func NewRoleManager(session interfaces.ChatSession, workers int) *RoleManager {
	if workers <= 0 {
		workers = constants.RoleWorkerCount
	}
	return &RoleManager{session: session, workers: workers}
}

// hourRoles 시간대별 역할을 찾습니다. create가 true이면 없는 역할을 멘션 가능하게 만듭니다
func (m *RoleManager) hourRoles(guildID string, hours []int, create bool) ([]*discordgo.Role, error) {
	existing, err := m.session.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*discordgo.Role, len(existing))
	for _, role := range existing {
		byName[role.Name] = role
	}

	var roles []*discordgo.Role
	for _, hour := range hours {
		name := models.HourLabel(hour)
		role, ok := byName[name]
		if !ok {
			if !create {
				continue
			}
			mentionable := true
			role, err = m.session.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name, Mentionable: &mentionable})
			if err != nil {
				return nil, err
			}
			byName[name] = role
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Grant 사용자들에게 시간대 역할을 부여합니다. 개별 실패는 기록만 하고 넘어갑니다
func (m *RoleManager) Grant(guildID string, hours []int, userIDs []string) error {
	roles, err := m.hourRoles(guildID, hours, true)
	if err != nil {
		return err
	}
	m.fanOut(userIDs, roles, func(userID, roleID string) error {
		return m.session.GuildMemberRoleAdd(guildID, userID, roleID)
	})
	return nil
}

// Revoke 사용자들의 시간대 역할을 회수합니다
func (m *RoleManager) Revoke(guildID string, hours []int, userIDs []string) error {
	roles, err := m.hourRoles(guildID, hours, false)
	if err != nil {
		return err
	}
	m.fanOut(userIDs, roles, func(userID, roleID string) error {
		return m.session.GuildMemberRoleRemove(guildID, userID, roleID)
	})
	return nil
}

// DeleteHours 시간대 역할 자체를 삭제합니다
func (m *RoleManager) DeleteHours(guildID string, hours []int) error {
	roles, err := m.hourRoles(guildID, hours, false)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if err := m.session.GuildRoleDelete(guildID, role.ID); err != nil {
			utils.Warn("Failed to delete role %s in guild %s: %v", role.Name, guildID, err)
		}
	}
	return nil
}

func (m *RoleManager) fanOut(userIDs []string, roles []*discordgo.Role, apply func(userID, roleID string) error) {
	if len(userIDs) == 0 || len(roles) == 0 {
		return
	}

	pool := workerpool.New(m.workers)
	var mu sync.Mutex
	failed := 0
	for _, userID := range userIDs {
		for _, role := range roles {
			userID, role := userID, role
			pool.Submit(func() {
				if err := apply(userID, role.ID); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					utils.Warn("Failed to update role %s for %s: %v", role.Name, userID, err)
				}
			})
		}
	}
	pool.StopWait()

	if failed > 0 {
		utils.Info("Role update finished with %d failures", failed)
	}
}
