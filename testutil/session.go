// Package testutil 여러 패키지 테스트에서 공유하는 Discord 세션 대역입니다
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// SentFile 업로드된 파일 내용입니다
type SentFile struct {
	Name string
	Data []byte
}

// FakeSession 메모리에서 채널 메시지와 길드 역할을 흉내 내는 interfaces.ChatSession 구현입니다
type FakeSession struct {
	mu sync.Mutex

	BotID   string
	Now     func() time.Time
	nextID  int
	clock   time.Time
	ordered map[string][]*discordgo.Message // 채널별 오래된 순

	Guilds      map[string]*discordgo.Guild
	Members     map[string][]*discordgo.Member
	Roles       map[string][]*discordgo.Role
	MemberRoles map[string]bool // "guild/user/role" -> 부여 여부
	Files       []SentFile
	Deleted     []string

	// BeforeWrite 메시지를 보내거나 고치기 직전에 호출됩니다. 잠금 밖에서 실행됩니다
	BeforeWrite func(channelID string)

	// 오류 주입
	SendErr    error
	EditErr    error
	RoleAddErr map[string]error // userID -> 오류
}

// NewFakeSession 새로운 FakeSession을 생성합니다
func NewFakeSession(botID string) *FakeSession {
	return &FakeSession{
		BotID:       botID,
		clock:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		ordered:     make(map[string][]*discordgo.Message),
		Guilds:      make(map[string]*discordgo.Guild),
		Members:     make(map[string][]*discordgo.Member),
		Roles:       make(map[string][]*discordgo.Role),
		MemberRoles: make(map[string]bool),
		RoleAddErr:  make(map[string]error),
	}
}

func (f *FakeSession) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// Clock 마지막으로 찍힌 메시지 시각을 반환합니다
func (f *FakeSession) Clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clock
}

func (f *FakeSession) newID() string {
	f.nextID++
	return strconv.Itoa(1000 + f.nextID)
}

// Post 다른 사용자의 메시지를 채널에 추가합니다
func (f *FakeSession) Post(channelID, authorID, content string, embeds ...*discordgo.MessageEmbed) *discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLocked(channelID, authorID, content, embeds)
}

func (f *FakeSession) appendLocked(channelID, authorID, content string, embeds []*discordgo.MessageEmbed) *discordgo.Message {
	msg := &discordgo.Message{
		ID:        f.newID(),
		ChannelID: channelID,
		Content:   content,
		Embeds:    embeds,
		Author:    &discordgo.User{ID: authorID, Bot: authorID == f.BotID},
		Timestamp: f.now(),
	}
	f.ordered[channelID] = append(f.ordered[channelID], msg)
	return msg
}

// Messages 채널의 메시지를 오래된 순으로 반환합니다
func (f *FakeSession) Messages(channelID string) []*discordgo.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Message(nil), f.ordered[channelID]...)
}

// Last 채널의 가장 최근 메시지를 반환합니다
func (f *FakeSession) Last(channelID string) *discordgo.Message {
	msgs := f.Messages(channelID)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// Texts 채널 메시지 본문만 모아 반환합니다
func (f *FakeSession) Texts(channelID string) []string {
	var out []string
	for _, msg := range f.Messages(channelID) {
		if msg.Content != "" {
			out = append(out, msg.Content)
		}
	}
	return out
}

func (f *FakeSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (f *FakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (f *FakeSession) beforeWrite(channelID string) {
	if hook := f.BeforeWrite; hook != nil {
		hook(channelID)
	}
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.beforeWrite(channelID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}

	msg := f.appendLocked(channelID, f.BotID, data.Content, data.Embeds)
	f.attachLocked(msg, data.Files)
	return msg, nil
}

func (f *FakeSession) attachLocked(msg *discordgo.Message, files []*discordgo.File) {
	for _, file := range files {
		data, _ := io.ReadAll(file.Reader)
		f.Files = append(f.Files, SentFile{Name: file.Name, Data: data})
		msg.Attachments = append(msg.Attachments, &discordgo.MessageAttachment{
			ID:       f.newID(),
			Filename: file.Name,
			URL:      fmt.Sprintf("https://cdn.example.com/%s/%s", msg.ID, file.Name),
		})
	}
}

func (f *FakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.beforeWrite(m.Channel)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EditErr != nil {
		return nil, f.EditErr
	}

	msg := f.findLocked(m.Channel, m.ID)
	if msg == nil {
		return nil, NotFoundError()
	}
	if m.Content != nil {
		msg.Content = *m.Content
	}
	if m.Embeds != nil {
		msg.Embeds = *m.Embeds
	}
	if m.Attachments != nil {
		msg.Attachments = nil
	}
	f.attachLocked(msg, m.Files)
	return msg, nil
}

func (f *FakeSession) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	msgs := f.ordered[channelID]
	for i, msg := range msgs {
		if msg.ID == messageID {
			f.ordered[channelID] = append(msgs[:i:i], msgs[i+1:]...)
			f.Deleted = append(f.Deleted, messageID)
			return nil
		}
	}
	return NotFoundError()
}

// ChannelMessages Discord와 같이 최신순으로 반환합니다
func (f *FakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.Message
	msgs := f.ordered[channelID]
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if beforeID != "" && !idLess(msg.ID, beforeID) {
			continue
		}
		if afterID != "" && !idLess(afterID, msg.ID) {
			continue
		}
		out = append(out, msg)
	}
	if afterID != "" {
		// Discord는 after 조회 시 after에 가까운 메시지부터 잘라낸다
		sort.SliceStable(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
		if len(out) > limit {
			out = out[:limit]
		}
		sort.SliceStable(out, func(i, j int) bool { return idLess(out[j].ID, out[i].ID) })
		return out, nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeSession) findLocked(channelID, messageID string) *discordgo.Message {
	for _, msg := range f.ordered[channelID] {
		if msg.ID == messageID {
			return msg
		}
	}
	return nil
}

func (f *FakeSession) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.Guilds[guildID]; ok {
		return g, nil
	}
	return nil, NotFoundError()
}

func (f *FakeSession) GuildMembers(guildID string, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.Member
	for _, member := range f.Members[guildID] {
		if after != "" && !idLess(after, member.User.ID) {
			continue
		}
		out = append(out, member)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeSession) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.Role(nil), f.Roles[guildID]...), nil
}

func (f *FakeSession) GuildRoleCreate(guildID string, data *discordgo.RoleParams, _ ...discordgo.RequestOption) (*discordgo.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	role := &discordgo.Role{ID: f.newID(), Name: data.Name}
	if data.Mentionable != nil {
		role.Mentionable = *data.Mentionable
	}
	f.Roles[guildID] = append(f.Roles[guildID], role)
	return role, nil
}

func (f *FakeSession) GuildRoleDelete(guildID, roleID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	roles := f.Roles[guildID]
	for i, role := range roles {
		if role.ID == roleID {
			f.Roles[guildID] = append(roles[:i:i], roles[i+1:]...)
			return nil
		}
	}
	return NotFoundError()
}

func (f *FakeSession) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RoleAddErr[userID]; err != nil {
		return err
	}
	f.MemberRoles[guildID+"/"+userID+"/"+roleID] = true
	return nil
}

func (f *FakeSession) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.MemberRoles, guildID+"/"+userID+"/"+roleID)
	return nil
}

// HasRole 사용자가 역할을 부여받았는지 확인합니다
func (f *FakeSession) HasRole(guildID, userID, roleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MemberRoles[guildID+"/"+userID+"/"+roleID]
}

// RoleByName 이름으로 역할을 찾습니다
func (f *FakeSession) RoleByName(guildID, name string) *discordgo.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, role := range f.Roles[guildID] {
		if role.Name == name {
			return role
		}
	}
	return nil
}

// NotFoundError Discord의 404 응답을 흉내 냅니다
func NotFoundError() error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage, Message: "Unknown Message"},
	}
}

func idLess(a, b string) bool {
	ai, errA := strconv.ParseUint(a, 10, 64)
	bi, errB := strconv.ParseUint(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}
