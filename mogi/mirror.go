package mogi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/bwmarrin/discordgo"
)

const (
	imageFileName    = "image.png"
	maxImageBytes    = 8 << 20
	imageHTTPTimeout = 15 * time.Second
)

// ImageFetcher 첨부 이미지를 내려받습니다
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher 기본 HTTP 이미지 다운로더를 생성합니다
func NewHTTPImageFetcher() ImageFetcher {
	return &httpImageFetcher{client: &http.Client{Timeout: imageHTTPTimeout}}
}

func (f *httpImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// ValidImageName 첨부할 수 있는 이미지 확장자인지 확인합니다
func ValidImageName(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// mirror 집계 상태를 채널 메시지로 표시합니다
type mirror struct {
	session interfaces.ChatSession
	images  ImageFetcher
}

// imageFile 기록된 이미지를 다시 올릴 파일로 준비합니다. 실패하면 이미지 없이 진행합니다
func (m *mirror) imageFile(ctx context.Context, url string) *discordgo.File {
	if url == "" {
		return nil
	}
	data, err := m.images.Fetch(ctx, url)
	if err != nil {
		utils.Warn("Failed to carry mogi image %s: %v", url, err)
		return nil
	}
	return &discordgo.File{Name: imageFileName, ContentType: "image/png", Reader: bytes.NewReader(data)}
}

// publish 새 메시지를 보내고 rec가 그 메시지를 가리키게 합니다. 이전 메시지는 retire로 따로 지웁니다
func (m *mirror) publish(ctx context.Context, channelID string, rec *Record, content string, now time.Time) error {
	embed := Encode(rec.State)
	send := &discordgo.MessageSend{Content: content, Embeds: []*discordgo.MessageEmbed{embed}}
	if file := m.imageFile(ctx, rec.Image); file != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + imageFileName}
		send.Files = []*discordgo.File{file}
	}

	msg, err := m.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return fmt.Errorf("failed to post mogi message: %w", err)
	}

	rec.MessageID = msg.ID
	rec.PostedAt = now
	rec.Image = attachmentURL(msg, len(send.Files) > 0)
	return nil
}

// retire 더 이상 기록이 가리키지 않는 메시지를 지웁니다. 이미 사라진 메시지는 무시합니다
func (m *mirror) retire(channelID, messageID string) {
	if messageID == "" {
		return
	}
	if err := m.session.ChannelMessageDelete(channelID, messageID); err != nil && !isUnknownMessage(err) {
		utils.Warn("Failed to delete mogi message %s: %v", messageID, err)
	}
}

// edit 기존 메시지를 제자리에서 수정합니다. 메시지가 사라졌으면 새로 보냅니다
func (m *mirror) edit(ctx context.Context, channelID string, rec *Record, now time.Time) error {
	if rec.MessageID == "" {
		return m.publish(ctx, channelID, rec, "", now)
	}

	embed := Encode(rec.State)
	edit := discordgo.NewMessageEdit(channelID, rec.MessageID).SetEmbed(embed)
	edit.Attachments = &[]*discordgo.MessageAttachment{}
	if file := m.imageFile(ctx, rec.Image); file != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + imageFileName}
		edit.Files = []*discordgo.File{file}
	}

	msg, err := m.session.ChannelMessageEditComplex(edit)
	if err != nil {
		if isUnknownMessage(err) {
			utils.Info("Mogi message %s is gone; posting a new one", rec.MessageID)
			rec.MessageID = ""
			return m.publish(ctx, channelID, rec, "", now)
		}
		return fmt.Errorf("failed to edit mogi message: %w", err)
	}
	rec.Image = attachmentURL(msg, len(edit.Files) > 0)
	return nil
}

func attachmentURL(msg *discordgo.Message, hasImage bool) string {
	if !hasImage || msg == nil {
		return ""
	}
	if len(msg.Attachments) > 0 {
		return msg.Attachments[0].URL
	}
	if len(msg.Embeds) > 0 && msg.Embeds[0].Image != nil {
		return msg.Embeds[0].Image.URL
	}
	return ""
}

func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// messageImageURL 채택한 메시지에 붙어 있던 이미지 URL입니다
func messageImageURL(msg *discordgo.Message) string {
	if len(msg.Embeds) > 0 && msg.Embeds[0].Image != nil && strings.HasPrefix(msg.Embeds[0].Image.URL, "http") {
		return msg.Embeds[0].Image.URL
	}
	if len(msg.Attachments) > 0 {
		return msg.Attachments[0].URL
	}
	return ""
}
