package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// ErrorType 오류의 종류를 나타냅니다
type ErrorType int

const (
	TypeValidation ErrorType = iota
	TypeAPI
	TypeNotFound
	TypePermission
	TypeState
	TypeSystem
)

// String 오류 종류의 이름을 반환합니다
func (t ErrorType) String() string {
	switch t {
	case TypeValidation:
		return "validation"
	case TypeAPI:
		return "api"
	case TypeNotFound:
		return "not_found"
	case TypePermission:
		return "permission"
	case TypeState:
		return "state"
	default:
		return "system"
	}
}

// AppError 애플리케이션에서 발생하는 구조화된 오류를 표현합니다
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	UserMsg  string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 내부 오류를 반환합니다
func (e *AppError) Unwrap() error {
	return e.Internal
}

// GetUserMessage 사용자에게 표시할 메시지를 반환합니다
func (e *AppError) GetUserMessage() string {
	if e.UserMsg != "" {
		return e.UserMsg
	}
	return e.Message
}

// 오류 생성 함수들

// NewValidationError 입력값 검증 오류를 생성합니다
func NewValidationError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeValidation,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewAPIError 외부 API 연동 오류를 생성합니다
func NewAPIError(code, message, userMsg string, err error) *AppError {
	return &AppError{
		Type:     TypeAPI,
		Code:     code,
		Message:  message,
		UserMsg:  userMsg,
		Internal: err,
	}
}

// NewNotFoundError 리소스를 찾을 수 없는 오류를 생성합니다
func NewNotFoundError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewPermissionError 권한 관련 오류를 생성합니다
func NewPermissionError(code, message, userMsg string) *AppError {
	return &AppError{
		Type:    TypePermission,
		Code:    code,
		Message: message,
		UserMsg: userMsg,
	}
}

// NewStateError 경기 상태 전이가 거부된 오류를 생성합니다
func NewStateError(code, message, userMsg string, err error) *AppError {
	return &AppError{
		Type:     TypeState,
		Code:     code,
		Message:  message,
		UserMsg:  userMsg,
		Internal: err,
	}
}

// NewSystemError 시스템 내부 오류를 생성합니다
func NewSystemError(code, message, userMsg string, err error) *AppError {
	return &AppError{
		Type:     TypeSystem,
		Code:     code,
		Message:  message,
		UserMsg:  userMsg,
		Internal: err,
	}
}

// IsType 오류 체인에 주어진 종류의 AppError가 있는지 확인합니다
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Discord 메시지 관련 헬퍼 함수들

// MessageSender 텍스트 메시지를 보낼 수 있는 Discord 세션입니다
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// HandleDiscordError 오류를 처리하고 Discord 채널에 메시지를 전송합니다
func HandleDiscordError(s MessageSender, channelID string, lang constants.Lang, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		// 로그에 상세 정보 기록
		event := log.Warn()
		if IsType(err, TypeSystem) || IsType(err, TypeAPI) {
			event = log.Error()
		}
		event.Str("code", appErr.Code).Str("type", appErr.Type.String()).Err(appErr.Internal).Msg(appErr.Message)

		if discordErr := SendDiscordMessageWithRetry(s, channelID, constants.EmojiError+" "+appErr.GetUserMessage()); discordErr != nil {
			log.Error().Err(discordErr).Msg("DISCORD API ERROR: Failed to send error message after retries")
		}
		return
	}

	// 예상치 못한 오류 로깅
	log.Error().Err(err).Str("channel", channelID).Msg("UNEXPECTED ERROR")
	if discordErr := SendDiscordMessageWithRetry(s, channelID, constants.EmojiError+" "+constants.Localize(constants.MsgUnknown, lang)); discordErr != nil {
		log.Error().Err(discordErr).Msg("DISCORD API ERROR: Failed to send error message after retries")
	}
}

// SendDiscordSuccess 성공 메시지를 Discord 채널에 전송합니다
func SendDiscordSuccess(s MessageSender, channelID, message string) error {
	return SendDiscordMessageWithRetry(s, channelID, constants.EmojiSuccess+" "+message)
}

// SendDiscordInfo 정보 메시지를 Discord 채널에 전송합니다
func SendDiscordInfo(s MessageSender, channelID, message string) error {
	return SendDiscordMessageWithRetry(s, channelID, constants.EmojiInfo+" "+message)
}

// retryDelay 재시도 간격입니다. 테스트에서 줄일 수 있습니다
var retryDelay = constants.BaseRetryDelay

// SendDiscordMessageWithRetry Discord 메시지 전송을 재시도 로직과 함께 수행합니다
func SendDiscordMessageWithRetry(s MessageSender, channelID, message string) error {
	const maxRetries = constants.MaxDiscordRetries

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := s.ChannelMessageSend(channelID, message)
		if err == nil {
			if attempt > 0 {
				log.Info().Int("retries", attempt).Msg("Discord message sent successfully after retries")
			}
			return nil
		}

		lastErr = err
		if attempt < maxRetries-1 {
			delay := time.Duration(1<<attempt) * retryDelay // 1s, 2s, 4s
			log.Warn().Err(err).Int("attempt", attempt+1).Dur("delay", delay).Msg("Discord API call failed, retrying")
			time.Sleep(delay)
		}
	}

	log.Error().Err(lastErr).Msg("DISCORD API ERROR: All retry attempts failed")
	return lastErr
}
