package utils

import (
	"fmt"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/errors"
)

// ValidationErrorHelper 검증 에러 처리를 위한 헬퍼
type ValidationErrorHelper struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// HandleUsage 명령어 사용법을 안내합니다
func (v *ValidationErrorHelper) HandleUsage(command, usage string) {
	err := errors.NewValidationError("INVALID_USAGE",
		fmt.Sprintf("잘못된 %s 명령어 사용", command), usage)
	errors.HandleDiscordError(v.session, v.channelID, v.lang, err)
}

// HandleMessage 지역화된 메시지 키로 검증 에러를 처리합니다
func (v *ValidationErrorHelper) HandleMessage(code string, key constants.MessageKey) {
	err := errors.NewValidationError(code, constants.Localize(key, constants.LangEN), constants.Localize(key, v.lang))
	errors.HandleDiscordError(v.session, v.channelID, v.lang, err)
}

// SystemErrorHelper 시스템 에러 처리를 위한 헬퍼
type SystemErrorHelper struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// HandleSystemError 시스템 에러 처리
func (s *SystemErrorHelper) HandleSystemError(code, message string, err error) {
	botErr := errors.NewSystemError(code, message, constants.Localize(constants.MsgUnknown, s.lang), err)
	errors.HandleDiscordError(s.session, s.channelID, s.lang, botErr)
}

// HandleStorageFailed 다른 쓰기와 겹쳐 저장하지 못했을 때의 에러 처리
func (s *SystemErrorHelper) HandleStorageFailed(err error) {
	botErr := errors.NewSystemError("STORAGE_FAILED", "저장소 작업에 실패했습니다",
		constants.Localize(constants.MsgStorageConflict, s.lang), err)
	errors.HandleDiscordError(s.session, s.channelID, s.lang, botErr)
}

// HandleForbidden 봇 권한이 부족할 때의 에러 처리
func (s *SystemErrorHelper) HandleForbidden(err error) {
	botErr := errors.NewPermissionError("DISCORD_FORBIDDEN", "Discord 권한이 부족합니다",
		constants.Localize(constants.MsgMissingPermission, s.lang))
	botErr.Internal = err
	errors.HandleDiscordError(s.session, s.channelID, s.lang, botErr)
}

// APIErrorHelper API 에러 처리를 위한 헬퍼
type APIErrorHelper struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// HandleExternalFailure 외부 서비스 호출 실패 에러 처리
func (a *APIErrorHelper) HandleExternalFailure(service string, err error) {
	botErr := errors.NewAPIError("EXTERNAL_FAILURE",
		fmt.Sprintf("%s 호출에 실패했습니다", service),
		constants.Localize(constants.MsgExternalFailure, a.lang), err)
	errors.HandleDiscordError(a.session, a.channelID, a.lang, botErr)
}

// HandlePlayerNotFound 라운지 플레이어 찾기 실패 에러 처리
func (a *APIErrorHelper) HandlePlayerNotFound(query string) {
	botErr := errors.NewNotFoundError("PLAYER_NOT_FOUND",
		fmt.Sprintf("라운지 플레이어 '%s'를 찾을 수 없습니다", query),
		constants.Localize(constants.MsgPlayerNotFound, a.lang))
	errors.HandleDiscordError(a.session, a.channelID, a.lang, botErr)
}

// StateErrorHelper 경기 상태 전이 거부를 처리하는 헬퍼
type StateErrorHelper struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// HandleRejected 상태 전이가 거부되었음을 알립니다
func (s *StateErrorHelper) HandleRejected(code string, key constants.MessageKey, cause error) {
	botErr := errors.NewStateError(code, constants.Localize(key, constants.LangEN), constants.Localize(key, s.lang), cause)
	errors.HandleDiscordError(s.session, s.channelID, s.lang, botErr)
}

// DataErrorHelper 데이터 관련 에러 처리를 위한 헬퍼
type DataErrorHelper struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// HandleNotFound 대상 데이터가 없을 때의 에러 처리
func (d *DataErrorHelper) HandleNotFound(code string, key constants.MessageKey) {
	botErr := errors.NewNotFoundError(code, constants.Localize(key, constants.LangEN), constants.Localize(key, d.lang))
	errors.HandleDiscordError(d.session, d.channelID, d.lang, botErr)
}

// ErrorHandlerFactory 에러 핸들러들을 생성하는 팩토리
type ErrorHandlerFactory struct {
	session   errors.MessageSender
	channelID string
	lang      constants.Lang
}

// NewErrorHandlerFactory ErrorHandlerFactory 생성자
func NewErrorHandlerFactory(session errors.MessageSender, channelID string, lang constants.Lang) *ErrorHandlerFactory {
	return &ErrorHandlerFactory{
		session:   session,
		channelID: channelID,
		lang:      lang,
	}
}

// Validation ValidationErrorHelper 반환
func (f *ErrorHandlerFactory) Validation() *ValidationErrorHelper {
	return &ValidationErrorHelper{session: f.session, channelID: f.channelID, lang: f.lang}
}

// System SystemErrorHelper 반환
func (f *ErrorHandlerFactory) System() *SystemErrorHelper {
	return &SystemErrorHelper{session: f.session, channelID: f.channelID, lang: f.lang}
}

// State StateErrorHelper 반환
func (f *ErrorHandlerFactory) State() *StateErrorHelper {
	return &StateErrorHelper{session: f.session, channelID: f.channelID, lang: f.lang}
}

// Data DataErrorHelper 반환
func (f *ErrorHandlerFactory) Data() *DataErrorHelper {
	return &DataErrorHelper{session: f.session, channelID: f.channelID, lang: f.lang}
}

// API APIErrorHelper 반환
func (f *ErrorHandlerFactory) API() *APIErrorHelper {
	return &APIErrorHelper{session: f.session, channelID: f.channelID, lang: f.lang}
}

// Handle 임의의 오류를 Discord 채널에 보고합니다
func (f *ErrorHandlerFactory) Handle(err error) {
	errors.HandleDiscordError(f.session, f.channelID, f.lang, err)
}
