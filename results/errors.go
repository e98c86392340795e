package results

import (
	"errors"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

var (
	ErrEmptyResult          = errors.New("no results")
	ErrInvalidScoreInput    = errors.New("invalid score input")
	ErrInvalidIDInput       = errors.New("invalid result id input")
	ErrIDOutOfRange         = errors.New("result id out of range")
	ErrNotCSVFile           = errors.New("not a csv file")
	ErrNotAcceptableContent = errors.New("unacceptable result file content")
	ErrInvalidDate          = errors.New("invalid date input")
)

// MessageKey 전적 오류에 해당하는 사용자 메시지 키를 반환합니다
func MessageKey(err error) (constants.MessageKey, bool) {
	switch {
	case errors.Is(err, ErrEmptyResult):
		return constants.MsgEmptyResult, true
	case errors.Is(err, ErrInvalidScoreInput):
		return constants.MsgInvalidScoreInput, true
	case errors.Is(err, ErrInvalidIDInput):
		return constants.MsgInvalidIDInput, true
	case errors.Is(err, ErrIDOutOfRange):
		return constants.MsgIDOutOfRange, true
	case errors.Is(err, ErrNotCSVFile):
		return constants.MsgNotCSVFile, true
	case errors.Is(err, ErrNotAcceptableContent):
		return constants.MsgNotAcceptableContent, true
	case errors.Is(err, ErrInvalidDate):
		return constants.MsgInvalidDate, true
	}
	return constants.MsgUnknown, false
}
