package handsup

import (
	"errors"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

var (
	ErrTimeNotSelected = errors.New("no hour selected")
	ErrHourNotAddable  = errors.New("too many recruiting hours")
	ErrNotGathering    = errors.New("no recruiting hours")
)

// MessageKey 모집 오류에 해당하는 사용자 메시지 키를 반환합니다
func MessageKey(err error) (constants.MessageKey, bool) {
	switch {
	case errors.Is(err, ErrTimeNotSelected):
		return constants.MsgTimeNotSelected, true
	case errors.Is(err, ErrHourNotAddable):
		return constants.MsgHourNotAddable, true
	case errors.Is(err, ErrNotGathering):
		return constants.MsgNotGathering, true
	}
	return constants.MsgUnknown, false
}
