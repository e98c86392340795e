package mogi

import (
	"errors"

	"github.com/Yumax-panda/Mario-Kart/constants"
)

var (
	ErrMogiNotFound   = errors.New("mogi not found")
	ErrInvalidMessage = errors.New("message is not a mogi")
	ErrInvalidRank    = errors.New("invalid rank input")
	ErrOutOfRange     = errors.New("race number out of range")
	ErrInvalidTag     = errors.New("tag does not match either team")
	ErrInvalidFile    = errors.New("unsupported image file")
	// ErrVersionConflict 저장된 기록이 읽은 이후 다른 쓰기로 바뀌었을 때 반환됩니다
	ErrVersionConflict = errors.New("mogi record version conflict")
)

// Reason 상태 전이가 거부된 이유입니다
type Reason int

const (
	NotAddable Reason = iota
	NotBackable
	MogiArchived
)

func (r Reason) String() string {
	switch r {
	case NotAddable:
		return "NotAddable"
	case NotBackable:
		return "NotBackable"
	case MogiArchived:
		return "MogiArchived"
	default:
		return "Unknown"
	}
}

// TransitionError 상태 기계가 레이스 추가/되돌리기를 거부했음을 나타냅니다
type TransitionError struct {
	Reason Reason
}

func (e *TransitionError) Error() string {
	return "mogi transition rejected: " + e.Reason.String()
}

func reject(reason Reason) error {
	return &TransitionError{Reason: reason}
}

// IsRejected err가 주어진 이유의 TransitionError인지 확인합니다
func IsRejected(err error, reason Reason) bool {
	var te *TransitionError
	return errors.As(err, &te) && te.Reason == reason
}

// MessageKey 즉시 집계 오류에 해당하는 사용자 메시지 키를 반환합니다
func MessageKey(err error) (constants.MessageKey, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		switch te.Reason {
		case NotAddable:
			return constants.MsgNotAddable, true
		case NotBackable:
			return constants.MsgNotBackable, true
		case MogiArchived:
			return constants.MsgMogiArchived, true
		}
	}

	switch {
	case errors.Is(err, ErrMogiNotFound):
		return constants.MsgMogiNotFound, true
	case errors.Is(err, ErrInvalidMessage):
		return constants.MsgInvalidMessage, true
	case errors.Is(err, ErrInvalidRank):
		return constants.MsgInvalidRankInput, true
	case errors.Is(err, ErrOutOfRange):
		return constants.MsgOutOfRange, true
	case errors.Is(err, ErrInvalidTag):
		return constants.MsgInvalidTag, true
	case errors.Is(err, ErrInvalidFile):
		return constants.MsgInvalidFile, true
	}
	return constants.MsgUnknown, false
}

// IsSilent 채팅 입력으로 들어온 레이스 처리에서 조용히 무시할 오류인지 확인합니다
func IsSilent(err error) bool {
	return errors.Is(err, ErrMogiNotFound) ||
		IsRejected(err, NotAddable) ||
		IsRejected(err, NotBackable) ||
		IsRejected(err, MogiArchived)
}
