package utils

import (
	"fmt"
)

// ErrorHelper 일관된 에러 처리를 위한 헬퍼 구조체입니다
type ErrorHelper struct {
	operation string
}

// NewErrorHelper 새로운 ErrorHelper를 생성합니다
func NewErrorHelper(operation string) *ErrorHelper {
	return &ErrorHelper{
		operation: operation,
	}
}

// WrapError 기존 에러에 컨텍스트를 추가하여 래핑합니다
func (e *ErrorHelper) WrapError(err error, message string) error {
	if err == nil {
		return nil
	}

	if message != "" {
		return fmt.Errorf("[%s] %s: %w", e.operation, message, err)
	}
	return fmt.Errorf("[%s]: %w", e.operation, err)
}

// LogError 에러를 로그에 출력합니다
func (e *ErrorHelper) LogError(err error, context string) {
	if err == nil {
		return
	}

	if context != "" {
		Error("%s - %s: %v", e.operation, context, err)
	} else {
		Error("%s: %v", e.operation, err)
	}
}
