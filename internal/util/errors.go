package util

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("unauthorized")
	ErrForbidden            = errors.New("permission denied")
	ErrValidation           = errors.New("validation error")
	ErrIncompleteAssessment = errors.New("incomplete assessment")
	ErrNotFound             = errors.New("not found")
	ErrBudgetExhausted      = errors.New("no skips remaining today")
	ErrChallengeCompleted   = errors.New("today's challenge is already completed")
	ErrConflict             = errors.New("record was modified concurrently, please retry")
	ErrNoChallenge          = errors.New("no challenges available")
	ErrUpstreamStorage      = errors.New("storage unavailable")
)

// ValidationError 错误信息需包含出错字段名
func ValidationError(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, fmt.Sprintf(format, args...))
}

func NotFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// StorageError 包装持久层错误，原始信息只进日志
func StorageError(err error) error {
	if err == nil || errors.Is(err, ErrUpstreamStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstreamStorage, err)
}
