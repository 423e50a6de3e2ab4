package balancer

import (
	"errors"
	"fmt"
)

var (
	ErrConfig           = errors.New("invalid team generation request")
	ErrGenerationFailed = errors.New("team generation failed")
)

// ErrorCode is a stable identifier callers can switch on.
type ErrorCode string

const (
	CodeMissingSettings     ErrorCode = "missing_settings"
	CodeInvalidSettings     ErrorCode = "invalid_settings"
	CodeInvalidMethod       ErrorCode = "invalid_method"
	CodeInvalidConfig       ErrorCode = "invalid_config"
	CodeInsufficientPlayers ErrorCode = "insufficient_players"
	CodeDuplicatePlayer     ErrorCode = "duplicate_player"
	CodeInvalidHistory      ErrorCode = "invalid_history"
)

// ConfigError is returned for caller mistakes detected before any search runs.
type ConfigError struct {
	Code    ErrorCode
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErrorf(code ErrorCode, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GenerationError means the search and its unconstrained fallback produced
// no usable arrangement.
type GenerationError struct {
	Players    int
	TeamCount  int
	Iterations int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v: no arrangement of %d players into %d teams after %d iterations",
		ErrGenerationFailed, e.Players, e.TeamCount, e.Iterations)
}

func (e *GenerationError) Unwrap() error {
	return ErrGenerationFailed
}
