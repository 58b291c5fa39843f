package dashboard

import (
	"errors"
	"fmt"

	"github.com/fennwick/barboard/internal/ai"
	"github.com/fennwick/barboard/internal/chat"
	"github.com/fennwick/barboard/internal/export"
)

const (
	CodeValidation        = "VALIDATION"
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodeExportNotFound    = "EXPORT_NOT_FOUND"
	CodeFrameOutOfRange   = "FRAME_OUT_OF_RANGE"
	CodeAIUnconfigured    = "AI_UNCONFIGURED"
	CodeAIAuth            = "AI_AUTH"
	CodeAIRateLimited     = "AI_RATE_LIMITED"
	CodeAIUnavailable     = "AI_UNAVAILABLE"
	CodeAIBadResponse     = "AI_BAD_RESPONSE"
	CodeRenderUnavailable = "RENDER_UNAVAILABLE"
	CodeRenderFailed      = "RENDER_FAILED"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// aiError classifies a chat failure for the API. Provider failures keep
// their cause so the log line shows what the upstream actually said.
func aiError(err error) error {
	if errors.Is(err, chat.ErrUnconfigured) {
		return newError(CodeAIUnconfigured, "no API key configured for the AI provider", nil)
	}
	var call *ai.CallError
	if errors.As(err, &call) {
		switch call.Kind {
		case ai.KindAuth:
			return newError(CodeAIAuth, "AI provider rejected the configured credentials", err)
		case ai.KindRateLimited:
			return newError(CodeAIRateLimited, "AI provider rate limit reached", err)
		case ai.KindNetwork:
			return newError(CodeAIUnavailable, "AI provider unreachable", err)
		default:
			return newError(CodeAIBadResponse, "AI provider returned an unusable response", err)
		}
	}
	return newError(CodeAIUnavailable, "AI request failed", err)
}

// exportError maps store failures onto API codes. Anything that is not a
// bad id or a missing export stays opaque and surfaces as an internal
// error.
func exportError(id string, err error) error {
	switch {
	case errors.Is(err, export.ErrNotFound):
		return newError(CodeExportNotFound, fmt.Sprintf("export %q not found", id), nil)
	case errors.Is(err, export.ErrInvalidID):
		return newError(CodeValidation, err.Error(), nil)
	default:
		return err
	}
}
