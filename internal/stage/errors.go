package stage

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies one pipeline stage. Every failure is tagged with the stage
// that produced it.
type Name string

const (
	Extract    Name = "extract"
	Resolve    Name = "resolve"
	Locate     Name = "locate"
	Match      Name = "match"
	Fetch      Name = "fetch"
	Transcribe Name = "transcribe"
)

// Kind classifies stage failures. One kind per failure mode; callers branch
// on the kind, never on message text.
type Kind string

const (
	KindInvalidURL       Kind = "invalid_url"
	KindAuth             Kind = "auth"
	KindNotFound         Kind = "not_found"
	KindTransient        Kind = "transient"
	KindNoFeedFound      Kind = "no_feed_found"
	KindNoMatch          Kind = "no_match"
	KindResourceTooLarge Kind = "resource_too_large"
	KindTimeout          Kind = "timeout"
	KindDownload         Kind = "download"
	KindTranscription    Kind = "transcription"
)

// Error is a stage-tagged pipeline failure. Details carry the context needed
// to render an actionable message (offending URL, titles considered, score
// achieved) without parsing the message string.
type Error struct {
	Kind    Kind
	Stage   Name
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Stage != "" {
		parts = append(parts, string(e.Stage))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return string(e.Kind)
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a stage error without an underlying cause.
func NewError(kind Kind, stage Name, message string) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message}
}

// WrapError tags an underlying error with a kind and stage. A nil err still
// produces an Error so callers don't have to special-case missing causes.
func WrapError(kind Kind, stage Name, message string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Err: err}
}

// WithDetail attaches a context key/value and returns the error for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsKind reports whether err carries the given failure kind anywhere in its
// chain.
func IsKind(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// KindOf returns the failure kind of err, or "" when err is not a stage
// error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// StageOf returns the stage that produced err, or "" for non-stage errors.
func StageOf(err error) Name {
	var se *Error
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Errorf is a convenience for formatted messages.
func Errorf(kind Kind, stage Name, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}
