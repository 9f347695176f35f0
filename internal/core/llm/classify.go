package llm

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorKind drives the fallback loop: credential failures abort immediately
// (a different model cannot fix a bad key), everything else moves on to the
// next candidate.
type ErrorKind int

const (
	KindTransient ErrorKind = iota
	KindCredential
	KindEmpty
)

func (k ErrorKind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindEmpty:
		return "empty"
	default:
		return "transient"
	}
}

// ErrEmptyResponse marks a call that succeeded at the transport level but
// produced no text, typically a safety-filtered candidate.
var ErrEmptyResponse = errors.New("model returned no text")

// ClassifiedError is what Respond surfaces: the failing model, the kind, and
// the underlying cause.
type ClassifiedError struct {
	Kind  ErrorKind
	Model string
	Err   error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("model %s: %s failure: %v", e.Model, e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// Classify maps a raw invocation error onto an ErrorKind. Status codes from
// googleapi are authoritative; the message probe catches key errors the API
// reports as plain 400s.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindTransient
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmpty
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return KindCredential
		case 400:
			if looksLikeKeyError(apiErr.Message) || looksLikeKeyError(apiErr.Body) {
				return KindCredential
			}
		}
		return KindTransient
	}
	if looksLikeKeyError(err.Error()) {
		return KindCredential
	}
	return KindTransient
}

func looksLikeKeyError(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "api key") ||
		strings.Contains(s, "api_key_invalid") ||
		strings.Contains(s, "permission_denied") ||
		strings.Contains(s, "unauthenticated")
}
