// Package command renders classified intents into AWS CLI invocations and
// validates them against the read-only safety policy.
package command

import "github.com/sevaagent/seva/internal/intent"

// ErrorKind tags the failure variants of a Result so callers can branch on
// the outcome instead of probing error strings.
type ErrorKind string

const (
	ErrNone                     ErrorKind = ""
	ErrNoServiceMatched         ErrorKind = "no_service_matched"
	ErrLowConfidence            ErrorKind = "low_confidence"
	ErrNoTemplateForIntent      ErrorKind = "no_template_for_intent"
	ErrMissingRequiredParameter ErrorKind = "missing_required_parameter"
	ErrUnsafeCommand            ErrorKind = "unsafe_command"
	ErrExternalFallbackFailed   ErrorKind = "external_fallback_failed"
	ErrExecutionTimeout         ErrorKind = "execution_timeout"
)

// Result is the terminal value of the pipeline: either a renderable command
// with its description, or a tagged failure with a human-readable error and
// example phrasings. It is constructed fresh per request and never mutated.
type Result struct {
	Success     bool             `json:"success" yaml:"success"`
	Command     string           `json:"command,omitempty" yaml:"command,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Service     intent.ServiceID `json:"service,omitempty" yaml:"service,omitempty"`
	Confidence  float64          `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Method      string           `json:"method,omitempty" yaml:"method,omitempty"`
	ErrorKind   ErrorKind        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error       string           `json:"error,omitempty" yaml:"error,omitempty"`
	Suggestion  string           `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Failure builds an error Result with a suggestion scoped to the service the
// classifier best guessed (generic when the service is unknown).
func Failure(kind ErrorKind, service intent.ServiceID, errText string) Result {
	return Result{
		Success:    false,
		Service:    service,
		ErrorKind:  kind,
		Error:      errText,
		Suggestion: SuggestionFor(service),
	}
}
