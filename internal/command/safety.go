package command

import (
	"fmt"
	"strings"
)

// denyTerms are mutating-verb substrings. A command containing any of them is
// rejected no matter what the allow list says: deny always wins.
var denyTerms = []string{
	"delete", "terminate", "remove", "destroy",
	"create", "modify", "update", "attach", "detach", "put-",
}

// allowPrefixes are known-safe literal command prefixes.
var allowPrefixes = []string{
	"aws s3 ls",
	"aws s3api list-",
	"aws ec2 describe-",
	"aws lambda list-",
	"aws iam list-",
	"aws iam get-",
	"aws rds describe-",
	"aws cloudformation list-",
	"aws cloudformation describe-",
	"aws sts get-caller-identity",
}

// allowActionPrefixes are read-only action verbs accepted on any
// "aws <service> <action>" command that misses the literal prefixes.
var allowActionPrefixes = []string{"list", "describe", "get", "show"}

// UnsafeError reports why the validator rejected a command.
type UnsafeError struct {
	Command string
	Reason  string
}

func (e *UnsafeError) Error() string {
	return fmt.Sprintf("unsafe command %q: %s", e.Command, e.Reason)
}

// Validator is the static read-only safety policy. Every command passes
// through it before execution, whether it came from the rule engine or from
// the LLM fallback; never modify or auto-correct a command here, only accept
// or reject it.
type Validator struct {
	deny           []string
	prefixes       []string
	actionPrefixes []string
}

// NewValidator returns the default allow/deny policy.
func NewValidator() *Validator {
	return &Validator{
		deny:           denyTerms,
		prefixes:       allowPrefixes,
		actionPrefixes: allowActionPrefixes,
	}
}

// Validate returns nil for allow-listed read-only commands and an
// *UnsafeError otherwise. The deny check runs first so a mutating verb is
// rejected even inside an otherwise allow-listed command.
func (v *Validator) Validate(cmd string) error {
	normalized := strings.ToLower(strings.TrimSpace(cmd))
	if normalized == "" {
		return &UnsafeError{Command: cmd, Reason: "empty command"}
	}

	for _, term := range v.deny {
		if strings.Contains(normalized, term) {
			return &UnsafeError{Command: cmd, Reason: fmt.Sprintf("contains blocked term %q", term)}
		}
	}

	for _, prefix := range v.prefixes {
		if strings.HasPrefix(normalized, prefix) {
			return nil
		}
	}

	words, err := SplitWords(normalized)
	if err == nil && len(words) >= 3 && words[0] == "aws" {
		for _, action := range v.actionPrefixes {
			if strings.HasPrefix(words[2], action) {
				return nil
			}
		}
	}

	return &UnsafeError{Command: cmd, Reason: "not an allow-listed read-only command"}
}
