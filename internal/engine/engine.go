// Package engine wires the classification pipeline together: features ->
// scorer -> parameters -> renderer -> safety validator, with an optional LLM
// fallback when rule confidence is too low.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sevaagent/seva/internal/command"
	"github.com/sevaagent/seva/internal/intent"
)

// FallbackTimeout caps how long a fallback call may block. The rule path
// itself performs no I/O and needs no timeout of its own.
const FallbackTimeout = 30 * time.Second

// FallbackCommand is what the external LLM collaborator proposes. It is
// never trusted as-is: the safety validator re-checks it exactly like a
// rule-rendered command.
type FallbackCommand struct {
	Command     string
	Description string
}

// Fallback generates a command for queries the rule engine could not score
// confidently. Implementations are expected to block on network I/O and must
// honor context cancellation.
type Fallback interface {
	GenerateCommand(ctx context.Context, query string) (FallbackCommand, error)
}

// Engine is the stateless classification core. All of its configuration is
// immutable after New, so one engine serves concurrent callers without
// locking; every call allocates its own feature set, match, and result.
type Engine struct {
	classifier *intent.Classifier
	renderer   *command.Renderer
	validator  *command.Validator
	fallback   Fallback
	threshold  float64
	debug      bool
}

// Options tune engine construction. Zero values fall back to defaults.
type Options struct {
	Taxonomy  *intent.Taxonomy
	Templates map[command.TemplateKey]command.Template
	Region    string
	Fallback  Fallback
	Threshold float64
	Debug     bool
}

// New validates the taxonomy and template tables once and returns a ready
// engine. Configuration problems surface here, at startup, never per request.
func New(opts Options) (*Engine, error) {
	tax := intent.DefaultTaxonomy()
	if opts.Taxonomy != nil {
		tax = *opts.Taxonomy
	}
	classifier, err := intent.NewClassifier(tax)
	if err != nil {
		return nil, err
	}

	templates := opts.Templates
	if templates == nil {
		templates = command.DefaultTemplates()
	}
	renderer, err := command.NewRenderer(templates, opts.Region)
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = intent.ConfidenceThreshold
	}

	return &Engine{
		classifier: classifier,
		renderer:   renderer,
		validator:  command.NewValidator(),
		fallback:   opts.Fallback,
		threshold:  threshold,
		debug:      opts.Debug,
	}, nil
}

// ClassifyAndRender turns free text into a validated CLI command or a tagged
// failure. Deterministic given the same text and tables, except for the
// fallback path, which consults the external LLM collaborator.
func (e *Engine) ClassifyAndRender(ctx context.Context, text string) command.Result {
	features := intent.Extract(text)
	match := e.classifier.Classify(features)

	if e.debug {
		fmt.Printf("intent: %s %s %s (confidence %.2f) params=%v\n",
			match.Service, match.Action, match.Resource, match.Confidence, match.Parameters)
	}

	if match.Service == intent.ServiceUnknown {
		if e.fallback != nil {
			return e.runFallback(ctx, text, match)
		}
		res := command.Failure(command.ErrNoServiceMatched, intent.ServiceUnknown,
			fmt.Sprintf("could not match %q to a known service", text))
		return res
	}

	if match.Confidence < e.threshold {
		if e.fallback != nil {
			return e.runFallback(ctx, text, match)
		}
		res := command.Failure(command.ErrLowConfidence, match.Service,
			fmt.Sprintf("understood %q only with confidence %.2f", text, match.Confidence))
		res.Confidence = match.Confidence
		return res
	}

	result := e.renderer.Render(match)
	if !result.Success {
		return result
	}

	if err := e.validator.Validate(result.Command); err != nil {
		var unsafe *command.UnsafeError
		reason := err.Error()
		if errors.As(err, &unsafe) {
			reason = unsafe.Reason
		}
		res := command.Failure(command.ErrUnsafeCommand, match.Service,
			fmt.Sprintf("command blocked for safety: %s", reason))
		res.Confidence = match.Confidence
		return res
	}

	return result
}

// runFallback asks the LLM collaborator for a command and re-validates its
// output before trusting it. Fallback failures never crash the pipeline;
// they come back as tagged results with suggestions.
func (e *Engine) runFallback(ctx context.Context, text string, match intent.Match) command.Result {
	fctx, cancel := context.WithTimeout(ctx, FallbackTimeout)
	defer cancel()

	proposal, err := e.fallback.GenerateCommand(fctx, text)
	if err != nil {
		msg := fmt.Sprintf("fallback generation failed: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "fallback generation timed out"
		}
		res := command.Failure(command.ErrExternalFallbackFailed, match.Service, msg)
		res.Confidence = match.Confidence
		return res
	}
	if proposal.Command == "" {
		res := command.Failure(command.ErrExternalFallbackFailed, match.Service,
			"fallback returned no command")
		res.Confidence = match.Confidence
		return res
	}

	cmd := e.renderer.EnsureRegion(proposal.Command)

	if err := e.validator.Validate(cmd); err != nil {
		var unsafe *command.UnsafeError
		reason := err.Error()
		if errors.As(err, &unsafe) {
			reason = unsafe.Reason
		}
		res := command.Failure(command.ErrUnsafeCommand, match.Service,
			fmt.Sprintf("fallback command blocked for safety: %s", reason))
		res.Confidence = match.Confidence
		return res
	}

	return command.Result{
		Success:     true,
		Command:     cmd,
		Description: proposal.Description,
		Service:     match.Service,
		Confidence:  match.Confidence,
		Method:      "llm",
	}
}
