package command

import (
	"fmt"
	"strings"

	"github.com/sevaagent/seva/internal/intent"
)

// regionalServices need an explicit --region flag on their CLI calls.
var regionalServices = map[string]bool{
	"ec2":    true,
	"rds":    true,
	"lambda": true,
	"ecs":    true,
}

// DefaultRegion is used when neither config nor environment supply one.
const DefaultRegion = "us-east-1"

// Renderer maps classified intents onto concrete CLI commands. Its template
// table and region are fixed at construction, so one renderer is safe for
// concurrent use.
type Renderer struct {
	templates map[TemplateKey]Template
	region    string
}

// NewRenderer validates the template table once and captures the default
// region used for regional services.
func NewRenderer(templates map[TemplateKey]Template, region string) (*Renderer, error) {
	if err := ValidateTemplates(templates); err != nil {
		return nil, err
	}
	if region == "" {
		region = DefaultRegion
	}
	return &Renderer{templates: templates, region: region}, nil
}

// Render looks up the template for the matched triple, picks the variant the
// extracted parameters call for, substitutes placeholders, and appends the
// region flag when the service needs one. A placeholder with no extracted
// value is a hard failure: silently rendering a blank would produce a
// syntactically valid but semantically wrong command.
func (r *Renderer) Render(m intent.Match) Result {
	tpl, ok := r.lookup(m)
	if !ok {
		return Failure(ErrNoTemplateForIntent, m.Service,
			fmt.Sprintf("no command template for %s %s %s", m.Service, m.Action, m.Resource))
	}

	chosen := r.chooseVariant(tpl, m)

	rendered, missing := substitute(chosen, m.Parameters)
	if missing != "" {
		return Failure(ErrMissingRequiredParameter, m.Service,
			fmt.Sprintf("missing required parameter %q for %s %s %s", missing, m.Service, m.Action, m.Resource))
	}

	rendered = r.EnsureRegion(rendered)

	return Result{
		Success:     true,
		Command:     rendered,
		Description: describe(tpl, chosen, m.Parameters),
		Service:     m.Service,
		Confidence:  m.Confidence,
		Method:      "rules",
	}
}

// lookup resolves the template key. A describe intent without its own
// template falls back to the list template for the same service/resource so
// "show ... status" phrasings don't dead-end.
func (r *Renderer) lookup(m intent.Match) (Template, bool) {
	tpl, ok := r.templates[TemplateKey{Service: m.Service, Action: m.Action, Resource: m.Resource}]
	if !ok && m.Action == intent.ActionDescribe {
		tpl, ok = r.templates[TemplateKey{Service: m.Service, Action: intent.ActionList, Resource: m.Resource}]
	}
	return tpl, ok
}

// chooseVariant applies the selection order: recursive first, then the first
// filter dimension with both a parameter and a registered variant, then base.
func (r *Renderer) chooseVariant(tpl Template, m intent.Match) string {
	if m.Recursive() && tpl.Recursive != "" {
		return tpl.Recursive
	}
	for _, kind := range filterOrder {
		if m.Parameters[filterParams[kind]] == "" {
			continue
		}
		if variant, ok := tpl.Variants[kind]; ok {
			return variant
		}
	}
	return tpl.Base
}

// substitute fills every {name} placeholder from params. It returns the name
// of the first unsatisfied placeholder instead of rendering a blank.
func substitute(tpl string, params map[string]string) (rendered string, missing string) {
	for _, name := range placeholders(tpl) {
		if params[name] == "" {
			return "", name
		}
	}
	rendered = placeholderPattern.ReplaceAllStringFunc(tpl, func(ph string) string {
		return params[ph[1:len(ph)-1]]
	})
	return rendered, ""
}

// EnsureRegion appends the default region flag to commands for regional
// services that don't already carry one. The flag goes at the end of the
// argument list rather than being spliced in at a token offset; CLI flag
// parsing doesn't care, and positional insertion breaks on hyphenated
// subcommands.
func (r *Renderer) EnsureRegion(cmd string) string {
	words, err := SplitWords(cmd)
	if err != nil || len(words) < 2 || words[0] != "aws" {
		return cmd
	}
	if !regionalServices[words[1]] {
		return cmd
	}
	for _, w := range words {
		if w == "--region" {
			return cmd
		}
	}
	return cmd + " --region " + r.region
}

// describe appends parameter clauses only for parameters the chosen variant
// actually consumed; mentioning unused ones would misdescribe the command.
func describe(tpl Template, chosen string, params map[string]string) string {
	desc := tpl.Description
	if bucket := params["bucket"]; bucket != "" && strings.Contains(chosen, "{bucket}") {
		desc += fmt.Sprintf(" in bucket '%s'", bucket)
	}
	if year := params["year"]; year != "" && strings.Contains(chosen, "{start_date}") {
		desc += fmt.Sprintf(" from %s", year)
	}
	if state := params["state"]; state != "" && strings.Contains(chosen, "{state}") {
		desc += fmt.Sprintf(" in %s state", state)
	}
	return desc
}

var serviceSuggestions = map[intent.ServiceID][]string{
	"s3": {
		"list my S3 buckets",
		"list objects in my-bucket-name",
		"show S3 buckets created in 2024",
	},
	"ec2": {
		"list my EC2 instances",
		"show running EC2 instances",
		"list stopped instances",
	},
	"lambda": {
		"list my Lambda functions",
		"show Python Lambda functions",
		"list functions created in 2024",
	},
}

var genericSuggestions = []string{
	"list my S3 buckets",
	"show my EC2 instances",
	"list my Lambda functions",
}

// SuggestionFor returns example phrasings scoped to the best-guessed service,
// or the generic set when the service is unknown.
func SuggestionFor(service intent.ServiceID) string {
	examples, ok := serviceSuggestions[service]
	if !ok {
		examples = genericSuggestions
	}
	return "Try one of these: " + strings.Join(examples, ", ")
}
