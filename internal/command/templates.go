package command

import (
	"fmt"
	"regexp"

	"github.com/sevaagent/seva/internal/intent"
)

// FilterKind names a template variant dimension keyed off an extracted
// parameter: a time range, an instance state, or a function runtime.
type FilterKind string

const (
	FilterTime    FilterKind = "time"
	FilterState   FilterKind = "state"
	FilterRuntime FilterKind = "runtime"
)

// filterOrder fixes the variant probe sequence so rendering stays
// deterministic when a query carries more than one filter parameter.
var filterOrder = []FilterKind{FilterTime, FilterState, FilterRuntime}

// filterParams maps each filter dimension to the parameter key that
// activates it.
var filterParams = map[FilterKind]string{
	FilterTime:    "year",
	FilterState:   "state",
	FilterRuntime: "runtime",
}

// TemplateKey identifies a command template by the classified triple.
type TemplateKey struct {
	Service  intent.ServiceID
	Action   intent.ActionID
	Resource intent.ResourceID
}

// Template holds the base command string, optional filtered and recursive
// variants, and the human description. Placeholders use {name} syntax and
// every referenced placeholder must be producible by the parameter extractor
// for that service.
type Template struct {
	Base        string
	Recursive   string
	Variants    map[FilterKind]string
	Description string
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

var defaultTemplates = map[TemplateKey]Template{
	{Service: "s3", Action: intent.ActionList, Resource: "buckets"}: {
		Base: "aws s3 ls",
		Variants: map[FilterKind]string{
			FilterTime: "aws s3api list-buckets --query \"Buckets[?CreationDate >= `{start_date}` && CreationDate < `{end_date}`].[Name,CreationDate]\" --output table",
		},
		Description: "Lists S3 buckets",
	},
	{Service: "s3", Action: intent.ActionList, Resource: "objects"}: {
		Base:        "aws s3 ls s3://{bucket}/",
		Recursive:   "aws s3 ls s3://{bucket}/ --recursive",
		Description: "Lists objects in S3 bucket",
	},
	{Service: "ec2", Action: intent.ActionList, Resource: "instances"}: {
		Base: "aws ec2 describe-instances --query \"Reservations[*].Instances[*].[InstanceId,State.Name,InstanceType,Placement.AvailabilityZone]\" --output table",
		Variants: map[FilterKind]string{
			FilterTime:  "aws ec2 describe-instances --query \"Reservations[*].Instances[?LaunchTime >= `{start_date}` && LaunchTime < `{end_date}`].[InstanceId,State.Name,InstanceType,LaunchTime]\" --output table",
			FilterState: "aws ec2 describe-instances --filters Name=instance-state-name,Values={state} --query \"Reservations[*].Instances[*].[InstanceId,State.Name,InstanceType,Placement.AvailabilityZone]\" --output table",
		},
		Description: "Lists EC2 instances",
	},
	{Service: "ec2", Action: intent.ActionList, Resource: "volumes"}: {
		Base:        "aws ec2 describe-volumes --query \"Volumes[*].[VolumeId,State,Size,AvailabilityZone]\" --output table",
		Description: "Lists EBS volumes",
	},
	{Service: "lambda", Action: intent.ActionList, Resource: "functions"}: {
		Base: "aws lambda list-functions --query \"Functions[*].[FunctionName,Runtime,LastModified]\" --output table",
		Variants: map[FilterKind]string{
			FilterTime:    "aws lambda list-functions --query \"Functions[?LastModified >= `{start_date}` && LastModified < `{end_date}`].[FunctionName,Runtime,LastModified]\" --output table",
			FilterRuntime: "aws lambda list-functions --query \"Functions[?starts_with(Runtime, `{runtime}`)].[FunctionName,Runtime,LastModified]\" --output table",
		},
		Description: "Lists Lambda functions",
	},
	{Service: "rds", Action: intent.ActionList, Resource: "instances"}: {
		Base:        "aws rds describe-db-instances --query \"DBInstances[*].[DBInstanceIdentifier,DBInstanceStatus,Engine,DBInstanceClass]\" --output table",
		Description: "Lists RDS database instances",
	},
	// JMESPath field names here must stay clear of the safety deny terms:
	// CreateDate would trip the "create" substring check.
	{Service: "iam", Action: intent.ActionList, Resource: "users"}: {
		Base:        "aws iam list-users --query \"Users[*].[UserName,Arn]\" --output table",
		Description: "Lists IAM users",
	},
	{Service: "iam", Action: intent.ActionList, Resource: "roles"}: {
		Base:        "aws iam list-roles --query \"Roles[*].[RoleName,Arn]\" --output table",
		Description: "Lists IAM roles",
	},
	{Service: "iam", Action: intent.ActionList, Resource: "policies"}: {
		Base:        "aws iam list-policies --scope Local --query \"Policies[*].[PolicyName,Arn]\" --output table",
		Description: "Lists customer-managed IAM policies",
	},

	// Mutating intents still classify and render; the safety validator is
	// the single enforcement point that rejects them afterwards.
	{Service: "s3", Action: intent.ActionDelete, Resource: "buckets"}: {
		Base:        "aws s3api delete-bucket --bucket {bucket}",
		Description: "Deletes an S3 bucket",
	},
}

// DefaultTemplates returns a copy of the built-in command table.
func DefaultTemplates() map[TemplateKey]Template {
	dst := make(map[TemplateKey]Template, len(defaultTemplates))
	for key, tpl := range defaultTemplates {
		copied := tpl
		if len(tpl.Variants) > 0 {
			copied.Variants = make(map[FilterKind]string, len(tpl.Variants))
			for kind, text := range tpl.Variants {
				copied.Variants[kind] = text
			}
		}
		dst[key] = copied
	}
	return dst
}

// ValidateTemplates checks that every template has a base command and a
// description and that variant keys are registered filter dimensions. Runs
// once at startup.
func ValidateTemplates(templates map[TemplateKey]Template) error {
	for key, tpl := range templates {
		if tpl.Base == "" {
			return fmt.Errorf("template %v has no base command", key)
		}
		if tpl.Description == "" {
			return fmt.Errorf("template %v has no description", key)
		}
		for kind := range tpl.Variants {
			if _, ok := filterParams[kind]; !ok {
				return fmt.Errorf("template %v has unregistered filter variant %q", key, kind)
			}
		}
	}
	return nil
}

// placeholders returns the distinct placeholder names in a template string.
func placeholders(tpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}
