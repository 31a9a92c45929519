package command

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAllowsReadOnlyCommands(t *testing.T) {
	v := NewValidator()

	commands := []string{
		"aws s3 ls",
		"aws s3 ls s3://mybucket123/ --recursive",
		"aws s3api list-buckets --output table",
		"aws ec2 describe-instances --region us-east-1",
		"aws lambda list-functions --query \"Functions[*].[FunctionName,Runtime]\" --output table",
		"aws iam list-users",
		"aws iam get-user",
		"aws rds describe-db-instances",
		"aws cloudformation list-stacks",
		"aws sts get-caller-identity",
		// Not on the literal prefix list; accepted by the generic
		// read-only action rule.
		"aws ecs list-clusters",
		"aws logs describe-log-groups",
	}
	for _, cmd := range commands {
		if err := v.Validate(cmd); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", cmd, err)
		}
	}
}

func TestValidateRejectsMutatingCommands(t *testing.T) {
	v := NewValidator()

	commands := []string{
		"aws s3api delete-bucket --bucket mybucket",
		"aws ec2 terminate-instances --instance-ids i-123",
		"aws ec2 run-instances --image-id ami-123",
		"aws iam create-user --user-name eve",
		"aws lambda update-function-code --function-name f",
		"aws s3api put-bucket-policy --bucket b",
		"rm -rf /",
		"kubectl delete pod x",
		"",
	}
	for _, cmd := range commands {
		if err := v.Validate(cmd); err == nil {
			t.Errorf("Validate(%q) = nil, want error", cmd)
		}
	}
}

func TestValidateDenyOverridesAllow(t *testing.T) {
	v := NewValidator()

	// Allow-listed prefix plus a deny-listed verb anywhere in the command:
	// deny must win.
	commands := []string{
		"aws ec2 describe-instances --filters Name=instance-state-name,Values=terminated",
		"aws s3 ls && aws s3api delete-bucket --bucket b",
		"aws iam list-users --query \"Users[?contains(UserName, `delete`)]\"",
	}
	for _, cmd := range commands {
		err := v.Validate(cmd)
		if err == nil {
			t.Errorf("Validate(%q) = nil, want deny-list rejection", cmd)
			continue
		}
		var unsafe *UnsafeError
		if !errors.As(err, &unsafe) {
			t.Errorf("Validate(%q) error type = %T, want *UnsafeError", cmd, err)
			continue
		}
		if !strings.Contains(unsafe.Reason, "blocked term") {
			t.Errorf("Validate(%q) reason = %q, want deny-list reason", cmd, unsafe.Reason)
		}
	}
}

func TestValidateCaseInsensitive(t *testing.T) {
	v := NewValidator()

	if err := v.Validate("AWS S3 LS"); err != nil {
		t.Errorf("upper-case allow-listed command rejected: %v", err)
	}
	if err := v.Validate("aws s3api DELETE-bucket --bucket b"); err == nil {
		t.Error("mixed-case deny term slipped through")
	}
}

func TestValidateDefaultTemplatesPass(t *testing.T) {
	v := NewValidator()
	r := newTestRenderer(t)

	// Every read-intent template in the default table must survive its own
	// safety policy, with all placeholders filled in.
	params := map[string]string{
		"bucket":     "mybucket123",
		"year":       "2024",
		"start_date": "2024-01-01",
		"end_date":   "2025-01-01",
		"state":      "running",
		"runtime":    "python",
	}
	for key, tpl := range DefaultTemplates() {
		if key.Action == "delete" {
			continue
		}
		variants := []string{tpl.Base}
		if tpl.Recursive != "" {
			variants = append(variants, tpl.Recursive)
		}
		for _, text := range tpl.Variants {
			variants = append(variants, text)
		}
		for _, text := range variants {
			rendered, missing := substitute(text, params)
			if missing != "" {
				t.Errorf("template %v: missing %q", key, missing)
				continue
			}
			rendered = r.EnsureRegion(rendered)
			if err := v.Validate(rendered); err != nil {
				t.Errorf("template %v rejected by safety policy: %v", key, err)
			}
		}
	}
}

func TestUnsafeErrorMessage(t *testing.T) {
	err := &UnsafeError{Command: "aws s3 rb s3://b", Reason: "not an allow-listed read-only command"}
	msg := err.Error()
	if !strings.Contains(msg, "aws s3 rb") || !strings.Contains(msg, "allow-listed") {
		t.Errorf("unexpected message: %q", msg)
	}
}
