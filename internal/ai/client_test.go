package ai

import (
	"context"
	"strings"
	"testing"
)

func TestParseProposal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		command string
		wantErr bool
	}{
		{
			name:    "plain json",
			raw:     `{"success": true, "command": "aws s3 ls", "description": "Lists buckets"}`,
			command: "aws s3 ls",
		},
		{
			name: "code fenced",
			raw: "```json\n" +
				`{"success": true, "command": "aws ec2 describe-instances", "description": "Lists instances"}` +
				"\n```",
			command: "aws ec2 describe-instances",
		},
		{
			name:    "prose around json",
			raw:     `Sure, here you go: {"success": true, "command": " aws iam list-users ", "description": "Lists users"} Hope that helps.`,
			command: "aws iam list-users",
		},
		{
			name:    "declined",
			raw:     `{"success": false, "command": "", "description": "cannot do that"}`,
			wantErr: true,
		},
		{
			name:    "success without command",
			raw:     `{"success": true, "command": "  ", "description": "x"}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I am a large language model and cannot help with that.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"success": true, "command": "aws s3 ls"`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProposal(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseProposal(%q) = %+v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProposal(%q): %v", tt.raw, err)
			}
			if got.Command != tt.command {
				t.Errorf("command = %q, want %q", got.Command, tt.command)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"nested object", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"braces inside strings", `{"command": "aws s3 ls {x}"}`, `{"command": "aws s3 ls {x}"}`},
		{"escaped quote in string", `{"command": "say \"hi\" {"}`, `{"command": "say \"hi\" {"}`},
		{"first of two objects", `{"a": 1} {"b": 2}`, `{"a": 1}`},
		{"no object", "nothing here", ""},
		{"unbalanced", `{"a": 1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.raw); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "openai"})
	if err == nil || !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Errorf("err = %v, want unsupported-provider error", err)
	}
}

func TestNewClientAPIProviderRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "gemini-api"})
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("err = %v, want missing-key error", err)
	}
}
