package aws

import (
	"context"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	if got := formatTime(nil); got != "" {
		t.Errorf("formatTime(nil) = %q, want empty", got)
	}

	ts := time.Date(2024, 3, 15, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	if got := formatTime(&ts); got != "2024-03-15T11:30:00Z" {
		t.Errorf("formatTime = %q, want UTC RFC3339", got)
	}
}

// Integration test: needs real credentials, so it only runs outside -short.
func TestWhoAmIIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, err := NewClient(ctx)
	if err != nil {
		t.Skipf("no AWS config available: %v", err)
	}

	identity, err := client.WhoAmI(ctx)
	if err != nil {
		t.Skipf("no usable AWS credentials: %v", err)
	}
	if identity.Account == "" || identity.Arn == "" {
		t.Errorf("incomplete identity: %+v", identity)
	}
}
