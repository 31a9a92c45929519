package intent

import (
	"testing"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultTaxonomy())
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestClassifyScenarios(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		text     string
		service  ServiceID
		action   ActionID
		resource ResourceID
	}{
		{"list buckets", "list my s3 buckets", "s3", ActionList, "buckets"},
		{"list objects with bucket", "list objects in mybucket123", "s3", ActionList, "objects"},
		{"ec2 with year", "show ec2 instances created in 2024", "ec2", ActionList, "instances"},
		{"delete bucket", "delete my bucket mybucket", "s3", ActionDelete, "buckets"},
		{"lambda with runtime", "list python lambda functions", "lambda", ActionList, "functions"},
		{"rds", "show my rds databases", "rds", ActionList, "instances"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := c.Classify(Extract(tt.text))
			if m.Service != tt.service || m.Action != tt.action || m.Resource != tt.resource {
				t.Errorf("Classify(%q) = (%s, %s, %s), want (%s, %s, %s)",
					tt.text, m.Service, m.Action, m.Resource, tt.service, tt.action, tt.resource)
			}
			if m.Confidence < ConfidenceThreshold {
				t.Errorf("Classify(%q) confidence = %.3f, want >= %.2f", tt.text, m.Confidence, ConfidenceThreshold)
			}
		})
	}
}

func TestClassifyResourceWithinService(t *testing.T) {
	c := newTestClassifier(t)

	// Resource keywords only count within the winning service's table.
	tests := []struct {
		text     string
		service  ServiceID
		resource ResourceID
	}{
		{"display iam roles", "iam", "roles"},
		{"show iam policies", "iam", "policies"},
		{"list ec2 volumes", "ec2", "volumes"},
	}
	for _, tt := range tests {
		m := c.Classify(Extract(tt.text))
		if m.Service != tt.service || m.Resource != tt.resource {
			t.Errorf("Classify(%q) = (%s, %s), want (%s, %s)",
				tt.text, m.Service, m.Resource, tt.service, tt.resource)
		}
	}
}

func TestClassifyGibberish(t *testing.T) {
	c := newTestClassifier(t)

	m := c.Classify(Extract("asdkjasd"))
	if m.Service != ServiceUnknown {
		t.Errorf("service = %s, want %s", m.Service, ServiceUnknown)
	}
	if m.Confidence != 0 {
		t.Errorf("confidence = %.3f, want 0", m.Confidence)
	}
}

func TestClassifyDefaultsToList(t *testing.T) {
	c := newTestClassifier(t)

	// No action verb at all; a read-heavy engine should assume listing.
	m := c.Classify(Extract("my s3 buckets"))
	if m.Action != ActionList {
		t.Errorf("action = %s, want %s", m.Action, ActionList)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier(t)

	first := c.Classify(Extract("show ec2 instances created in 2024"))
	for i := 0; i < 10; i++ {
		again := c.Classify(Extract("show ec2 instances created in 2024"))
		if again.Service != first.Service || again.Action != first.Action ||
			again.Resource != first.Resource || again.Confidence != first.Confidence {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestClassifyTieBreaksToFirstRegistered(t *testing.T) {
	tax := Taxonomy{
		Services: []ServiceEntry{
			{ID: "alpha", Keywords: []string{"widget"}},
			{ID: "beta", Keywords: []string{"widget"}},
		},
		Actions: []ActionEntry{
			{ID: ActionList, Keywords: []string{"list"}},
		},
	}
	c, err := NewClassifier(tax)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	m := c.Classify(Extract("list widget"))
	if m.Service != "alpha" {
		t.Errorf("service = %s, want alpha (first registered wins ties)", m.Service)
	}
}

func TestConfidenceMonotonicity(t *testing.T) {
	c := newTestClassifier(t)

	base := c.Classify(Extract("show ec2 instances")).Confidence
	withState := c.Classify(Extract("show running ec2 instances")).Confidence
	withYear := c.Classify(Extract("show ec2 instances created in 2024")).Confidence

	if withState < base {
		t.Errorf("state parameter lowered confidence: %.3f < %.3f", withState, base)
	}
	if withYear < base {
		t.Errorf("year parameter lowered confidence: %.3f < %.3f", withYear, base)
	}
}

func TestConfidenceKnownValues(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		text string
		want float64
	}{
		// (2/4 service + 0.1 action) * 0.7
		{"list my s3 buckets", 0.42},
		// (1/4 + 0.1) * 0.7 + 0.2 bucket boost
		{"list objects in mybucket123", 0.445},
		// (2/5 + 0.1) * 0.7 + 0.1 year boost
		{"show ec2 instances created in 2024", 0.45},
	}
	for _, tt := range tests {
		got := c.Classify(Extract(tt.text)).Confidence
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("confidence(%q) = %.4f, want %.4f", tt.text, got, tt.want)
		}
	}
}

func TestConfidenceClamped(t *testing.T) {
	c := newTestClassifier(t)

	// Every boost at once still stays inside [0,1].
	m := c.Classify(Extract("list all buckets in mybucket123 created in 2024"))
	if m.Confidence < 0 || m.Confidence > 1 {
		t.Errorf("confidence = %.3f, want within [0,1]", m.Confidence)
	}
}

func TestNewClassifierRejectsBadTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		tax  Taxonomy
	}{
		{"no services", Taxonomy{}},
		{"empty keywords", Taxonomy{
			Services: []ServiceEntry{{ID: "s3"}},
		}},
		{"upper-case keyword", Taxonomy{
			Services: []ServiceEntry{{ID: "s3", Keywords: []string{"S3"}}},
		}},
		{"orphan resource table", Taxonomy{
			Services:  []ServiceEntry{{ID: "s3", Keywords: []string{"s3"}}},
			Resources: map[ServiceID][]ResourceEntry{"ec2": {{ID: "instances", Keywords: []string{"instance"}}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClassifier(tt.tax); err == nil {
				t.Error("expected error for invalid taxonomy")
			}
		})
	}
}
