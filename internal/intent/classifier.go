package intent

import (
	"fmt"
)

// ConfidenceThreshold is the score below which a classification is treated
// as failed and the caller should fall back or surface suggestions.
const ConfidenceThreshold = 0.4

// Classifier scores feature sets against an immutable taxonomy. One instance
// serves any number of concurrent calls; it holds no per-request state.
type Classifier struct {
	tax Taxonomy
}

// NewClassifier validates the taxonomy up front so per-request paths never
// have to deal with configuration errors.
func NewClassifier(tax Taxonomy) (*Classifier, error) {
	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return &Classifier{tax: tax}, nil
}

// Classify scores the feature set against every service, action, and resource
// table and returns the best match with a confidence in [0,1].
//
// Service scores are normalized overlap ratios (matched keywords over total
// keywords) so services with bigger keyword sets aren't favored by partial
// matches. Action and resource scores are raw counts; their keyword sets are
// deliberately small and similarly sized. Equal scores break toward the
// first-registered entry, which keeps classification deterministic.
func (c *Classifier) Classify(fs FeatureSet) Match {
	service, serviceScore := c.bestService(fs)
	action, actionScore := c.bestAction(fs)
	resource := c.bestResource(fs, service)

	params := ExtractParameters(fs, service)

	confidence := 0.0
	if service != ServiceUnknown {
		confidence = scoreConfidence(serviceScore, actionScore, params)
	}

	return Match{
		Service:     service,
		Action:      action,
		Resource:    resource,
		Confidence:  confidence,
		Parameters:  params,
		Description: fmt.Sprintf("%s %s %s", action, service, resource),
	}
}

func (c *Classifier) bestService(fs FeatureSet) (ServiceID, float64) {
	best := ServiceUnknown
	bestScore := 0.0
	for _, svc := range c.tax.Services {
		matched := 0
		for _, kw := range svc.Keywords {
			if fs.Has(kw) {
				matched++
			}
		}
		score := float64(matched) / float64(len(svc.Keywords))
		if score > bestScore {
			best = svc.ID
			bestScore = score
		}
	}
	if bestScore == 0 {
		return ServiceUnknown, 0
	}
	return best, bestScore
}

func (c *Classifier) bestAction(fs FeatureSet) (ActionID, int) {
	// Absence of an action verb defaults to list: the engine is read-heavy
	// and "my s3 buckets" should not abort classification.
	best := ActionList
	bestScore := 0
	for _, act := range c.tax.Actions {
		matched := 0
		for _, kw := range act.Keywords {
			if fs.Has(kw) {
				matched++
			}
		}
		if matched > bestScore {
			best = act.ID
			bestScore = matched
		}
	}
	return best, bestScore
}

func (c *Classifier) bestResource(fs FeatureSet, service ServiceID) ResourceID {
	best := ResourceUnknown
	bestScore := 0
	for _, res := range c.tax.Resources[service] {
		matched := 0
		for _, kw := range res.Keywords {
			if fs.Has(kw) {
				matched++
			}
		}
		if matched > bestScore {
			best = res.ID
			bestScore = matched
		}
	}
	return best
}

// scoreConfidence combines the service ratio with a damped action count and
// boosts for every concrete parameter the extractor recovered. Boosts are
// additive, so adding a recognized parameter never lowers the score.
func scoreConfidence(serviceScore float64, actionScore int, params map[string]string) float64 {
	confidence := (serviceScore + 0.1*float64(actionScore)) * 0.7

	if params["bucket"] != "" {
		confidence += 0.2
	}
	if params["year"] != "" {
		confidence += 0.1
	}
	if params["state"] != "" {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
