package intent

// ServiceID names a cloud product area the taxonomy knows about.
type ServiceID string

// ActionID is the verb-level operation category of a query.
type ActionID string

// ResourceID is the noun being acted upon within a service.
type ResourceID string

const (
	ServiceUnknown  ServiceID  = "unknown"
	ResourceUnknown ResourceID = "unknown"

	ActionList     ActionID = "list"
	ActionDescribe ActionID = "describe"
	ActionCreate   ActionID = "create"
	ActionDelete   ActionID = "delete"
	ActionUpdate   ActionID = "update"
	ActionStop     ActionID = "stop"
	ActionStart    ActionID = "start"
)

// FeatureSet is the lexical view of a single request: the lowered raw text
// plus its word set. Duplicates collapse; token order never matters.
type FeatureSet struct {
	Tokens     map[string]bool
	RawLowered string
}

// Has reports whether the word appears in the request.
func (fs FeatureSet) Has(word string) bool {
	return fs.Tokens[word]
}

// ServiceEntry binds a service to its trigger words. Entries keep their
// registration order because equal scores break toward the first one.
type ServiceEntry struct {
	ID       ServiceID
	Keywords []string
}

// ActionEntry binds an action category to its trigger verbs.
type ActionEntry struct {
	ID       ActionID
	Keywords []string
}

// ResourceEntry binds a resource type to its trigger nouns within one service.
type ResourceEntry struct {
	ID       ResourceID
	Keywords []string
}

// Taxonomy is the static keyword configuration the classifier scores against.
// It is built once at startup and never mutated afterwards, so a single copy
// is safe to share across concurrent classifications.
type Taxonomy struct {
	Services  []ServiceEntry
	Actions   []ActionEntry
	Resources map[ServiceID][]ResourceEntry
}

// Match is the outcome of one classification pass. It is created fresh per
// request and only read after construction.
type Match struct {
	Service     ServiceID
	Action      ActionID
	Resource    ResourceID
	Confidence  float64
	Parameters  map[string]string
	Description string
}

// Recursive reports whether the request asked for a recursive/full listing.
func (m Match) Recursive() bool {
	return m.Parameters["recursive"] == "true"
}
