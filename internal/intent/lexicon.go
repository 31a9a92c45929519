package intent

import (
	"fmt"
	"strings"
)

var defaultTaxonomy = Taxonomy{
	Services: []ServiceEntry{
		{ID: "s3", Keywords: []string{"s3", "bucket", "buckets", "objects"}},
		{ID: "ec2", Keywords: []string{"ec2", "instance", "instances", "server", "servers"}},
		{ID: "lambda", Keywords: []string{"lambda", "function", "functions", "serverless"}},
		{ID: "rds", Keywords: []string{"rds", "database", "databases", "db"}},
		{ID: "iam", Keywords: []string{"iam", "user", "users", "role", "roles", "policy", "policies"}},
		{ID: "ecs", Keywords: []string{"ecs", "container", "containers"}},
		{ID: "cloudformation", Keywords: []string{"cloudformation", "cfn", "stack", "stacks"}},
	},

	Actions: []ActionEntry{
		{ID: ActionList, Keywords: []string{"list", "show", "display", "get", "find", "retrieve", "view"}},
		{ID: ActionDescribe, Keywords: []string{"describe", "detail", "details", "info", "information", "status"}},
		{ID: ActionCreate, Keywords: []string{"create", "make", "build", "new"}},
		{ID: ActionDelete, Keywords: []string{"delete", "remove", "destroy", "terminate", "kill"}},
		{ID: ActionUpdate, Keywords: []string{"update", "modify", "change", "edit", "alter"}},
		{ID: ActionStop, Keywords: []string{"stop", "halt", "pause"}},
		{ID: ActionStart, Keywords: []string{"start", "begin", "run", "launch"}},
	},

	Resources: map[ServiceID][]ResourceEntry{
		"s3": {
			{ID: "buckets", Keywords: []string{"bucket", "buckets"}},
			{ID: "objects", Keywords: []string{"object", "objects", "file", "files", "content", "contents", "item", "items"}},
		},
		"ec2": {
			{ID: "instances", Keywords: []string{"instance", "instances", "server", "servers", "vm", "vms"}},
			{ID: "volumes", Keywords: []string{"volume", "volumes", "disk", "disks"}},
			{ID: "security_groups", Keywords: []string{"sg"}},
			{ID: "key_pairs", Keywords: []string{"keypair", "keypairs"}},
		},
		"lambda": {
			{ID: "functions", Keywords: []string{"function", "functions", "lambda", "lambdas"}},
		},
		"rds": {
			{ID: "instances", Keywords: []string{"instance", "instances", "database", "databases", "db"}},
		},
		"iam": {
			{ID: "users", Keywords: []string{"user", "users"}},
			{ID: "roles", Keywords: []string{"role", "roles"}},
			{ID: "policies", Keywords: []string{"policy", "policies"}},
		},
		"ecs": {
			{ID: "clusters", Keywords: []string{"cluster", "clusters"}},
			{ID: "tasks", Keywords: []string{"task", "tasks"}},
		},
		"cloudformation": {
			{ID: "stacks", Keywords: []string{"stack", "stacks"}},
		},
	},
}

// DefaultTaxonomy returns a private copy of the built-in keyword tables so a
// caller can tweak its own taxonomy without affecting shared state.
func DefaultTaxonomy() Taxonomy {
	return cloneTaxonomy(defaultTaxonomy)
}

// Validate checks the structural invariants of a taxonomy: non-empty
// lower-case keyword sets and no resource table for an unregistered service.
// It runs once at startup; a failure means misconfiguration, not user error.
func (t Taxonomy) Validate() error {
	if len(t.Services) == 0 {
		return fmt.Errorf("taxonomy has no services")
	}
	known := make(map[ServiceID]bool, len(t.Services))
	for _, svc := range t.Services {
		if err := checkKeywords(string(svc.ID), svc.Keywords); err != nil {
			return err
		}
		known[svc.ID] = true
	}
	for _, act := range t.Actions {
		if err := checkKeywords(string(act.ID), act.Keywords); err != nil {
			return err
		}
	}
	for svc, resources := range t.Resources {
		if !known[svc] {
			return fmt.Errorf("resource table references unregistered service %q", svc)
		}
		for _, res := range resources {
			if err := checkKeywords(fmt.Sprintf("%s/%s", svc, res.ID), res.Keywords); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkKeywords(owner string, keywords []string) error {
	if len(keywords) == 0 {
		return fmt.Errorf("%s has an empty keyword set", owner)
	}
	for _, kw := range keywords {
		if kw == "" || kw != strings.ToLower(kw) {
			return fmt.Errorf("%s has a non-lower-case keyword %q", owner, kw)
		}
	}
	return nil
}

func cloneTaxonomy(src Taxonomy) Taxonomy {
	dst := Taxonomy{
		Services:  make([]ServiceEntry, len(src.Services)),
		Actions:   make([]ActionEntry, len(src.Actions)),
		Resources: make(map[ServiceID][]ResourceEntry, len(src.Resources)),
	}
	for i, svc := range src.Services {
		dst.Services[i] = ServiceEntry{ID: svc.ID, Keywords: cloneKeywords(svc.Keywords)}
	}
	for i, act := range src.Actions {
		dst.Actions[i] = ActionEntry{ID: act.ID, Keywords: cloneKeywords(act.Keywords)}
	}
	for svc, resources := range src.Resources {
		copied := make([]ResourceEntry, len(resources))
		for i, res := range resources {
			copied[i] = ResourceEntry{ID: res.ID, Keywords: cloneKeywords(res.Keywords)}
		}
		dst.Resources[svc] = copied
	}
	return dst
}

func cloneKeywords(src []string) []string {
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
