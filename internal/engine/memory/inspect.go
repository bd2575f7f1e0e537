package memory

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/pkg/weights"
)

// Resources returns every realized resource in first-creation order.
func (e *Engine) Resources() []*engine.Resource {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*engine.Resource, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.resources[k])
	}
	return out
}

// ResourcesOfKind returns the realized resources of kind in creation order.
func (e *Engine) ResourcesOfKind(kind engine.Kind) []*engine.Resource {
	var out []*engine.Resource
	for _, r := range e.Resources() {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Resource returns the realized resource kind/name.
func (e *Engine) Resource(kind engine.Kind, name string) (*engine.Resource, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.resources[key{kind, name}]
	return r, ok
}

// Requests returns every Create and Query call in call order, including
// calls whose inputs never resolved.
func (e *Engine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Request(nil), e.requests...)
}

// RequestsOfKind returns the create requests for kind in call order.
func (e *Engine) RequestsOfKind(kind engine.Kind) []Request {
	var out []Request
	for _, r := range e.Requests() {
		if r.Op == OpCreate && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// snapshotEntry is the serialized form of one resource.
type snapshotEntry struct {
	Kind    engine.Kind       `json:"kind"`
	Name    string            `json:"name"`
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Outputs engine.Properties `json:"outputs"`
}

// Snapshot renders every realized resource as a YAML list ordered by kind
// weight, then name, so equal states render identically.
func (e *Engine) Snapshot() ([]byte, error) {
	resources := e.Resources()
	sort.SliceStable(resources, func(i, j int) bool {
		wi, wj := weights.GetWeight(resources[i].Kind), weights.GetWeight(resources[j].Kind)
		if wi != wj {
			return wi < wj
		}
		return resources[i].Name < resources[j].Name
	})
	entries := make([]snapshotEntry, len(resources))
	for i, r := range resources {
		entries[i] = snapshotEntry{
			Kind:    r.Kind,
			Name:    r.Name,
			ID:      r.ID,
			Status:  r.Status,
			Outputs: redact(r.Kind, r.Outputs),
		}
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// redact hides the workspace credential carried by hosting environments.
func redact(kind engine.Kind, outs engine.Properties) engine.Properties {
	if kind != engine.KindHostingEnvironment {
		return outs
	}
	cp := outs.DeepCopy()
	if _, ok := cp.Lookup("appLogsConfiguration", "logAnalyticsConfiguration", "sharedKey"); ok {
		cp.Set("[redacted]", "appLogsConfiguration", "logAnalyticsConfiguration", "sharedKey")
	}
	return cp
}
