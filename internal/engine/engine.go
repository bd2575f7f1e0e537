// Package engine defines the contract between the topology builder and the
// Resource Provisioning Engine that realizes named resources remotely.
//
// The engine owns create/diff/update/delete against the provider, retries,
// and cancellation. The topology builder only hands it a kind, a name, a
// Future of the resource properties, and per-operation options.
package engine

import (
	"context"
	"time"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/future"
)

// Kind identifies a resource type.
type Kind string

// Resource kinds created by the topology builder.
const (
	KindResourceGroup      Kind = "resource-group"
	KindWorkspace          Kind = "log-workspace"
	KindHostingEnvironment Kind = "hosting-environment"
	KindWorkload           Kind = "container-workload"
	KindRouter             Kind = "traffic-router"
)

// QueryWorkspaceSharedKeys reads the access keys of a logging workspace.
// Params: resourceGroupName, workspaceName. Result: primarySharedKey.
const QueryWorkspaceSharedKeys = "workspace-shared-keys"

// CustomTimeouts bounds individual control-plane operations on a resource.
// Zero means the engine default.
type CustomTimeouts struct {
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// Options configures a single Create call.
type Options struct {
	// CustomTimeouts overrides the engine default operation timeouts.
	CustomTimeouts *CustomTimeouts
}

// Engine realizes resources and answers queries. Every call returns
// immediately; the work starts once the input Future resolves. If the input
// Future fails, the returned Future fails with the same error and no remote
// call is made.
type Engine interface {
	// Create realizes the resource kind/name with the properties props resolves to.
	// Creating an existing name converges it instead of duplicating it.
	Create(ctx context.Context, kind Kind, name string, props *future.Future[Properties], opts Options) *future.Future[*Resource]

	// Query runs a read-only lookup named query with the given parameters.
	Query(ctx context.Context, query string, params *future.Future[Properties]) *future.Future[Properties]
}

// Tagged is implemented by provisioned objects that expose their tag set.
type Tagged interface {
	// Tags returns the tag set and whether the object carries one.
	Tags() (core.Tags, bool)
}

// Resource is the engine's handle for a realized resource.
type Resource struct {
	Kind    Kind
	Name    string
	ID      string
	Status  string
	Inputs  Properties
	Outputs Properties
}

var _ Tagged = (*Resource)(nil)

// Tags returns the tags the resource was created with.
func (r *Resource) Tags() (core.Tags, bool) {
	raw, ok := r.Inputs[PropTags]
	if !ok {
		return nil, false
	}
	return toTags(raw)
}

// Location returns the location the resource was created in, if any.
func (r *Resource) Location() string {
	s, _ := r.Inputs.String(PropLocation)
	return s
}

func toTags(raw any) (core.Tags, bool) {
	switch v := raw.(type) {
	case core.Tags:
		return v.Clone(), true
	case map[string]string:
		return core.Tags(v).Clone(), true
	case map[string]any:
		tags := make(core.Tags, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				return nil, false
			}
			tags[k] = s
		}
		return tags, true
	default:
		return nil, false
	}
}
