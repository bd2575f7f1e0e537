package topology

import (
	"context"
	"fmt"

	"github.com/opmodel/geodeploy/internal/core"
	"github.com/opmodel/geodeploy/internal/engine"
	"github.com/opmodel/geodeploy/internal/future"
	"github.com/opmodel/geodeploy/internal/output"
)

// Stack expands a DeploymentSpec against an engine.
type Stack struct {
	spec *core.DeploymentSpec
	eng  engine.Engine
}

// NewStack returns a Stack for spec.
func NewStack(spec *core.DeploymentSpec, eng engine.Engine) *Stack {
	return &Stack{spec: spec, eng: eng}
}

// Outputs are the values a run publishes.
type Outputs struct {
	// Endpoints are the regional endpoints in declared region order.
	Endpoints []core.RegionalEndpoint

	// RegionURLs are the endpoint URLs in declared region order.
	RegionURLs []string

	RouterFQDN string
	RouterURL  string
}

// Handle names a requested resource alongside its Future.
type Handle struct {
	Kind   engine.Kind
	Name   string
	Region string
	Future *future.Future[*engine.Resource]
}

// Deployment is the fully expanded graph of one run. Every field is set when
// Run returns; the Futures settle as the engine converges.
type Deployment struct {
	Spec      *core.DeploymentSpec
	Shared    *Shared
	Regions   []*Region
	Endpoints *future.Future[[]core.RegionalEndpoint]
	Router    *Router
	Outputs   *future.Future[Outputs]

	handles []Handle
}

// Run expands the graph and returns without waiting on the engine. Shared
// prerequisites are requested first, then each region in declared order,
// then the aggregate and the router.
func (s *Stack) Run(ctx context.Context) *Deployment {
	spec := s.spec
	regions := spec.Regions()

	output.Debug("expanding deployment",
		"application", spec.ApplicationName(),
		"environment", spec.Environment(),
		"regions", len(regions),
	)

	d := &Deployment{Spec: spec}
	d.Shared = ProvisionShared(ctx, s.eng, spec)
	d.handles = append(d.handles,
		Handle{engine.KindResourceGroup, core.ResourceGroupName(spec, "common", spec.CommonRegion()), "", d.Shared.CommonGroup},
		Handle{engine.KindWorkspace, core.WorkspaceName(spec), "", d.Shared.Workspace},
	)

	d.Regions = make([]*Region, 0, len(regions))
	for _, region := range regions {
		r := BuildRegion(ctx, s.eng, spec, region, d.Shared)
		d.Regions = append(d.Regions, r)
		d.handles = append(d.handles,
			Handle{engine.KindResourceGroup, core.ResourceGroupName(spec, "app", region), region, r.Group},
			Handle{engine.KindHostingEnvironment, core.HostingEnvironmentName(spec, region), region, r.Environment},
			Handle{engine.KindWorkload, core.WorkloadName(spec, region), region, r.Workload},
		)
	}

	d.Endpoints = Aggregate(d.Regions)
	d.Router = BuildRouter(ctx, s.eng, spec, d.Shared.CommonGroup, d.Endpoints)
	d.handles = append(d.handles, Handle{engine.KindRouter, d.Router.RelativeName, "", d.Router.Resource})

	// The router is only created from a resolved aggregate, so its outcome
	// covers the endpoints too.
	d.Outputs = future.Map(d.Router.Resource, func(router *engine.Resource) (Outputs, error) {
		eps := future.Value(d.Endpoints)
		fqdn, ok := router.Outputs.String("dnsConfig", "fqdn")
		if !ok || fqdn == "" {
			fqdn = d.Router.RelativeName + "." + RouterDomain
		}
		return Outputs{
			Endpoints:  eps,
			RegionURLs: core.URLs(eps),
			RouterFQDN: fqdn,
			RouterURL:  "https://" + fqdn,
		}, nil
	})

	return d
}

// Wait blocks until the outputs settle or ctx is done.
func (d *Deployment) Wait(ctx context.Context) (Outputs, error) {
	return d.Outputs.Await(ctx)
}

// Settle blocks until every requested resource, the credential and the
// outputs have settled, whether or not they failed. Unlike Wait it does not
// return early on the first failure.
func (d *Deployment) Settle(ctx context.Context) error {
	waiters := []future.Waiter{d.Shared.Credential, d.Endpoints, d.Outputs}
	for _, r := range d.Regions {
		waiters = append(waiters, r.Endpoint)
	}
	for _, h := range d.handles {
		waiters = append(waiters, h.Future)
	}
	for _, w := range waiters {
		select {
		case <-w.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Resources returns a handle for every requested resource: shared ones
// first, then each region in declared order, then the router.
func (d *Deployment) Resources() []Handle {
	return append([]Handle(nil), d.handles...)
}

// Tree renders the current state of every resource, grouped by region.
func (d *Deployment) Tree() *output.TreeNode {
	root := &output.TreeNode{Name: fmt.Sprintf("%s (%s)", d.Spec.ApplicationName(), d.Spec.Environment())}
	shared := root.Add("shared", d.Spec.CommonRegion())
	groups := map[string]*output.TreeNode{}
	for _, h := range d.handles {
		parent := shared
		switch {
		case h.Kind == engine.KindRouter:
			parent = root
		case h.Region != "":
			if groups[h.Region] == nil {
				groups[h.Region] = root.Add(h.Region, "")
			}
			parent = groups[h.Region]
		}
		parent.Add(fmt.Sprintf("%s/%s", h.Kind, h.Name), handleStatus(h))
	}
	return root
}

func handleStatus(h Handle) string {
	res, ok, err := h.Future.Poll()
	switch {
	case !ok:
		return "pending"
	case err != nil:
		return output.StatusFailed
	default:
		return res.Status
	}
}
